package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedValid(t *testing.T) {
	data := []byte(`[
		{"user_id": "user-1", "provider": "n8n", "name": "Main n8n", "config": {"base_url": "https://n8n.example.com"}},
		{"user_id": "user-2", "provider": "make", "config": {"base_url": "https://eu1.make.com", "team_id": "42"}}
	]`)

	conns, err := parseSeed(data)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, "n8n", conns[0].Provider)
	assert.Equal(t, "42", conns[1].Config["team_id"])
}

func TestParseSeedRejectsUnknownProvider(t *testing.T) {
	data := []byte(`[{"user_id": "user-1", "provider": "zapier"}]`)

	_, err := parseSeed(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation errors")
}

func TestParseSeedRejectsMissingUserID(t *testing.T) {
	data := []byte(`[{"provider": "n8n"}]`)

	_, err := parseSeed(data)
	require.Error(t, err)
}

func TestParseSeedRejectsNonArray(t *testing.T) {
	data := []byte(`{"user_id": "user-1", "provider": "n8n"}`)

	_, err := parseSeed(data)
	require.Error(t, err)
}
