package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsight/flowsight/pkg/models"
)

func candidate(id, name string) Candidate {
	return Candidate{
		ID:         id,
		Name:       name,
		Enrichment: Classify(models.WorkflowSummary{ID: id, Name: name, Active: true}),
	}
}

func TestDetectDuplicatesExactName(t *testing.T) {
	pairs, similar := DetectDuplicates([]Candidate{
		candidate("wf-1", "Weekly Report"),
		candidate("wf-2", "weekly report"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, PairExactName, pairs[0].Reason)
	assert.Equal(t, "wf-1", pairs[0].IDA)
	assert.Equal(t, "wf-2", pairs[0].IDB)

	assert.Equal(t, []string{"weekly report"}, similar["wf-1"])
	assert.Equal(t, []string{"Weekly Report"}, similar["wf-2"])
}

func TestDetectDuplicatesProbable(t *testing.T) {
	// Same domain (Finance), same derived output, same first three words.
	pairs, _ := DetectDuplicates([]Candidate{
		candidate("wf-1", "Invoice payment reminder daily"),
		candidate("wf-2", "Invoice payment reminder weekly"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, PairProbable, pairs[0].Reason)
}

func TestDetectDuplicatesUnknownDomainNeverProbable(t *testing.T) {
	pairs, _ := DetectDuplicates([]Candidate{
		candidate("wf-1", "Untitled thing one extra"),
		candidate("wf-2", "Untitled thing one other"),
	})

	assert.Empty(t, pairs)
}

func TestDetectDuplicatesUnrelatedWorkflows(t *testing.T) {
	pairs, similar := DetectDuplicates([]Candidate{
		candidate("wf-1", "Invoice payment reminder"),
		candidate("wf-2", "Notion to Slack sync"),
	})

	assert.Empty(t, pairs)
	assert.Empty(t, similar)
}
