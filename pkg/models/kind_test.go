package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForType(t *testing.T) {
	tests := []struct {
		nodeType string
		expected NodeKind
	}{
		{"n8n-nodes-base.webhook", NodeKindTrigger},
		{"n8n-nodes-base.scheduleTrigger", NodeKindTrigger},
		{"n8n-nodes-base.if", NodeKindRouter},
		{"n8n-nodes-base.switch", NodeKindRouter},
		{"builtin:BasicRouter", NodeKindRouter},
		{"n8n-nodes-base.filter", NodeKindRouter},
		{"n8n-nodes-base.slack", NodeKindAction},
		{"http:ActionSendData", NodeKindAction},
		{"", NodeKindAction},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForType(tt.nodeType))
		})
	}
}

func TestKindForType_TriggerBeatsRouterKeywords(t *testing.T) {
	// "notificationTrigger" contains "if" inside "notification", but the
	// trigger match has priority.
	assert.Equal(t, NodeKindTrigger, KindForType("notificationTrigger"))
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		nodeType string
		expected string
	}{
		{"n8n-nodes-base.webhook", "Webhook"},
		{"n8n-nodes-base.googleSheets", "Google Sheets"},
		{"n8n-nodes-base.httpRequest", "Http Request"},
		{"gateway:CustomWebHook", "Custom Web Hook"},
		{"slack", "Slack"},
		{"HTTPRequest", "HTTP Request"},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLabel(tt.nodeType))
		})
	}
}

func TestFormatLabel_Empty(t *testing.T) {
	assert.Equal(t, "", FormatLabel(""))
}
