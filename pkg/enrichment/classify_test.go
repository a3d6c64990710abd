package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flowsight/flowsight/pkg/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestClassifyDomain(t *testing.T) {
	tests := []struct {
		name     string
		workflow string
		expected string
	}{
		{"finance keywords", "Invoice Payment Reminder", "Finance"},
		{"sales keywords", "New Lead to CRM", "Sales"},
		{"report maps to data", "Weekly Report", "Data"},
		{"no signal", "My Workflow", DomainUnknown},
		{"tie keeps earlier domain", "Lead Campaign", "Sales"},
		{"higher count beats earlier domain", "Lead Campaign Newsletter", "Marketing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(models.WorkflowSummary{Name: tt.workflow, Active: true})
			assert.Equal(t, tt.expected, result.Domain)
		})
	}
}

func TestClassifySystems(t *testing.T) {
	result := Classify(models.WorkflowSummary{Name: "Notion to Slack sync", Active: true})

	assert.Equal(t, []string{"Notion", "Slack"}, result.Systems)
	assert.Equal(t, "Sync Notion data to Slack", result.Output)
}

func TestClassifyOutputRules(t *testing.T) {
	tests := []struct {
		name     string
		workflow string
		expected string
	}{
		{"two systems wins", "Stripe payments report to Slack", "Sync Stripe data to Slack"},
		{"report phrasing", "Weekly Report", "Generate and deliver a recurring report"},
		{"alert phrasing", "Notify on new signup", "Send alerts on matching events"},
		{"sync phrasing", "Sync customer data", "Synchronize data between systems"},
		{"single system", "Slack standup helper", "Unknown automation via Slack"},
		{"domain only", "Invoice reminders", "Finance automation"},
		{"nothing", "Untitled", "Unconfigured workflow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(models.WorkflowSummary{Name: tt.workflow, Active: true})
			assert.Equal(t, tt.expected, result.Output)
		})
	}
}

func TestClassifyRiskFlags(t *testing.T) {
	summary := models.WorkflowSummary{
		Name:             "Untitled webhook handler",
		Active:           false,
		TriggerType:      "",
		NodesCount:       12,
		HasPublicWebhook: true,
	}

	result := Classify(summary)

	assert.ElementsMatch(t, []RiskFlag{
		RiskInactive,
		RiskPublicWebhook,
		RiskNoTrigger,
		RiskHighComplexity,
		RiskUnknown,
	}, result.RiskFlags)
}

func TestClassifyHealthPriority(t *testing.T) {
	stale := timePtr(time.Now().UTC().Add(-60 * 24 * time.Hour))
	recent := timePtr(time.Now().UTC().Add(-time.Hour))

	tests := []struct {
		name     string
		summary  models.WorkflowSummary
		expected Health
	}{
		{
			"failed execution beats everything",
			models.WorkflowSummary{
				Name:                "Invoice sync",
				Active:              false,
				LastExecutionStatus: models.ExecutionStatusError,
				LastExecutionDate:   stale,
			},
			HealthBroken,
		},
		{
			"stale execution warns",
			models.WorkflowSummary{
				Name:                "Invoice payment sync",
				Active:              true,
				TriggerType:         "schedule",
				LastExecutionStatus: models.ExecutionStatusSuccess,
				LastExecutionDate:   stale,
			},
			HealthWarning,
		},
		{
			"inactive never executed warns",
			models.WorkflowSummary{
				Name:        "Invoice payment sync",
				Active:      false,
				TriggerType: "schedule",
			},
			HealthWarning,
		},
		{
			"non-inactive flag warns",
			models.WorkflowSummary{
				Name:                "Invoice payment webhook",
				Active:              true,
				TriggerType:         "webhook",
				LastExecutionStatus: models.ExecutionStatusSuccess,
				LastExecutionDate:   recent,
			},
			HealthWarning,
		},
		{
			"healthy workflow is ok",
			models.WorkflowSummary{
				Name:                "Invoice payment sync",
				Active:              true,
				TriggerType:         "schedule",
				NodesCount:          3,
				LastExecutionStatus: models.ExecutionStatusSuccess,
				LastExecutionDate:   recent,
			},
			HealthOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.summary)
			assert.Equal(t, tt.expected, result.Health)
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	both := Classify(models.WorkflowSummary{Name: "Invoice payments to Stripe", Active: true})
	assert.InDelta(t, 0.85, both.Confidence, 0.001)

	domainOnly := Classify(models.WorkflowSummary{Name: "Invoice payment reminder", Active: true})
	assert.InDelta(t, 0.65, domainOnly.Confidence, 0.001)

	neither := Classify(models.WorkflowSummary{Name: "Untitled", Active: true})
	assert.InDelta(t, 0.4, neither.Confidence, 0.001)
}

func TestClassifyReasonPrefersExecutionSignals(t *testing.T) {
	summary := models.WorkflowSummary{
		Name:                "Invoice payments to Stripe",
		Active:              true,
		LastExecutionStatus: models.ExecutionStatusError,
	}

	result := Classify(summary)

	assert.Equal(t, "Last execution failed", result.Reason)
}
