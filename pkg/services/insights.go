package services

import (
	"context"
	"fmt"

	"github.com/flowsight/flowsight/pkg/enrichment"
	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
)

// WorkflowInsight pairs a workflow with its derived classification and the
// names of suspected duplicates.
type WorkflowInsight struct {
	Workflow     *models.Workflow      `json:"workflow"`
	Enrichment   enrichment.Enrichment `json:"enrichment"`
	SimilarNames []string              `json:"similar_names,omitempty"`
}

// InsightsReport is the full enrichment pass over one connection's workflows.
type InsightsReport struct {
	Workflows  []WorkflowInsight          `json:"workflows"`
	Duplicates []enrichment.DuplicatePair `json:"duplicates"`
}

type Insights struct {
	persistence persistence.Persistence
}

func NewInsights(persistence persistence.Persistence) *Insights {
	return &Insights{
		persistence: persistence,
	}
}

// ForConnection classifies every synced workflow of a connection and detects
// duplicates inside that working set. Nothing is persisted; the report is
// recomputed on each call.
func (s *Insights) ForConnection(ctx context.Context, connectionID string) (*InsightsReport, error) {
	records, err := s.persistence.RecordRepository().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return buildReport(records), nil
}

// Global classifies the entire persisted record set across connections.
func (s *Insights) Global(ctx context.Context) (*InsightsReport, error) {
	records, err := s.persistence.RecordRepository().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return buildReport(records), nil
}

func buildReport(records []*models.WorkflowRecord) *InsightsReport {
	insights := make([]WorkflowInsight, 0, len(records))
	candidates := make([]enrichment.Candidate, 0, len(records))

	for _, record := range records {
		workflow := record.Canonical()
		enriched := enrichment.Classify(models.Summarize(workflow))

		insights = append(insights, WorkflowInsight{
			Workflow:   workflow,
			Enrichment: enriched,
		})

		candidates = append(candidates, enrichment.Candidate{
			ID:         record.ID,
			Name:       workflow.Name,
			Enrichment: enriched,
		})
	}

	pairs, similar := enrichment.DetectDuplicates(candidates)

	for i := range insights {
		insights[i].SimilarNames = similar[candidates[i].ID]
	}

	return &InsightsReport{
		Workflows:  insights,
		Duplicates: pairs,
	}
}
