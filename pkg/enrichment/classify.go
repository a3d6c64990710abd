// Package enrichment derives descriptive metadata for synced workflows:
// business domain, involved vendor systems, risk flags, health and a
// human-readable reason. Classification is deterministic and pure; it reads a
// denormalized workflow summary and never touches storage.
package enrichment

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flowsight/flowsight/pkg/models"
)

type Health string

const (
	HealthOK      Health = "ok"
	HealthWarning Health = "warning"
	HealthBroken  Health = "broken"
)

type RiskFlag string

const (
	RiskInactive       RiskFlag = "inactive"
	RiskPublicWebhook  RiskFlag = "public_webhook"
	RiskNoTrigger      RiskFlag = "no_trigger"
	RiskHighComplexity RiskFlag = "high_complexity"
	RiskUnknown        RiskFlag = "unknown"
)

// Node counts above this threshold flag a workflow as high complexity.
const complexityThreshold = 10

// Executions older than this are considered stale.
const staleAfter = 30 * 24 * time.Hour

type Enrichment struct {
	Domain     string     `json:"domain"`
	Output     string     `json:"output"`
	Systems    []string   `json:"systems"`
	RiskFlags  []RiskFlag `json:"risk_flags"`
	Health     Health     `json:"health"`
	Confidence float64    `json:"confidence"`
	Reason     string     `json:"reason"`
}

// Classify derives the full enrichment for one workflow summary.
func Classify(summary models.WorkflowSummary) Enrichment {
	name := strings.ToLower(summary.Name)

	domain := classifyDomain(name)
	systems := detectSystems(name)
	output := deriveOutput(name, domain, systems)
	flags := riskFlags(summary, name, domain, systems)
	health := deriveHealth(summary, flags)

	return Enrichment{
		Domain:     domain,
		Output:     output,
		Systems:    systems,
		RiskFlags:  flags,
		Health:     health,
		Confidence: confidence(domain, systems),
		Reason:     deriveReason(summary, domain, systems, health),
	}
}

// classifyDomain picks the domain with the strictly highest keyword match
// count. Ties keep the earlier domain in rule order; zero matches yield
// Unknown.
func classifyDomain(name string) string {
	best := DomainUnknown
	bestCount := 0

	for _, rule := range domainRules {
		count := 0

		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				count++
			}
		}

		if count > bestCount {
			best = rule.domain
			bestCount = count
		}
	}

	return best
}

// detectSystems returns each matched vendor once, ordered by where it first
// appears in the name.
func detectSystems(name string) []string {
	type hit struct {
		pos     int
		display string
	}

	var hits []hit

	for _, rule := range systemRules {
		if pos := strings.Index(name, rule.keyword); pos >= 0 {
			hits = append(hits, hit{pos: pos, display: rule.display})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	systems := make([]string, 0, len(hits))
	for _, h := range hits {
		systems = append(systems, h.display)
	}

	if len(systems) == 0 {
		return nil
	}

	return systems
}

func deriveOutput(name, domain string, systems []string) string {
	switch {
	case len(systems) >= 2:
		return fmt.Sprintf("Sync %s data to %s", systems[0], systems[1])
	case strings.Contains(name, "report") || strings.Contains(name, "digest"):
		return "Generate and deliver a recurring report"
	case strings.Contains(name, "alert") || strings.Contains(name, "notify"):
		return "Send alerts on matching events"
	case strings.Contains(name, "sync"):
		return "Synchronize data between systems"
	case len(systems) == 1:
		return fmt.Sprintf("%s automation via %s", domain, systems[0])
	case domain != DomainUnknown:
		return fmt.Sprintf("%s automation", domain)
	default:
		return "Unconfigured workflow"
	}
}

func riskFlags(summary models.WorkflowSummary, name, domain string, systems []string) []RiskFlag {
	var flags []RiskFlag

	if !summary.Active {
		flags = append(flags, RiskInactive)
	}

	if summary.HasPublicWebhook || strings.Contains(name, "webhook") {
		flags = append(flags, RiskPublicWebhook)
	}

	if summary.TriggerType == "" || summary.TriggerType == "none" {
		flags = append(flags, RiskNoTrigger)
	}

	if summary.NodesCount > complexityThreshold {
		flags = append(flags, RiskHighComplexity)
	}

	if domain == DomainUnknown && len(systems) == 0 {
		flags = append(flags, RiskUnknown)
	}

	return flags
}

// deriveHealth applies the health rules in strict priority order: a failed
// last execution always wins; staleness and never-run-while-inactive come
// next; any non-inactive risk flag still degrades to warning.
func deriveHealth(summary models.WorkflowSummary, flags []RiskFlag) Health {
	if summary.LastExecutionStatus == models.ExecutionStatusError {
		return HealthBroken
	}

	if summary.LastExecutionDate != nil && time.Since(*summary.LastExecutionDate) > staleAfter {
		return HealthWarning
	}

	if !summary.Active && summary.LastExecutionDate == nil {
		return HealthWarning
	}

	for _, flag := range flags {
		if flag != RiskInactive {
			return HealthWarning
		}
	}

	return HealthOK
}

func confidence(domain string, systems []string) float64 {
	hasDomain := domain != DomainUnknown
	hasSystems := len(systems) > 0

	switch {
	case hasDomain && hasSystems:
		return 0.85
	case hasDomain || hasSystems:
		return 0.65
	default:
		return 0.4
	}
}

// deriveReason explains the classification. Execution-based reasons take
// precedence over classification-based ones, mirroring the health priority.
func deriveReason(summary models.WorkflowSummary, domain string, systems []string, health Health) string {
	switch {
	case summary.LastExecutionStatus == models.ExecutionStatusError:
		return "Last execution failed"
	case summary.LastExecutionDate != nil && time.Since(*summary.LastExecutionDate) > staleAfter:
		return fmt.Sprintf("Not executed since %s", summary.LastExecutionDate.Format("2006-01-02"))
	case !summary.Active && summary.LastExecutionDate == nil:
		return "Inactive and never executed"
	case domain != DomainUnknown && len(systems) > 0:
		return fmt.Sprintf("%s workflow involving %s", domain, strings.Join(systems, ", "))
	case domain != DomainUnknown:
		return fmt.Sprintf("Matched %s keywords in the workflow name", domain)
	case len(systems) > 0:
		return fmt.Sprintf("Detected systems: %s", strings.Join(systems, ", "))
	case health == HealthOK:
		return "No classification signals in the workflow name"
	default:
		return "No classification signals and at least one risk flag"
	}
}
