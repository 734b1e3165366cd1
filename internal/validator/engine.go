package validator

import (
	"context"

	"go.uber.org/zap"

	"nfextract/internal/domain"
)

// ResultEntry is one rule outcome, carrying the rule metadata alongside it.
type ResultEntry struct {
	RuleKey       string                    `json:"rule_key"`
	RuleName      string                    `json:"rule_name"`
	RuleType      domain.ValidationRuleType `json:"rule_type"`
	Severity      domain.ValidationSeverity `json:"severity"`
	Passed        bool                      `json:"passed"`
	FieldPath     string                    `json:"field_path"`
	ExpectedValue string                    `json:"expected_value"`
	ActualValue   string                    `json:"actual_value"`
	Message       string                    `json:"message"`
}

// Summary holds aggregate counts of validation results.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Report is the validation outcome for one record.
type Report struct {
	Status        domain.ValidationStatus `json:"status"`
	Summary       Summary                 `json:"summary"`
	Results       []ResultEntry           `json:"results"`
	FieldStatuses map[string]*FieldStatus `json:"field_statuses"`
}

// Engine runs every registered rule against a record.
type Engine struct {
	registry *Registry
	log      *zap.Logger
}

// NewEngine creates a new validation engine. A nil logger disables logging.
func NewEngine(registry *Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{registry: registry, log: log}
}

// Validate applies all rules in rule-key order. The record is not modified.
func (e *Engine) Validate(ctx context.Context, doc *domain.FiscalDocument) *Report {
	report := &Report{Results: []ResultEntry{}}
	hasError, hasWarning := false, false

	for _, v := range e.registry.All() {
		if ctx.Err() != nil {
			break
		}
		for _, vr := range v.Validate(ctx, doc) {
			entry := ResultEntry{
				RuleKey:       v.RuleKey(),
				RuleName:      v.RuleName(),
				RuleType:      v.RuleType(),
				Severity:      v.Severity(),
				Passed:        vr.Passed,
				FieldPath:     vr.FieldPath,
				ExpectedValue: vr.ExpectedValue,
				ActualValue:   vr.ActualValue,
				Message:       vr.Message,
			}
			report.Results = append(report.Results, entry)

			report.Summary.Total++
			switch {
			case vr.Passed:
				report.Summary.Passed++
			case v.Severity() == domain.ValidationSeverityError:
				report.Summary.Errors++
				hasError = true
			default:
				report.Summary.Warnings++
				hasWarning = true
			}
		}
	}

	switch {
	case hasError:
		report.Status = domain.ValidationStatusInvalid
	case hasWarning:
		report.Status = domain.ValidationStatusWarning
	default:
		report.Status = domain.ValidationStatusValid
	}
	report.FieldStatuses = ComputeFieldStatuses(report.Results)

	e.log.Debug("record validated",
		zap.String("access_key", doc.Chave),
		zap.String("status", string(report.Status)),
		zap.Int("results", report.Summary.Total),
	)
	return report
}

// Failures returns the failed entries of a report.
func (r *Report) Failures() []ResultEntry {
	out := make([]ResultEntry, 0)
	for _, e := range r.Results {
		if !e.Passed {
			out = append(out, e)
		}
	}
	return out
}
