package validator

import (
	"context"

	"nfextract/internal/domain"
	"nfextract/internal/validator/nfe"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, data *domain.FiscalDocument) []nfe.ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
}
