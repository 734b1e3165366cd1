package nfe

import (
	"context"

	"nfextract/internal/domain"
)

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	name     string
	ruleType domain.ValidationRuleType
	sev      domain.ValidationSeverity
	fn       func(context.Context, *domain.FiscalDocument) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, data *domain.FiscalDocument) []ValidationResult {
	return b.fn(ctx, data)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleName() string                    { return b.name }
func (b *BuiltinValidator) RuleType() domain.ValidationRuleType { return b.ruleType }
func (b *BuiltinValidator) Severity() domain.ValidationSeverity { return b.sev }

type rule interface {
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
	Validate(context.Context, *domain.FiscalDocument) []ValidationResult
}

func wrap(v rule) *BuiltinValidator {
	return &BuiltinValidator{
		key: v.RuleKey(), name: v.RuleName(),
		ruleType: v.RuleType(), sev: v.Severity(),
		fn: v.Validate,
	}
}

// AllBuiltinValidators returns every built-in rule.
func AllBuiltinValidators() []*BuiltinValidator {
	reqVals := RequiredFieldValidators()
	fmtVals := FormatValidators()
	mathVals := MathValidators()
	all := make([]*BuiltinValidator, 0, len(reqVals)+len(fmtVals)+len(mathVals))

	for _, v := range reqVals {
		all = append(all, wrap(v))
	}
	for _, v := range fmtVals {
		all = append(all, wrap(v))
	}
	for _, v := range mathVals {
		all = append(all, wrap(v))
	}
	return all
}
