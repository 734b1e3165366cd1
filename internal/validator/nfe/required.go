package nfe

import (
	"context"
	"fmt"

	"nfextract/internal/domain"
)

// requiredFieldValidator checks that a required field is not empty.
type requiredFieldValidator struct {
	ruleKey     string
	ruleName    string
	fieldPath   string
	severity    domain.ValidationSeverity
	extract     func(*domain.FiscalDocument) string
	perItem     bool // true for line-item level checks
	extractItem func(*domain.LineItem) string
}

func (v *requiredFieldValidator) RuleKey() string  { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string { return v.ruleName }
func (v *requiredFieldValidator) RuleType() domain.ValidationRuleType {
	return domain.ValidationRuleRequired
}
func (v *requiredFieldValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *requiredFieldValidator) Validate(_ context.Context, data *domain.FiscalDocument) []ValidationResult {
	if v.perItem {
		results := make([]ValidationResult, 0, len(data.Det))
		for i := range data.Det {
			val := v.extractItem(&data.Det[i])
			fieldPath := fmt.Sprintf("det[%d].%s", i, v.fieldPath)
			results = append(results, presence(val, fieldPath, v.ruleName))
		}
		return results
	}
	return []ValidationResult{presence(v.extract(data), v.fieldPath, v.ruleName)}
}

func presence(val, fieldPath, ruleName string) ValidationResult {
	passed := val != ""
	msg := fmt.Sprintf("%s: %s is present", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is missing or empty", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed:        passed,
		FieldPath:     fieldPath,
		ExpectedValue: "non-empty value",
		ActualValue:   val,
		Message:       msg,
	}
}

// RequiredFieldValidators returns the presence checks.
func RequiredFieldValidators() []*requiredFieldValidator {
	return []*requiredFieldValidator{
		{
			ruleKey: "req.chave", ruleName: "Required: Access Key", fieldPath: "chave",
			severity: domain.ValidationSeverityError,
			extract:  func(d *domain.FiscalDocument) string { return d.Chave },
		},
		{
			ruleKey: "req.ide.nNF", ruleName: "Required: Document Number", fieldPath: "ide.nNF",
			severity: domain.ValidationSeverityError,
			extract:  func(d *domain.FiscalDocument) string { return d.Ide.NNF },
		},
		{
			ruleKey: "req.ide.dhEmi", ruleName: "Required: Issue Date", fieldPath: "ide.dhEmi",
			severity: domain.ValidationSeverityError,
			extract:  func(d *domain.FiscalDocument) string { return d.Ide.DhEmi },
		},
		{
			ruleKey: "req.emit.xNome", ruleName: "Required: Emitter Name", fieldPath: "emit.xNome",
			severity: domain.ValidationSeverityError,
			extract:  func(d *domain.FiscalDocument) string { return d.Emit.XNome },
		},
		{
			ruleKey: "req.emit.CNPJ", ruleName: "Required: Emitter Tax ID", fieldPath: "emit.CNPJ",
			severity: domain.ValidationSeverityError,
			extract:  func(d *domain.FiscalDocument) string { return d.Emit.CNPJ },
		},
		{
			ruleKey: "req.total.vNF", ruleName: "Required: Document Total", fieldPath: "total.ICMSTot.vNF",
			severity: domain.ValidationSeverityError,
			extract:  func(d *domain.FiscalDocument) string { return d.Total.ICMSTot.VNF.String() },
		},
		{
			ruleKey: "req.det.xProd", ruleName: "Required: Item Description", fieldPath: "prod.xProd",
			severity: domain.ValidationSeverityWarning, perItem: true,
			extractItem: func(it *domain.LineItem) string { return it.Prod.XProd },
		},
		{
			ruleKey: "req.det.CFOP", ruleName: "Required: Item CFOP", fieldPath: "prod.CFOP",
			severity: domain.ValidationSeverityWarning, perItem: true,
			extractItem: func(it *domain.LineItem) string { return it.Prod.CFOP },
		},
	}
}
