package nfe

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"nfextract/internal/domain"
)

var mathTolerance = decimal.RequireFromString("0.01")

// mathValidator checks arithmetic relationships between fields.
type mathValidator struct {
	ruleKey  string
	ruleName string
	severity domain.ValidationSeverity
	validate func(*domain.FiscalDocument) []ValidationResult
}

func (v *mathValidator) RuleKey() string                     { return v.ruleKey }
func (v *mathValidator) RuleName() string                    { return v.ruleName }
func (v *mathValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleSumCheck }
func (v *mathValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *mathValidator) Validate(_ context.Context, data *domain.FiscalDocument) []ValidationResult {
	return v.validate(data)
}

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(mathTolerance)
}

func mathResult(passed bool, fieldPath string, expected, actual decimal.Decimal, ruleName string) ValidationResult {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)", ruleName, fieldPath, expected.StringFixed(2), actual.StringFixed(2))
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected.StringFixed(2), ActualValue: actual.StringFixed(2), Message: msg,
	}
}

func skipped(fieldPath, ruleName, reason string) ValidationResult {
	return ValidationResult{
		Passed: true, FieldPath: fieldPath,
		Message: fmt.Sprintf("%s: %s, skipping", ruleName, reason),
	}
}

// expectedVNF applies the document total formula to ICMSTot.
func expectedVNF(t domain.ICMSTotals) decimal.Decimal {
	return t.VProd.Decimal().
		Sub(t.VDesc.Decimal()).
		Sub(t.VICMSDeson.Decimal()).
		Add(domain.SumAmounts(t.VST, t.VFCPST, t.VFrete, t.VSeg, t.VOutro, t.VII, t.VIPI, t.VIPIDevol))
}

// MathValidators returns all arithmetic validators.
func MathValidators() []*mathValidator {
	return []*mathValidator{
		{
			ruleKey: "math.det.vProd", ruleName: "Math: Item Gross Value",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				const name = "Math: Item Gross Value"
				return perItem(d, "prod.vProd", func(fp string, it *domain.LineItem) ValidationResult {
					if it.Prod.QCom == "" || it.Prod.VUnCom == "" {
						return skipped(fp, name, "quantity or unit price missing")
					}
					expected := it.Prod.QCom.Decimal().Mul(it.Prod.VUnCom.Decimal())
					actual := it.Prod.VProd.Decimal()
					return mathResult(approxEqual(expected, actual), fp, expected, actual, name)
				})
			},
		},
		{
			ruleKey: "math.total.vProd", ruleName: "Math: Products Total",
			severity: domain.ValidationSeverityError,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				const name, fp = "Math: Products Total", "total.ICMSTot.vProd"
				if len(d.Det) == 0 || d.Total.ICMSTot.VProd == "" {
					return []ValidationResult{skipped(fp, name, "no items or no products total")}
				}
				expected := decimal.Zero
				for i := range d.Det {
					expected = expected.Add(d.Det[i].Prod.VProd.Decimal())
				}
				actual := d.Total.ICMSTot.VProd.Decimal()
				return []ValidationResult{mathResult(approxEqual(expected, actual), fp, expected, actual, name)}
			},
		},
		{
			ruleKey: "math.total.vICMS", ruleName: "Math: ICMS Total",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				const name, fp = "Math: ICMS Total", "total.ICMSTot.vICMS"
				if len(d.Det) == 0 || d.Total.ICMSTot.VICMS == "" {
					return []ValidationResult{skipped(fp, name, "no items or no ICMS total")}
				}
				expected := decimal.Zero
				for i := range d.Det {
					expected = expected.Add(d.Det[i].Imposto.ICMS.VICMS.Decimal())
				}
				actual := d.Total.ICMSTot.VICMS.Decimal()
				return []ValidationResult{mathResult(approxEqual(expected, actual), fp, expected, actual, name)}
			},
		},
		{
			ruleKey: "math.total.vNF", ruleName: "Math: Document Total",
			severity: domain.ValidationSeverityError,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				const name, fp = "Math: Document Total", "total.ICMSTot.vNF"
				t := d.Total.ICMSTot
				if t.VProd == "" || t.VNF == "" {
					return []ValidationResult{skipped(fp, name, "products total or document total missing")}
				}
				expected := expectedVNF(t)
				actual := t.VNF.Decimal()
				return []ValidationResult{mathResult(approxEqual(expected, actual), fp, expected, actual, name)}
			},
		},
		{
			ruleKey: "math.cobr.dup", ruleName: "Math: Installments Total",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				const name, fp = "Math: Installments Total", "cobr.fat.vLiq"
				if len(d.Cobr.Dup) == 0 || d.Cobr.Fat.VLiq == "" {
					return []ValidationResult{skipped(fp, name, "no installments or no net invoice value")}
				}
				expected := decimal.Zero
				for i := range d.Cobr.Dup {
					expected = expected.Add(d.Cobr.Dup[i].VDup.Decimal())
				}
				actual := d.Cobr.Fat.VLiq.Decimal()
				return []ValidationResult{mathResult(approxEqual(expected, actual), fp, expected, actual, name)}
			},
		},
	}
}
