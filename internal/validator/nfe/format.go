package nfe

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"nfextract/internal/accesskey"
	"nfextract/internal/domain"
)

var (
	ncmPattern  = regexp.MustCompile(`^\d{8}$`)
	cfopPattern = regexp.MustCompile(`^[1-7]\d{3}$`)
	cepPattern  = regexp.MustCompile(`^\d{8}$`)
)

// Brazilian state codes, plus EX for foreign addresses.
var knownUFs = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true, "EX": true,
}

// formatValidator checks a field against a format rule.
type formatValidator struct {
	ruleKey  string
	ruleName string
	ruleType domain.ValidationRuleType
	severity domain.ValidationSeverity
	validate func(*domain.FiscalDocument) []ValidationResult
}

func (v *formatValidator) RuleKey() string  { return v.ruleKey }
func (v *formatValidator) RuleName() string { return v.ruleName }
func (v *formatValidator) RuleType() domain.ValidationRuleType {
	if v.ruleType == "" {
		return domain.ValidationRuleRegex
	}
	return v.ruleType
}
func (v *formatValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *formatValidator) Validate(_ context.Context, data *domain.FiscalDocument) []ValidationResult {
	return v.validate(data)
}

// check is the shared shape of every format result: empty values pass with
// a skip message, otherwise ok decides.
func check(fieldPath, value, expected, ruleName string, ok func(string) bool) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: expected, ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping format check", ruleName),
		}
	}
	passed := ok(value)
	msg := fmt.Sprintf("%s: %s matches expected format", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s does not match expected format", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: value, Message: msg,
	}
}

func regexCheck(fieldPath, value, expected, ruleName string, re *regexp.Regexp) ValidationResult {
	return check(fieldPath, value, expected, ruleName, re.MatchString)
}

func ufCheck(fieldPath, value, ruleName string) ValidationResult {
	return check(fieldPath, value, "Brazilian state code", ruleName, func(s string) bool { return knownUFs[s] })
}

func dateCheck(fieldPath, value, ruleName string) ValidationResult {
	return check(fieldPath, value, "RFC 3339 or AAAAMMDD date", ruleName, func(s string) bool {
		_, err := parseIssueDate(s)
		return err == nil
	})
}

// parseIssueDate accepts the NFe/CTe timestamp and the SAT compact date.
func parseIssueDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// keyIssuerCheck compares the CNPJ embedded in the access key with
// emit.CNPJ. CPF emitters and unparseable keys are left to other rules.
func keyIssuerCheck(d *domain.FiscalDocument) ValidationResult {
	const name = "Consistency: Access Key Issuer"
	res := ValidationResult{
		Passed: true, FieldPath: "emit.CNPJ",
		ExpectedValue: "issuer CNPJ of the access key", ActualValue: d.Emit.CNPJ,
	}
	key, err := accesskey.Parse(d.Chave)
	if err != nil || len(d.Emit.CNPJ) != 14 {
		res.Message = fmt.Sprintf("%s: key or emitter CNPJ unavailable, skipping", name)
		return res
	}
	res.ExpectedValue = key.IssuerTaxID
	if key.IssuerTaxID != d.Emit.CNPJ {
		res.Passed = false
		res.Message = fmt.Sprintf("%s: access key carries %s but emitter is %s", name, key.IssuerTaxID, d.Emit.CNPJ)
		return res
	}
	res.Message = fmt.Sprintf("%s: emitter matches access key", name)
	return res
}

func perItem(d *domain.FiscalDocument, field string, fn func(fieldPath string, it *domain.LineItem) ValidationResult) []ValidationResult {
	results := make([]ValidationResult, 0, len(d.Det))
	for i := range d.Det {
		results = append(results, fn(fmt.Sprintf("det[%d].%s", i, field), &d.Det[i]))
	}
	return results
}

// FormatValidators returns all format validators.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "fmt.chave", ruleName: "Format: Access Key",
			ruleType: domain.ValidationRuleCheckDigit, severity: domain.ValidationSeverityError,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{check("chave", d.Chave, "44 digits with valid check digit", "Format: Access Key",
					func(s string) bool { return accesskey.Validate(s) == nil })}
			},
		},
		{
			ruleKey: "fmt.chave.emit", ruleName: "Consistency: Access Key Issuer",
			ruleType: domain.ValidationRuleCheckDigit, severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{keyIssuerCheck(d)}
			},
		},
		{
			ruleKey: "fmt.emit.CNPJ", ruleName: "Format: Emitter Tax ID",
			ruleType: domain.ValidationRuleCheckDigit, severity: domain.ValidationSeverityError,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{check("emit.CNPJ", d.Emit.CNPJ, "CNPJ or CPF with valid check digits", "Format: Emitter Tax ID", accesskey.ValidTaxID)}
			},
		},
		{
			ruleKey: "fmt.dest.CNPJ", ruleName: "Format: Receiver Tax ID",
			ruleType: domain.ValidationRuleCheckDigit, severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{check("dest.CNPJ", d.Dest.CNPJ, "CNPJ or CPF with valid check digits", "Format: Receiver Tax ID", accesskey.ValidTaxID)}
			},
		},
		{
			ruleKey: "fmt.emit.UF", ruleName: "Format: Emitter State",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{ufCheck("emit.enderEmit.UF", d.Emit.EnderEmit.UF, "Format: Emitter State")}
			},
		},
		{
			ruleKey: "fmt.dest.UF", ruleName: "Format: Receiver State",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{ufCheck("dest.enderDest.UF", d.Dest.EnderDest.UF, "Format: Receiver State")}
			},
		},
		{
			ruleKey: "fmt.emit.CEP", ruleName: "Format: Emitter CEP",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{regexCheck("emit.enderEmit.CEP", d.Emit.EnderEmit.CEP, "8 digits", "Format: Emitter CEP", cepPattern)}
			},
		},
		{
			ruleKey: "fmt.ide.dhEmi", ruleName: "Format: Issue Date",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return []ValidationResult{dateCheck("ide.dhEmi", d.Ide.DhEmi, "Format: Issue Date")}
			},
		},
		{
			ruleKey: "fmt.det.NCM", ruleName: "Format: Item NCM",
			severity: domain.ValidationSeverityWarning,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return perItem(d, "prod.NCM", func(fp string, it *domain.LineItem) ValidationResult {
					return regexCheck(fp, it.Prod.NCM, "8 digits", "Format: Item NCM", ncmPattern)
				})
			},
		},
		{
			ruleKey: "fmt.det.CFOP", ruleName: "Format: Item CFOP",
			severity: domain.ValidationSeverityError,
			validate: func(d *domain.FiscalDocument) []ValidationResult {
				return perItem(d, "prod.CFOP", func(fp string, it *domain.LineItem) ValidationResult {
					return regexCheck(fp, it.Prod.CFOP, "4 digits starting 1-7", "Format: Item CFOP", cfopPattern)
				})
			},
		},
	}
}
