// Package accesskey validates and decomposes the 44-digit access key
// (chave de acesso) shared by NFe, CFe and CTe.
package accesskey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Length is the number of digits in an access key.
const Length = 44

var digitsOnly = regexp.MustCompile(`^\d+$`)

var (
	ErrLength     = errors.New("access key must have 44 digits")
	ErrNonNumeric = errors.New("access key must be numeric")
	ErrCheckDigit = errors.New("access key check digit mismatch")
)

// Key is a decomposed access key. Field names follow the key layout
// (cUF, AAMM, CNPJ, mod, serie, nNF, tpEmis, cNF, cDV).
type Key struct {
	Raw         string `json:"raw"`
	UF          string `json:"cUF"`
	YearMonth   string `json:"AAMM"`
	IssuerTaxID string `json:"CNPJ"`
	Model       string `json:"mod"`
	Series      string `json:"serie"`
	Number      string `json:"nNF"`
	EmissionTp  string `json:"tpEmis"`
	Code        string `json:"cNF"`
	CheckDigit  string `json:"cDV"`
}

// Validate checks length, digits and the modulo-11 check digit.
func Validate(key string) error {
	if len(key) != Length {
		return fmt.Errorf("%w: got %d", ErrLength, len(key))
	}
	if !digitsOnly.MatchString(key) {
		return ErrNonNumeric
	}
	want := CheckDigit(key[:Length-1])
	if strconv.Itoa(want) != key[Length-1:] {
		return fmt.Errorf("%w: expected %d", ErrCheckDigit, want)
	}
	return nil
}

// Parse validates key and splits it into its fields. CFe keys use a
// different split after the model (SAT serial, receipt number), which is
// reflected in Series and Number.
func Parse(key string) (*Key, error) {
	if err := Validate(key); err != nil {
		return nil, err
	}
	k := &Key{
		Raw:         key,
		UF:          key[0:2],
		YearMonth:   key[2:6],
		IssuerTaxID: key[6:20],
		Model:       key[20:22],
		CheckDigit:  key[43:44],
	}
	if k.Model == "59" {
		k.Series = key[22:31]
		k.Number = key[31:37]
		k.Code = key[37:43]
		return k, nil
	}
	k.Series = key[22:25]
	k.Number = key[25:34]
	k.EmissionTp = key[34:35]
	k.Code = key[35:43]
	return k, nil
}

// CheckDigit computes the modulo-11 check digit over the first 43 digits,
// weights 2..9 applied right to left.
func CheckDigit(digits string) int {
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
