package accesskey

// ValidCNPJ reports whether a 14-digit CNPJ has valid check digits.
func ValidCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || !digitsOnly.MatchString(cnpj) || repeated(cnpj) {
		return false
	}
	w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return cnpjDigit(cnpj[:12], w1) == int(cnpj[12]-'0') &&
		cnpjDigit(cnpj[:13], w2) == int(cnpj[13]-'0')
}

func cnpjDigit(digits string, weights []int) int {
	sum := 0
	for i := range digits {
		sum += int(digits[i]-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// ValidCPF reports whether an 11-digit CPF has valid check digits.
func ValidCPF(cpf string) bool {
	if len(cpf) != 11 || !digitsOnly.MatchString(cpf) || repeated(cpf) {
		return false
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cpf[i]-'0') * (n + 1 - i)
		}
		if (sum*10)%11%10 != int(cpf[n]-'0') {
			return false
		}
	}
	return true
}

// ValidTaxID accepts either a CNPJ or a CPF.
func ValidTaxID(id string) bool {
	switch len(id) {
	case 14:
		return ValidCNPJ(id)
	case 11:
		return ValidCPF(id)
	default:
		return false
	}
}

// repeated rejects sequences like 00000000000 that pass the arithmetic.
func repeated(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
