// Package document validates Brazilian tax identifiers (CPF and CNPJ).
// A normalized document doubles as a PIX addressing key, so validation and
// normalization must agree everywhere a document enters the system.
package document

import "strings"

// Normalize strips every non-digit rune, leaving the canonical
// digits-only form stored and matched against PIX keys.
func Normalize(doc string) string {
	var b strings.Builder
	b.Grow(len(doc))
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether doc is a valid CPF (11 digits) or CNPJ
// (14 digits) after normalization.
func IsValid(doc string) bool {
	digits := Normalize(doc)
	switch len(digits) {
	case 11:
		return validCPF(digits)
	case 14:
		return validCNPJ(digits)
	default:
		return false
	}
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func validCPF(cpf string) bool {
	if allSame(cpf) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cpf[i]-'0') * (n + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		if check != int(cpf[n]-'0') {
			return false
		}
	}
	return true
}

func validCNPJ(cnpj string) bool {
	if allSame(cnpj) {
		return false
	}
	for _, n := range []int{12, 13} {
		sum := 0
		pos := n - 7
		for i := 0; i < n; i++ {
			sum += int(cnpj[i]-'0') * pos
			pos--
			if pos < 2 {
				pos = 9
			}
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != int(cnpj[n]-'0') {
			return false
		}
	}
	return true
}
