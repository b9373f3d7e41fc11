package utils

import (
	"strings"
)

var (
	cpfFirstWeights  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfSecondWeights = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
)

// onlyDigits elimina todo lo que no sea dígito
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF valida el documento brasileño (con o sin formato).
// Rechaza largo distinto de 11 y secuencias repetidas como 111.111.111-11.
func ValidateCPF(cpf string) bool {
	digits := onlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return false
	}

	return cpfCheckDigit(digits, cpfFirstWeights) == int(digits[9]-'0') &&
		cpfCheckDigit(digits, cpfSecondWeights) == int(digits[10]-'0')
}

func cpfCheckDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	digit := (sum * 10) % 11
	if digit == 10 || digit == 11 {
		return 0
	}
	return digit
}

// FormatCPF renderiza XXX.XXX.XXX-XX; se asume que ya pasó ValidateCPF
func FormatCPF(cpf string) string {
	d := onlyDigits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}
