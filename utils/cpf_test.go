package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCPF(t *testing.T) {
	valid := []string{"52998224725", "529.982.247-25", "12345678909", "123.456.789-09"}
	for _, cpf := range valid {
		assert.True(t, ValidateCPF(cpf), cpf)
	}

	invalid := []string{
		"",
		"1234567890",   // 10 dígitos
		"123456789012", // 12 dígitos
		"11111111111",
		"000.000.000-00",
		"52998224724", // segundo dígito incorrecto
		"52998224715", // primer dígito incorrecto
		"abc.def.ghi-jk",
	}
	for _, cpf := range invalid {
		assert.False(t, ValidateCPF(cpf), cpf)
	}
}

func TestFormatCPF(t *testing.T) {
	for _, cpf := range []string{"52998224725", "529.982.247-25", "529 982 247 25"} {
		assert.Regexp(t, `^\d{3}\.\d{3}\.\d{3}-\d{2}$`, FormatCPF(cpf))
		assert.Equal(t, "529.982.247-25", FormatCPF(cpf))
	}
}
