package validators

import "strings"

// OnlyDigits remove pontuação de CPF, CEP e telefone.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF confere os dois dígitos verificadores. Aceita com ou sem
// máscara; sequências repetidas (111.111.111-11) são inválidas.
func IsValidCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return false
	}

	repeated := true
	for i := 1; i < 11; i++ {
		if d[i] != d[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	check := func(n int) byte {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		return byte(rest) + '0'
	}

	return check(9) == d[9] && check(10) == d[10]
}

// FormatCPF devolve o CPF no formato 000.000.000-00.
func FormatCPF(cpf string) string {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

func IsValidCEP(cep string) bool {
	return len(OnlyDigits(cep)) == 8
}

// FormatCEP devolve o CEP no formato 00000-000.
func FormatCEP(cep string) string {
	d := OnlyDigits(cep)
	if len(d) != 8 {
		return cep
	}
	return d[:5] + "-" + d[5:]
}
