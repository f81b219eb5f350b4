package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizer_TextKeepsPlainText(t *testing.T) {
	s := NewSanitizer()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "dor nas costas", "dor nas costas"},
		{"trim", "  olá  ", "olá"},
		{"ampersand", "fisio & pilates", "fisio & pilates"},
		{"less than", "pressão 12 < 14", "pressão 12 < 14"},
		{"quotes", `ele disse "volte amanhã"`, `ele disse "volte amanhã"`},
		{"heart", "obrigada <3", "obrigada <3"},
		{"newlines", "linha 1\r\nlinha 2", "linha 1\nlinha 2"},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Text(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSanitizer_TextRejectsMarkup(t *testing.T) {
	s := NewSanitizer()

	inputs := []string{
		"<script>alert(1)</script>oi",
		"<b>bom</b> dia",
		"<img src=x onerror=alert(1)>",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&lt;img src=x onerror=alert(1)&gt;",
		// "<y e y>" é uma tag para o parser HTML; recusar evita cortar o texto.
		"se x<y e y>z entao",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := s.Text(in)
			assert.ErrorIs(t, err, ErrMarkup)
			assert.Empty(t, got)
		})
	}
}
