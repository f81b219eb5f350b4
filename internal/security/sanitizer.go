// Package security valida texto livre vindo dos usuários (mensagens,
// observações de chamados, comentários de avaliação).
package security

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrMarkup indica texto que a política alteraria: tags, inclusive
// escritas como entidades.
var ErrMarkup = errors.New("security: markup not allowed")

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Sanitizer aceita apenas texto puro. É seguro para uso concorrente.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text devolve o texto sem espaços nas pontas e com quebras de linha
// normalizadas, sem nenhuma outra alteração. Se a StrictPolicy mudaria
// o conteúdo, o texto é recusado com ErrMarkup em vez de cortado.
func (s *Sanitizer) Text(in string) (string, error) {
	text := newlines.Replace(strings.TrimSpace(in))
	if text == "" {
		return "", nil
	}

	// Texto puro sai da política apenas escapado.
	if html.UnescapeString(s.policy.Sanitize(text)) != text {
		return "", ErrMarkup
	}
	return text, nil
}
