package tools

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone normaliza um telefone para a forma canônica "+<ddi><numero>".
//
// Heurística:
// - remove tudo que não é dígito, preservando um '+' inicial
// - com '+' na frente, mantém como está
// - 10 dígitos sem '+': assume número doméstico e prefixa o DDI default
// - 11 dígitos começando com o DDI default: promove para "+<digitos>"
// - qualquer outro formato: prefixa '+' como best-effort
func NormalizePhone(raw string, defaultCountryCode string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}
	if defaultCountryCode == "" {
		defaultCountryCode = "1"
	}

	hasPlus := strings.HasPrefix(raw, "+")

	// mantém apenas dígitos
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("phone has no digits")
	}

	if hasPlus {
		return "+" + digits, nil
	}

	if len(digits) == 10 {
		return "+" + defaultCountryCode + digits, nil
	}
	if len(digits) == len(defaultCountryCode)+10 && strings.HasPrefix(digits, defaultCountryCode) {
		return "+" + digits, nil
	}

	// best-effort: assume que já veio em formato internacional
	return "+" + digits, nil
}

// Fingerprint devolve o digest SHA-256 (hex) do número canônico.
// Determinístico e sem salt: o mesmo número sempre produz o mesmo hash,
// que é o que permite o matching de contatos entre dispositivos.
func Fingerprint(canonicalPhone string) string {
	sum := sha256.Sum256([]byte(canonicalPhone))
	return hex.EncodeToString(sum[:])
}
