// Package phone - normalização e validação de celular brasileiro para envio
// de mensagem (WhatsApp). Forma canônica: +55 + DDD (2 dígitos, primeiro
// 1–9) + 9 + 8 dígitos. Falha de validação é valor de retorno, nunca panic.
package phone

import (
	"fmt"
	"strings"
)

// ErrorKind classifica a falha de validação.
type ErrorKind string

const (
	ErrMissing         ErrorKind = "missing"
	ErrTooShort        ErrorKind = "too_short"
	ErrTooLong         ErrorKind = "too_long"
	ErrInvalidAreaCode ErrorKind = "invalid_area_code"
)

// Mensagens exibidas no dashboard e no export de audiência.
var errorMessages = map[ErrorKind]string{
	ErrMissing:         "Telefone não informado",
	ErrTooShort:        "Número muito curto",
	ErrTooLong:         "Número muito longo",
	ErrInvalidAreaCode: "DDD inválido",
}

// ValidationError descreve por que um telefone foi rejeitado.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func newError(kind ErrorKind) *ValidationError {
	return &ValidationError{Kind: kind, Message: errorMessages[kind]}
}

// digits remove o prefixo "whatsapp:" e tudo que não for dígito.
func digits(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "whatsapp:")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validDDD exige DDD de 2 dígitos não começando em 0.
func validDDD(ddd string) bool {
	return len(ddd) == 2 && ddd[0] >= '1' && ddd[0] <= '9'
}

// Validate canonicaliza no modo leniente e retorna o número em forma
// canônica ("+55DD9XXXXXXXX") ou o erro de validação.
func Validate(s string) (string, *ValidationError) {
	return validate(s, false)
}

// ValidateStrict rejeita qualquer entrada sem o nono dígito (formas legadas
// de 10 e 12 dígitos), além das regras do modo leniente.
func ValidateStrict(s string) (string, *ValidationError) {
	return validate(s, true)
}

func validate(s string, strict bool) (string, *ValidationError) {
	d := digits(s)
	if d == "" {
		return "", newError(ErrMissing)
	}
	if len(d) < 10 {
		return "", newError(ErrTooShort)
	}
	if len(d) > 13 {
		return "", newError(ErrTooLong)
	}

	switch len(d) {
	case 13:
		// 55 + DDD + 9XXXXXXXX
		if !strings.HasPrefix(d, "55") {
			return "", newError(ErrTooLong)
		}
		ddd, rest := d[2:4], d[4:]
		if !validDDD(ddd) {
			return "", newError(ErrInvalidAreaCode)
		}
		if rest[0] != '9' {
			// Formato de fixo: falta o nono dígito
			return "", newError(ErrTooShort)
		}
		return "+" + d, nil

	case 12:
		// 55 + DDD + XXXXXXXX (sem o 9)
		if !strings.HasPrefix(d, "55") {
			return "", newError(ErrTooLong)
		}
		ddd, rest := d[2:4], d[4:]
		if !validDDD(ddd) {
			return "", newError(ErrInvalidAreaCode)
		}
		if strict {
			return "", newError(ErrTooShort)
		}
		return "+55" + ddd + "9" + rest, nil

	case 11:
		// DDD + 9XXXXXXXX nacional
		ddd, rest := d[0:2], d[2:]
		if !validDDD(ddd) {
			return "", newError(ErrInvalidAreaCode)
		}
		if rest[0] != '9' {
			return "", newError(ErrTooShort)
		}
		return "+55" + d, nil

	default:
		// 10 dígitos: DDD + 8 dígitos legado, sem o 9
		ddd, rest := d[0:2], d[2:]
		if !validDDD(ddd) {
			return "", newError(ErrInvalidAreaCode)
		}
		if strict {
			return "", newError(ErrTooShort)
		}
		return "+55" + ddd + "9" + rest, nil
	}
}

// Normalize retorna a forma canônica no modo leniente, ou "" se inválido.
func Normalize(s string) string {
	out, err := Validate(s)
	if err != nil {
		return ""
	}
	return out
}

// NormalizeStrict retorna a forma canônica no modo estrito, ou "" se inválido.
func NormalizeStrict(s string) string {
	out, err := ValidateStrict(s)
	if err != nil {
		return ""
	}
	return out
}

// IsValid informa se o telefone é válido no modo leniente.
func IsValid(s string) bool {
	_, err := Validate(s)
	return err == nil
}

// FormatDisplay formata para exibição: "+55 DD NNNNN-NNNN" quando tem código
// do país, "DD NNNNN-NNNN" quando nacional. Comprimentos não reconhecidos
// passam inalterados.
func FormatDisplay(s string) string {
	d := digits(s)
	switch {
	case len(d) == 13 && strings.HasPrefix(d, "55"):
		return fmt.Sprintf("+55 %s %s-%s", d[2:4], d[4:9], d[9:])
	case len(d) == 11:
		return fmt.Sprintf("%s %s-%s", d[0:2], d[2:7], d[7:])
	default:
		return s
	}
}
