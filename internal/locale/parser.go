// Package locale - parsing de formatos brasileiros vindos do export do POS:
// datas DD/MM/YYYY, números "1.234,56" e documento (CPF).
// Contrato: nunca retorna erro por dado sujo; entrada inválida degrada para
// sentinela (data em 1970, valor 0, string vazia).
package locale

import (
	"strconv"
	"strings"
	"time"
)

// TimeZone é o calendário civil das lojas (UTC-3 fixo, sem horário de verão).
var TimeZone = time.FixedZone("America/Sao_Paulo", -3*60*60)

// SentinelYear marca data não reconhecida. Janelas temporais ignoram
// registros com esse ano.
const SentinelYear = 1970

// Sentinel retorna a data sentinela para entrada inválida.
func Sentinel() time.Time {
	return time.Date(SentinelYear, 1, 1, 0, 0, 0, 0, TimeZone)
}

// IsSentinel informa se t carrega a data sentinela de parse inválido.
func IsSentinel(t time.Time) bool {
	return t.Year() == SentinelYear
}

// ParseBRDate interpreta "DD/MM/YYYY", "DD-MM-YYYY" ou ISO "YYYY-MM-DD",
// com "HH:mm:ss" opcional (separado por espaço ou 'T'). Ano de 2 dígitos
// vira 20YY. Entrada irreconhecível retorna a sentinela.
func ParseBRDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sentinel()
	}

	datePart := s
	timePart := ""
	if idx := strings.IndexAny(s, " T"); idx > 0 {
		datePart = s[:idx]
		timePart = s[idx+1:]
	}

	var day, month, year int
	switch {
	case strings.Contains(datePart, "/"):
		day, month, year = splitDMY(datePart, "/")
	case strings.Count(datePart, "-") == 2 && len(datePart) >= 8 && datePart[4] == '-':
		// ISO: YYYY-MM-DD
		parts := strings.Split(datePart, "-")
		year = atoi(parts[0])
		month = atoi(parts[1])
		day = atoi(parts[2])
	case strings.Contains(datePart, "-"):
		day, month, year = splitDMY(datePart, "-")
	default:
		return Sentinel()
	}

	if year >= 0 && year < 100 {
		year += 2000
	}
	if year < 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Sentinel()
	}

	hour, min, sec := splitHMS(timePart)
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, TimeZone)
}

// splitDMY separa "DD<sep>MM<sep>YYYY". Retorna zeros se o formato não bater.
func splitDMY(s, sep string) (day, month, year int) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, 0, 0
	}
	return atoi(parts[0]), atoi(parts[1]), atoi(parts[2])
}

// splitHMS separa "HH:mm:ss" (segundos opcionais). Vazio vira meia-noite.
func splitHMS(s string) (hour, min, sec int) {
	if s == "" {
		return 0, 0, 0
	}
	parts := strings.Split(s, ":")
	if len(parts) >= 1 {
		hour = atoi(parts[0])
	}
	if len(parts) >= 2 {
		min = atoi(parts[1])
	}
	if len(parts) >= 3 {
		sec = atoi(parts[2])
	}
	if hour > 23 || min > 59 || sec > 59 {
		return 0, 0, 0
	}
	return hour, min, sec
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}

// ParseBRNumber interpreta moeda/número no formato brasileiro:
// ponto como separador de milhar e vírgula como decimal ("1.234,56").
// Valores com só um tipo de separador são decididos pelo último que aparece
// (mesma regra do importador legado). Entrada inválida retorna 0.
func ParseBRNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234,56 -> 1234.56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56 (export em locale americano)
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// 1,5 -> 1.5
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeDoc normaliza o documento do cliente (CPF) para 11 dígitos:
// remove não-dígitos, pad com zeros à esquerda, trunca pelos últimos 11.
// Entrada sem dígito algum retorna "".
func NormalizeDoc(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) > 11 {
		return digits[len(digits)-11:]
	}
	return strings.Repeat("0", 11-len(digits)) + digits
}

// IsPlaceholderName detecta nomes auto-gerados pelo POS (quando o caixa não
// cadastra o cliente): vazio, "Cliente <n>", só dígitos ou igual ao doc.
func IsPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "cliente ") || lower == "cliente" || lower == "n/d" {
		rest := strings.TrimSpace(strings.TrimPrefix(lower, "cliente"))
		if rest == "" || allDigits(rest) {
			return true
		}
	}
	return allDigits(name)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
