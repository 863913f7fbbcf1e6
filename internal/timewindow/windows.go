// Package timewindow - janelas temporais nomeadas do dashboard, calculadas
// a partir de um "now" injetado (nunca do relógio ambiente). Calendário
// civil UTC-3 fixo; a semana de negócio vai de domingo a sábado.
package timewindow

import (
	"fmt"
	"time"

	"lavapop_analytics/internal/locale"
)

// DateWindow é um intervalo civil fechado [Start, End].
type DateWindow struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DaysElapsed int       `json:"daysElapsed"` // dias corridos, 1-indexed
	IsPartial   bool      `json:"isPartial"`
	DayOfWeek   int       `json:"dayOfWeek"` // 0 = domingo
	Label       string    `json:"label"`     // "DD/MM – DD/MM" para o relatório
}

// Contains informa se t pertence à janela. Datas sentinela (parse inválido)
// nunca pertencem a janela alguma.
func (w DateWindow) Contains(t time.Time) bool {
	if locale.IsSentinel(t) {
		return false
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days retorna a quantidade de dias civis cobertos pela janela.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// WindowSet agrupa todas as janelas nomeadas derivadas de um mesmo "now".
type WindowSet struct {
	Now          time.Time  `json:"now"`
	CurrentWeek  DateWindow `json:"currentWeek"`
	LastWeek     DateWindow `json:"lastWeek"`
	TwoWeeksAgo  DateWindow `json:"twoWeeksAgo"`
	FourWeek     DateWindow `json:"fourWeek"`
	MonthToDate  DateWindow `json:"monthToDate"`
	MonthName    string     `json:"monthName"`
	PriorYearMTD DateWindow `json:"priorYearMtd"` // mesmo mês do ano anterior, mesmos dias corridos
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Resolve calcula as janelas nomeadas relativas a now.
func Resolve(now time.Time) *WindowSet {
	now = now.In(locale.TimeZone)
	today := midnight(now)

	// Domingo da semana corrente
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	daysElapsed := int(today.Sub(weekStart).Hours()/24) + 1

	current := DateWindow{
		Start:       weekStart,
		End:         now,
		DaysElapsed: daysElapsed,
		IsPartial:   !(now.Weekday() == time.Saturday && now.Hour() == 23 && now.Minute() >= 59),
		DayOfWeek:   int(now.Weekday()),
	}
	current.Label = rangeLabel(current.Start, endOfDay(weekStart.AddDate(0, 0, 6)))

	lastWeek := completeWeek(weekStart.AddDate(0, 0, -7))
	twoWeeksAgo := completeWeek(weekStart.AddDate(0, 0, -14))

	fourWeek := DateWindow{
		Start:       weekStart.AddDate(0, 0, -28),
		End:         lastWeek.End,
		DaysElapsed: 28,
		IsPartial:   false,
		DayOfWeek:   int(time.Saturday),
	}
	fourWeek.Label = rangeLabel(fourWeek.Start, fourWeek.End)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, locale.TimeZone)
	mtd := DateWindow{
		Start:       monthStart,
		End:         now,
		DaysElapsed: now.Day(),
		IsPartial:   true,
		DayOfWeek:   int(now.Weekday()),
	}
	mtd.Label = rangeLabel(mtd.Start, today)

	// Mesmo mês do ano anterior, limitado aos mesmos dias corridos,
	// para comparação ano-a-ano honesta em mês parcial.
	pyStart := time.Date(now.Year()-1, now.Month(), 1, 0, 0, 0, 0, locale.TimeZone)
	pyEnd := endOfDay(pyStart.AddDate(0, 0, now.Day()-1))
	priorYear := DateWindow{
		Start:       pyStart,
		End:         pyEnd,
		DaysElapsed: now.Day(),
		IsPartial:   false,
		DayOfWeek:   int(pyEnd.Weekday()),
		Label:       rangeLabel(pyStart, pyEnd),
	}

	return &WindowSet{
		Now:          now,
		CurrentWeek:  current,
		LastWeek:     lastWeek,
		TwoWeeksAgo:  twoWeeksAgo,
		FourWeek:     fourWeek,
		MonthToDate:  mtd,
		MonthName:    monthNames[int(now.Month())-1],
		PriorYearMTD: priorYear,
	}
}

// completeWeek monta a semana completa domingo–sábado que começa em start.
func completeWeek(start time.Time) DateWindow {
	end := endOfDay(start.AddDate(0, 0, 6))
	return DateWindow{
		Start:       start,
		End:         end,
		DaysElapsed: 7,
		IsPartial:   false,
		DayOfWeek:   int(time.Saturday),
		Label:       rangeLabel(start, end),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, locale.TimeZone)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, locale.TimeZone)
}

func rangeLabel(a, b time.Time) string {
	return fmt.Sprintf("%02d/%02d – %02d/%02d", a.Day(), int(a.Month()), b.Day(), int(b.Month()))
}

// Confiança da projeção da semana parcial, por dias decorridos.
const (
	ConfidenceVeryLow = "very_low"
	ConfidenceLow     = "low"
	ConfidenceMedium  = "medium"
	ConfidenceHigh    = "high"
)

// ProjectionConfidence classifica a confiança da projeção semanal.
func ProjectionConfidence(daysElapsed int) string {
	switch {
	case daysElapsed <= 1:
		return ConfidenceVeryLow
	case daysElapsed <= 3:
		return ConfidenceLow
	case daysElapsed <= 6:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// Tendência do ritmo diário da semana parcial vs. a semana completa anterior.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Trend compara ritmos diários: ±5% define up/down, senão stable.
// Ritmo anterior zero sem ritmo atual é estável; com ritmo atual é up.
func Trend(currentDaily, priorDaily float64) string {
	if priorDaily == 0 {
		if currentDaily > 0 {
			return TrendUp
		}
		return TrendStable
	}
	delta := (currentDaily - priorDaily) / priorDaily
	switch {
	case delta >= 0.05:
		return TrendUp
	case delta <= -0.05:
		return TrendDown
	default:
		return TrendStable
	}
}
