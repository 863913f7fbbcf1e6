package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lavapop_analytics/internal/locale"
)

// Quarta-feira, 18/06/2025 15:00 em UTC-3
func refNow() time.Time {
	return time.Date(2025, 6, 18, 15, 0, 0, 0, locale.TimeZone)
}

func TestResolve_SemanaComecaNoDomingo(t *testing.T) {
	ws := Resolve(refNow())
	for nome, w := range map[string]DateWindow{
		"currentWeek": ws.CurrentWeek,
		"lastWeek":    ws.LastWeek,
		"twoWeeksAgo": ws.TwoWeeksAgo,
		"fourWeek":    ws.FourWeek,
	} {
		assert.Equal(t, time.Sunday, w.Start.Weekday(), "janela %s", nome)
		assert.Equal(t, 0, w.Start.Hour(), "janela %s", nome)
	}
}

func TestResolve_SemanaCorrente(t *testing.T) {
	ws := Resolve(refNow())
	// 18/06/2025 é quarta; domingo da semana = 15/06
	assert.Equal(t, 15, ws.CurrentWeek.Start.Day())
	assert.True(t, ws.CurrentWeek.IsPartial)
	// domingo=1, segunda=2, terça=3, quarta=4
	assert.Equal(t, 4, ws.CurrentWeek.DaysElapsed)
}

func TestResolve_SemanasCompletas(t *testing.T) {
	ws := Resolve(refNow())
	assert.Equal(t, 8, ws.LastWeek.Start.Day())   // 08/06
	assert.Equal(t, 14, ws.LastWeek.End.Day())    // sábado 14/06
	assert.False(t, ws.LastWeek.IsPartial)
	assert.Equal(t, 7, ws.LastWeek.Days())

	assert.Equal(t, 1, ws.TwoWeeksAgo.Start.Day()) // 01/06

	// fourWeek: 4 semanas completas terminando no fim da última completa
	assert.Equal(t, 18, ws.FourWeek.Start.Day()) // domingo 18/05
	assert.Equal(t, time.May, ws.FourWeek.Start.Month())
	assert.True(t, ws.FourWeek.End.Equal(ws.LastWeek.End))
	assert.Equal(t, 28, ws.FourWeek.Days())
}

func TestResolve_MonthToDate(t *testing.T) {
	ws := Resolve(refNow())
	assert.Equal(t, 1, ws.MonthToDate.Start.Day())
	assert.Equal(t, 18, ws.MonthToDate.DaysElapsed)
	assert.Equal(t, "junho", ws.MonthName)

	// Ano anterior: mesmo mês, mesmos dias corridos
	assert.Equal(t, 2024, ws.PriorYearMTD.Start.Year())
	assert.Equal(t, time.June, ws.PriorYearMTD.Start.Month())
	assert.Equal(t, 18, ws.PriorYearMTD.End.Day())
}

func TestContains(t *testing.T) {
	ws := Resolve(refNow())
	dentro := time.Date(2025, 6, 10, 12, 0, 0, 0, locale.TimeZone)
	fora := time.Date(2025, 6, 1, 12, 0, 0, 0, locale.TimeZone)
	assert.True(t, ws.LastWeek.Contains(dentro))
	assert.False(t, ws.LastWeek.Contains(fora))

	// Sentinela nunca pertence a janela
	assert.False(t, ws.CurrentWeek.Contains(locale.Sentinel()))
	assert.False(t, ws.MonthToDate.Contains(locale.Sentinel()))
}

func TestContains_LimitesDaSemana(t *testing.T) {
	ws := Resolve(refNow())
	// Domingo 00:00 inclusive, sábado 23:59:59 inclusive
	assert.True(t, ws.LastWeek.Contains(ws.LastWeek.Start))
	assert.True(t, ws.LastWeek.Contains(ws.LastWeek.End))
	assert.False(t, ws.LastWeek.Contains(ws.LastWeek.End.Add(time.Second)))
}

func TestProjectionConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceVeryLow, ProjectionConfidence(1))
	assert.Equal(t, ConfidenceLow, ProjectionConfidence(2))
	assert.Equal(t, ConfidenceLow, ProjectionConfidence(3))
	assert.Equal(t, ConfidenceMedium, ProjectionConfidence(4))
	assert.Equal(t, ConfidenceMedium, ProjectionConfidence(6))
	assert.Equal(t, ConfidenceHigh, ProjectionConfidence(7))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendUp, Trend(110, 100))
	assert.Equal(t, TrendDown, Trend(90, 100))
	assert.Equal(t, TrendStable, Trend(102, 100))
	assert.Equal(t, TrendStable, Trend(0, 0))
	assert.Equal(t, TrendUp, Trend(10, 0))
}

func TestResolve_SabadoFimDeDia(t *testing.T) {
	// Sábado 23:59 -> semana corrente deixa de ser parcial
	sab := time.Date(2025, 6, 21, 23, 59, 30, 0, locale.TimeZone)
	ws := Resolve(sab)
	assert.False(t, ws.CurrentWeek.IsPartial)
	assert.Equal(t, 7, ws.CurrentWeek.DaysElapsed)
}
