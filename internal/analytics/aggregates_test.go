package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lavapop_analytics/internal/sales"
)

func baseDeTeste(t *testing.T) *CustomerMetrics {
	t.Helper()
	recs := []sales.SaleRecord{
		// VIP saudável, gasto alto
		vendaEm("00000000001", dia(2025, 5, 10), 300, "Lavadora 1"),
		vendaEm("00000000001", dia(2025, 6, 10), 300, "Lavadora 1"),
		// Frequente saudável
		vendaEm("00000000002", dia(2025, 5, 20), 100, "Lavadora 1"),
		vendaEm("00000000002", dia(2025, 6, 12), 100, "Lavadora 1"),
		// At Risk com gasto médio (última ~75 dias)
		vendaEm("00000000003", dia(2025, 2, 1), 150, "Lavadora 1"),
		vendaEm("00000000003", dia(2025, 4, 4), 150, "Lavadora 1"),
		// Churning com gasto alto (última ~120 dias)
		vendaEm("00000000004", dia(2025, 1, 1), 400, "Lavadora 1"),
		vendaEm("00000000004", dia(2025, 2, 18), 400, "Lavadora 1"),
		// Lost
		vendaEm("00000000005", dia(2024, 1, 1), 50, "Lavadora 1"),
	}
	rfm := []sales.RFMRow{
		{Doc: "00000000001", Segment: "VIP"},
		{Doc: "00000000002", Segment: "Frequente"},
	}
	return BuildProfiles(recs, rfm, nil, agora, Config{})
}

func TestGetSegmentStats(t *testing.T) {
	stats := baseDeTeste(t).GetSegmentStats()
	assert.NotEmpty(t, stats)

	// Ordenado por contagem decrescente
	for i := 1; i < len(stats); i++ {
		assert.GreaterOrEqual(t, stats[i-1].Count, stats[i].Count)
	}
	// Lost fica fora da base ativa
	var somaPercent float64
	var somaCount int
	for _, s := range stats {
		somaPercent += s.Percent
		somaCount += s.Count
	}
	assert.Equal(t, 4, somaCount)
	assert.InDelta(t, 100, somaPercent, 0.1)

	porSegmento := make(map[string]SegmentStat)
	for _, s := range stats {
		porSegmento[s.Segment] = s
	}
	assert.Equal(t, 600.0, porSegmento["VIP"].TotalSpend)
	assert.Equal(t, 600.0, porSegmento["VIP"].AvgSpend)
}

func TestGetTopAtRiskCustomers(t *testing.T) {
	m := baseDeTeste(t)
	top := m.GetTopAtRiskCustomers(10)
	// Só At Risk e Churning, por gasto decrescente
	assert.Len(t, top, 2)
	assert.Equal(t, "00000000004", top[0].Doc) // 800 de gasto
	assert.Equal(t, "00000000003", top[1].Doc) // 300 de gasto

	limitado := m.GetTopAtRiskCustomers(1)
	assert.Len(t, limitado, 1)
	assert.Equal(t, "00000000004", limitado[0].Doc)
}

func TestGetRFMCoordinates(t *testing.T) {
	m := baseDeTeste(t)
	pontos := m.GetRFMCoordinates()
	assert.Len(t, pontos, m.TotalCustomers)
	for _, pt := range pontos {
		assert.GreaterOrEqual(t, pt.X, 0)
		assert.Greater(t, pt.Y, 0.0)
		assert.Greater(t, pt.R, 0)
		assert.NotEmpty(t, pt.Status)
	}
}

func TestGetChurnHistogramData(t *testing.T) {
	m := baseDeTeste(t)
	buckets := m.GetChurnHistogramData()
	assert.NotEmpty(t, buckets)

	// Zonas pelas faixas
	for _, b := range buckets {
		switch {
		case b.From < 30:
			assert.Equal(t, ZoneSafe, b.Zone)
		case b.From < 60:
			assert.Equal(t, ZoneWarning, b.Zone)
		default:
			assert.Equal(t, ZoneDanger, b.Zone)
		}
	}

	// Cliente Lost tem uma visita só: fora do histograma
	total := 0
	for _, b := range buckets {
		total += b.Count
		assert.Len(t, b.Customers, b.Count)
	}
	assert.Equal(t, 4, total)

	// Doc 1: intervalo de 31 dias -> bucket [30,40) na zona Warning
	for _, b := range buckets {
		if b.From == 30 {
			assert.Contains(t, b.Customers, "00000000001")
		}
	}
}

func TestGetRetentionCohorts(t *testing.T) {
	m := baseDeTeste(t)
	c := m.GetRetentionCohorts()
	// 4 de 5 clientes retornaram: doc2 em 23 dias, doc1 em 31, doc4 em 48,
	// doc3 em 62
	assert.InDelta(t, 0.2, c.Rate30, 0.01)
	assert.InDelta(t, 0.6, c.Rate60, 0.01)
	assert.InDelta(t, 0.8, c.Rate90, 0.01)
	// Monotônico por construção
	assert.LessOrEqual(t, c.Rate30, c.Rate60)
	assert.LessOrEqual(t, c.Rate60, c.Rate90)
}

func TestGetAcquisitionTrend(t *testing.T) {
	recs := []sales.SaleRecord{
		vendaEm("00000000001", dia(2025, 6, 16), 20, "Lavadora 1"),
		vendaEm("00000000002", dia(2025, 6, 16), 20, "Lavadora 1"),
		vendaEm("00000000003", dia(2025, 6, 1), 20, "Lavadora 1"),
		// Primeira visita antiga: fora da janela de 30 dias
		vendaEm("00000000004", dia(2025, 1, 1), 20, "Lavadora 1"),
	}
	m := BuildProfiles(recs, nil, nil, agora, Config{})
	trend := m.GetAcquisitionTrend(30)

	assert.Len(t, trend, 2)
	// Ordenada ascendente por data
	assert.Equal(t, "2025-06-01", trend[0].Date)
	assert.Equal(t, "2025-06-16", trend[1].Date)
	assert.Equal(t, 2, trend[1].Count)
	assert.ElementsMatch(t, []string{"00000000001", "00000000002"}, trend[1].Customers)
}
