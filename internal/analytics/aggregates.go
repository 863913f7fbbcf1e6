// Agregados derivados do snapshot de perfis: estatísticas por segmento,
// top em risco, coordenadas RFM, histograma de churn, coortes de retenção
// e tendência de aquisição.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"lavapop_analytics/internal/locale"
)

// SegmentStat resume um segmento RFM na base ativa.
type SegmentStat struct {
	Segment    string  `json:"segment"`
	Count      int     `json:"count"`
	TotalSpend float64 `json:"totalSpend"`
	AvgSpend   float64 `json:"avgSpend"`
	Percent    float64 `json:"percent"` // % da base ativa
}

const segmentUnclassified = "Sem segmento"

// GetSegmentStats agrega gasto por segmento, ordenado por contagem
// decrescente (desempate por nome para estabilidade).
func (m *CustomerMetrics) GetSegmentStats() []SegmentStat {
	acc := make(map[string]*SegmentStat)
	active := 0
	for _, p := range m.AllCustomers {
		if p.RiskLevel == RiskLost {
			continue
		}
		active++
		seg := p.Segment
		if seg == "" {
			seg = segmentUnclassified
		}
		s := acc[seg]
		if s == nil {
			s = &SegmentStat{Segment: seg}
			acc[seg] = s
		}
		s.Count++
		s.TotalSpend += p.GrossTotal
	}

	out := make([]SegmentStat, 0, len(acc))
	for _, s := range acc {
		s.TotalSpend = round2(s.TotalSpend)
		if s.Count > 0 {
			s.AvgSpend = round2(s.TotalSpend / float64(s.Count))
		}
		if active > 0 {
			s.Percent = round2(float64(s.Count) / float64(active) * 100)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}

// GetTopAtRiskCustomers lista clientes At Risk e Churning por gasto
// decrescente, limitado a limit (<=0 usa o default do config).
func (m *CustomerMetrics) GetTopAtRiskCustomers(limit int) []CustomerProfile {
	if limit <= 0 {
		limit = m.Config.withDefaults().TopAtRiskLimit
	}
	out := make([]CustomerProfile, 0)
	for _, p := range m.AllCustomers {
		if p.RiskLevel == RiskAtRisk || p.RiskLevel == RiskChurning {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GrossTotal != out[j].GrossTotal {
			return out[i].GrossTotal > out[j].GrossTotal
		}
		return out[i].Doc < out[j].Doc
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RFMPoint é um ponto do scatter RFM do dashboard: x recência, y monetário,
// r frequência.
type RFMPoint struct {
	Doc     string  `json:"doc"`
	Name    string  `json:"name,omitempty"`
	X       int     `json:"x"` // dias desde a última visita
	Y       float64 `json:"y"` // gasto total
	R       int     `json:"r"` // visitas
	Status  string  `json:"status"`
	Segment string  `json:"segment,omitempty"`
	Phone   string  `json:"phone,omitempty"`
}

// GetRFMCoordinates projeta cada perfil no espaço RFM.
func (m *CustomerMetrics) GetRFMCoordinates() []RFMPoint {
	out := make([]RFMPoint, 0, len(m.AllCustomers))
	for _, p := range m.AllCustomers {
		out = append(out, RFMPoint{
			Doc:     p.Doc,
			Name:    p.Name,
			X:       p.DaysSinceLastVisit,
			Y:       p.GrossTotal,
			R:       p.Visits,
			Status:  p.RiskLevel,
			Segment: p.Segment,
			Phone:   p.Phone,
		})
	}
	return out
}

// ChurnBucket é uma faixa de 10 dias do histograma de avgDaysBetween.
type ChurnBucket struct {
	From      int      `json:"from"`
	To        int      `json:"to"` // exclusivo; -1 = aberto
	Label     string   `json:"label"`
	Zone      string   `json:"zone"` // Safe | Warning | Danger
	Count     int      `json:"count"`
	Customers []string `json:"customers"` // documentos no bucket
}

// Zonas do histograma de churn.
const (
	ZoneSafe    = "Safe"    // [0, 30)
	ZoneWarning = "Warning" // [30, 60)
	ZoneDanger  = "Danger"  // [60, ∞)
)

const churnBucketWidth = 10
const churnOpenBucketFrom = 90

// GetChurnHistogramData agrupa avgDaysBetween em faixas de 10 dias.
// Clientes sem intervalo válido (menos de duas visitas) são ignorados.
func (m *CustomerMetrics) GetChurnHistogramData() []ChurnBucket {
	buckets := make([]ChurnBucket, 0, churnOpenBucketFrom/churnBucketWidth+1)
	for from := 0; from < churnOpenBucketFrom; from += churnBucketWidth {
		buckets = append(buckets, ChurnBucket{
			From:      from,
			To:        from + churnBucketWidth,
			Label:     bucketLabel(from, from+churnBucketWidth),
			Zone:      churnZone(from),
			Customers: []string{},
		})
	}
	buckets = append(buckets, ChurnBucket{
		From:      churnOpenBucketFrom,
		To:        -1,
		Label:     bucketLabel(churnOpenBucketFrom, -1),
		Zone:      ZoneDanger,
		Customers: []string{},
	})

	for _, p := range m.AllCustomers {
		if p.Visits < 2 || p.AvgDaysBetween <= 0 {
			continue
		}
		idx := int(p.AvgDaysBetween) / churnBucketWidth
		if idx >= len(buckets) {
			idx = len(buckets) - 1
		}
		buckets[idx].Count++
		buckets[idx].Customers = append(buckets[idx].Customers, p.Doc)
	}
	return buckets
}

func churnZone(from int) string {
	switch {
	case from < 30:
		return ZoneSafe
	case from < 60:
		return ZoneWarning
	default:
		return ZoneDanger
	}
}

func bucketLabel(from, to int) string {
	if to < 0 {
		return strconv.Itoa(from) + "+ dias"
	}
	return strconv.Itoa(from) + "–" + strconv.Itoa(to-1) + " dias"
}

// RetentionCohorts mede a fração de clientes com visita de retorno dentro
// de 30/60/90 dias da primeira visita.
type RetentionCohorts struct {
	Rate30 float64 `json:"rate30"`
	Rate60 float64 `json:"rate60"`
	Rate90 float64 `json:"rate90"`
}

// GetRetentionCohorts calcula as taxas de retorno. Base vazia retorna
// estrutura zerada.
func (m *CustomerMetrics) GetRetentionCohorts() RetentionCohorts {
	if len(m.AllCustomers) == 0 {
		return RetentionCohorts{}
	}
	var r30, r60, r90 int
	for _, p := range m.AllCustomers {
		if p.FirstReturnDays < 0 {
			continue
		}
		if p.FirstReturnDays <= 30 {
			r30++
		}
		if p.FirstReturnDays <= 60 {
			r60++
		}
		if p.FirstReturnDays <= 90 {
			r90++
		}
	}
	n := float64(len(m.AllCustomers))
	return RetentionCohorts{
		Rate30: round2(float64(r30) / n),
		Rate60: round2(float64(r60) / n),
		Rate90: round2(float64(r90) / n),
	}
}

// AcquisitionDay é a contagem de clientes novos num dia.
type AcquisitionDay struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	Count     int      `json:"count"`
	Customers []string `json:"customers"`
}

// GetAcquisitionTrend conta, por dia, os clientes cuja primeira visita cai
// nos últimos days dias (<=0 usa o default do config).
func (m *CustomerMetrics) GetAcquisitionTrend(days int) []AcquisitionDay {
	if days <= 0 {
		days = m.Config.withDefaults().AcquisitionDays
	}
	cutoff := time.Date(m.Now.Year(), m.Now.Month(), m.Now.Day(), 0, 0, 0, 0, locale.TimeZone).
		AddDate(0, 0, -(days - 1))

	byDay := make(map[string]*AcquisitionDay)
	for _, p := range m.AllCustomers {
		if p.FirstVisit.Before(cutoff) {
			continue
		}
		day := p.FirstVisit.Format("2006-01-02")
		a := byDay[day]
		if a == nil {
			a = &AcquisitionDay{Date: day, Customers: []string{}}
			byDay[day] = a
		}
		a.Count++
		a.Customers = append(a.Customers, p.Doc)
	}

	out := make([]AcquisitionDay, 0, len(byDay))
	for _, a := range byDay {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
