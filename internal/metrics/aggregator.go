// Package metrics - agregador de transações por janela temporal: receita,
// cashback, serviços e utilização das máquinas, com deltas semana-a-semana
// e projeção da semana parcial.
package metrics

import (
	"math"
	"sort"

	"lavapop_analytics/internal/sales"
	"lavapop_analytics/internal/timewindow"
)

// Config parametriza o parque de máquinas da loja. Injetável para teste e
// para lojas com configuração diferente.
type Config struct {
	Washers    int     // default 3
	Dryers     int     // default 5
	CycleHours float64 // horas de máquina ocupadas por serviço
}

// DefaultConfig retorna o parque padrão da operação.
func DefaultConfig() Config {
	return Config{Washers: 3, Dryers: 5, CycleHours: 1}
}

func (c Config) withDefaults() Config {
	if c.Washers <= 0 {
		c.Washers = 3
	}
	if c.Dryers <= 0 {
		c.Dryers = 5
	}
	if c.CycleHours <= 0 {
		c.CycleHours = 1
	}
	return c
}

// WindowMetrics é o shape emitido para cada janela nomeada.
type WindowMetrics struct {
	GrossRevenue      float64 `json:"grossRevenue"`
	NetRevenue        float64 `json:"netRevenue"`
	Cashback          float64 `json:"cashback"`
	Transactions      int     `json:"transactions"`
	TotalServices     int     `json:"totalServices"`
	WashServices      int     `json:"washServices"`
	DryServices       int     `json:"dryServices"`
	TotalUtilization  float64 `json:"totalUtilization"`
	WasherUtilization float64 `json:"washerUtilization"`
	DryerUtilization  float64 `json:"dryerUtilization"`
}

// WeekOverWeek são os deltas percentuais entre a última semana completa e a
// anterior a ela.
type WeekOverWeek struct {
	GrossRevenue  float64 `json:"grossRevenue"`
	NetRevenue    float64 `json:"netRevenue"`
	TotalServices float64 `json:"totalServices"`
	Utilization   float64 `json:"utilization"`
}

// Projection é a extrapolação da semana parcial para 7 dias.
type Projection struct {
	CanProject    bool    `json:"canProject"`
	Confidence    string  `json:"confidence"`
	Trend         string  `json:"trend"`
	GrossRevenue  float64 `json:"grossRevenue"`
	NetRevenue    float64 `json:"netRevenue"`
	TotalServices float64 `json:"totalServices"`
}

// Report agrega todas as janelas + metadata, consumido pelo dashboard.
// O shape de §4.4 usa "previousWeekly" e "twoWeeksAgo" para a mesma janela
// (a semana completa anterior à última); aqui emitimos uma vez.
type Report struct {
	CurrentWeek    WindowMetrics         `json:"currentWeek"`
	Weekly         WindowMetrics         `json:"weekly"`         // última semana completa
	PreviousWeekly WindowMetrics         `json:"previousWeekly"` // duas semanas atrás
	FourWeek       WindowMetrics         `json:"fourWeek"`
	MonthToDate    WindowMetrics         `json:"monthToDate"`
	PriorYearMTD   WindowMetrics         `json:"priorYearMtd"`
	WeekOverWeek   WeekOverWeek          `json:"weekOverWeek"`
	Projection     Projection            `json:"projection"`
	Windows        *timewindow.WindowSet `json:"windows"`
}

// Compute calcula o relatório completo. Entrada nula/vazia retorna nil:
// sinal explícito de "sem dados", não erro.
func Compute(records []sales.SaleRecord, ws *timewindow.WindowSet, cfg Config) *Report {
	if len(records) == 0 || ws == nil {
		return nil
	}
	cfg = cfg.withDefaults()

	r := &Report{
		CurrentWeek:    aggregate(records, ws.CurrentWeek, cfg),
		Weekly:         aggregate(records, ws.LastWeek, cfg),
		PreviousWeekly: aggregate(records, ws.TwoWeeksAgo, cfg),
		FourWeek:       aggregate(records, ws.FourWeek, cfg),
		MonthToDate:    aggregate(records, ws.MonthToDate, cfg),
		PriorYearMTD:   aggregate(records, ws.PriorYearMTD, cfg),
		Windows:        ws,
	}
	r.WeekOverWeek = weekOverWeek(r.Weekly, r.PreviousWeekly)
	r.Projection = project(r.CurrentWeek, r.Weekly, ws.CurrentWeek.DaysElapsed)
	return r
}

// aggregate acumula os registros pertencentes à janela. Somas monetárias em
// centavos para não acumular erro binário (3 × 33,33 = 99,99 exato).
func aggregate(records []sales.SaleRecord, w timewindow.DateWindow, cfg Config) WindowMetrics {
	var grossCents, netCents int64
	var m WindowMetrics
	for _, rec := range records {
		if !w.Contains(rec.Timestamp) {
			continue
		}
		grossCents += toCents(rec.GrossValue)
		netCents += toCents(rec.NetValue)
		m.Transactions++
		// Recarga entra na receita mas não conta serviço de máquina
		m.WashServices += rec.WashCount
		m.DryServices += rec.DryCount
		m.TotalServices += rec.TotalServices
	}
	m.GrossRevenue = fromCents(grossCents)
	m.NetRevenue = fromCents(netCents)
	m.Cashback = fromCents(grossCents - netCents)

	days := w.Days()
	if w.IsPartial {
		days = w.DaysElapsed
	}
	if days > 0 {
		washHours := float64(m.WashServices) * cfg.CycleHours
		dryHours := float64(m.DryServices) * cfg.CycleHours
		m.WasherUtilization = utilization(washHours, cfg.Washers, days)
		m.DryerUtilization = utilization(dryHours, cfg.Dryers, days)
		m.TotalUtilization = utilization(washHours+dryHours, cfg.Washers+cfg.Dryers, days)
	}
	return m
}

func utilization(usedHours float64, machines, days int) float64 {
	capacity := float64(machines) * 24 * float64(days)
	if capacity == 0 {
		return 0
	}
	return round2(usedHours / capacity * 100)
}

func weekOverWeek(cur, prev WindowMetrics) WeekOverWeek {
	return WeekOverWeek{
		GrossRevenue:  pctChange(cur.GrossRevenue, prev.GrossRevenue),
		NetRevenue:    pctChange(cur.NetRevenue, prev.NetRevenue),
		TotalServices: pctChange(float64(cur.TotalServices), float64(prev.TotalServices)),
		Utilization:   pctChange(cur.TotalUtilization, prev.TotalUtilization),
	}
}

// pctChange retorna a variação percentual; base zero com valor atual
// positivo reporta +100 (crescimento de base vazia).
func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return round2((cur - prev) / prev * 100)
}

// project extrapola a semana parcial pela média diária. Só projeta com ao
// menos um dia de dados.
func project(cur, prior WindowMetrics, daysElapsed int) Projection {
	p := Projection{Confidence: timewindow.ProjectionConfidence(daysElapsed)}
	if daysElapsed < 1 || cur.Transactions == 0 {
		p.Trend = timewindow.TrendStable
		return p
	}
	p.CanProject = true
	factor := 7.0 / float64(daysElapsed)
	p.GrossRevenue = round2(cur.GrossRevenue * factor)
	p.NetRevenue = round2(cur.NetRevenue * factor)
	p.TotalServices = round2(float64(cur.TotalServices) * factor)

	curDaily := cur.NetRevenue / float64(daysElapsed)
	priorDaily := prior.NetRevenue / 7
	p.Trend = timewindow.Trend(curDaily, priorDaily)
	return p
}

// DailyPoint é um ponto da série de receita diária.
type DailyPoint struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	GrossRevenue float64 `json:"grossRevenue"`
	NetRevenue   float64 `json:"netRevenue"`
	Transactions int     `json:"transactions"`
}

// DailyRevenue agrega receita por dia civil, ordenada ascendente por data.
func DailyRevenue(records []sales.SaleRecord) []DailyPoint {
	type acc struct {
		gross, net int64
		count      int
	}
	byDay := make(map[string]*acc)
	for _, rec := range records {
		day := rec.Timestamp.Format("2006-01-02")
		a := byDay[day]
		if a == nil {
			a = &acc{}
			byDay[day] = a
		}
		a.gross += toCents(rec.GrossValue)
		a.net += toCents(rec.NetValue)
		a.count++
	}

	out := make([]DailyPoint, 0, len(byDay))
	for day, a := range byDay {
		out = append(out, DailyPoint{
			Date:         day,
			GrossRevenue: fromCents(a.gross),
			NetRevenue:   fromCents(a.net),
			Transactions: a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Correlation calcula o coeficiente de Pearson entre duas séries.
// Tamanhos diferentes, séries vazias ou variância zero retornam nil —
// violação de contrato vira valor nulo, consistente com o resto do engine.
func Correlation(xs, ys []float64) *float64 {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil
	}
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return nil
	}
	r := cov / math.Sqrt(varX*varY)
	return &r
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
