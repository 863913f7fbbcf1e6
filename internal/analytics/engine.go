// Package analytics - engine de perfis de cliente: agrupa o histórico de
// vendas por documento e deriva visitas, gasto, mix de máquinas, recência e
// classificação de risco, com merge opcional do dataset RFM. Recalculado
// por inteiro a cada chamada; os consumidores leem snapshots imutáveis.
package analytics

import (
	"math"
	"sort"
	"time"

	"lavapop_analytics/internal/locale"
	"lavapop_analytics/internal/phone"
	"lavapop_analytics/internal/sales"
)

// Config reúne os thresholds de classificação. Injetável: nenhum literal
// fica embutido no engine.
type Config struct {
	NewCustomerDays int // janela "recente" de cliente novo
	HealthyDays     int
	MonitorDays     int
	AtRiskDays      int
	ChurningDays    int // acima disso é Lost
	TopAtRiskLimit  int
	AcquisitionDays int
}

// DefaultConfig retorna os thresholds padrão da operação.
func DefaultConfig() Config {
	return Config{
		NewCustomerDays: 7,
		HealthyDays:     30,
		MonitorDays:     60,
		AtRiskDays:      90,
		ChurningDays:    180,
		TopAtRiskLimit:  10,
		AcquisitionDays: 30,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NewCustomerDays <= 0 {
		c.NewCustomerDays = d.NewCustomerDays
	}
	if c.HealthyDays <= 0 {
		c.HealthyDays = d.HealthyDays
	}
	if c.MonitorDays <= 0 {
		c.MonitorDays = d.MonitorDays
	}
	if c.AtRiskDays <= 0 {
		c.AtRiskDays = d.AtRiskDays
	}
	if c.ChurningDays <= 0 {
		c.ChurningDays = d.ChurningDays
	}
	if c.TopAtRiskLimit <= 0 {
		c.TopAtRiskLimit = d.TopAtRiskLimit
	}
	if c.AcquisitionDays <= 0 {
		c.AcquisitionDays = d.AcquisitionDays
	}
	return c
}

// Buckets de risco, mutuamente exclusivos.
const (
	RiskNewCustomer = "New Customer"
	RiskHealthy     = "Healthy"
	RiskMonitor     = "Monitor"
	RiskAtRisk      = "At Risk"
	RiskChurning    = "Churning"
	RiskLost        = "Lost"
)

// CustomerProfile é o perfil derivado de um cliente, um por documento.
type CustomerProfile struct {
	Doc                string    `json:"doc"`
	Name               string    `json:"name,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Segment            string    `json:"segment,omitempty"`
	RiskLevel          string    `json:"riskLevel"`
	RiskScore          RiskScore `json:"riskScore"`
	GrossTotal         float64   `json:"grossTotal"`
	NetTotal           float64   `json:"netTotal"`
	Visits             int       `json:"visits"`       // dias civis distintos
	Transactions       int       `json:"transactions"` // linhas cruas
	WashServices       int       `json:"washServices"`
	DryServices        int       `json:"dryServices"`
	TotalServices      int       `json:"totalServices"`
	ServicesPerVisit   float64   `json:"servicesPerVisit"` // 1 decimal
	FirstVisit         time.Time `json:"firstVisit"`
	LastVisit          time.Time `json:"lastVisit"`
	DaysSinceLastVisit int       `json:"daysSinceLastVisit"`
	AvgDaysBetween     float64   `json:"avgDaysBetween"`  // 0 sem intervalo válido
	FirstReturnDays    int       `json:"firstReturnDays"` // dias até a 2ª visita; -1 sem retorno
	WalletBalance      float64   `json:"walletBalance"`
}

// CustomerMetrics é o snapshot completo consumido por dashboard e campanhas.
type CustomerMetrics struct {
	Now              time.Time         `json:"now"`
	TotalCustomers   int               `json:"totalCustomers"`
	ActiveCount      int               `json:"activeCount"`
	LostCount        int               `json:"lostCount"`
	NewCustomerCount int               `json:"newCustomerCount"`
	ValidPhoneCount  int               `json:"validPhoneCount"`
	AllCustomers     []CustomerProfile `json:"allCustomers"`
	Config           Config            `json:"-"`
}

// BuildProfiles agrupa as vendas por documento e monta um perfil por
// cliente. rfm e customers são datasets auxiliares opcionais (nil ok).
// Entrada vazia retorna estrutura zerada, não nil nem erro.
func BuildProfiles(records []sales.SaleRecord, rfm []sales.RFMRow, customers []sales.CustomerRow, now time.Time, cfg Config) *CustomerMetrics {
	cfg = cfg.withDefaults()
	now = now.In(locale.TimeZone)
	out := &CustomerMetrics{Now: now, AllCustomers: []CustomerProfile{}, Config: cfg}
	if len(records) == 0 {
		return out
	}

	type accum struct {
		profile CustomerProfile
		days    map[string]struct{}
	}
	byDoc := make(map[string]*accum)
	var grossCents, netCents map[string]int64
	grossCents = make(map[string]int64)
	netCents = make(map[string]int64)

	for _, rec := range records {
		if rec.Doc == "" || locale.IsSentinel(rec.Timestamp) {
			continue
		}
		a := byDoc[rec.Doc]
		if a == nil {
			a = &accum{
				profile: CustomerProfile{Doc: rec.Doc, FirstVisit: rec.Timestamp, LastVisit: rec.Timestamp},
				days:    make(map[string]struct{}),
			}
			byDoc[rec.Doc] = a
		}
		p := &a.profile
		grossCents[rec.Doc] += int64(math.Round(rec.GrossValue * 100))
		netCents[rec.Doc] += int64(math.Round(rec.NetValue * 100))
		p.Transactions++
		p.WashServices += rec.WashCount
		p.DryServices += rec.DryCount
		p.TotalServices += rec.TotalServices
		a.days[rec.Timestamp.Format("2006-01-02")] = struct{}{}

		if rec.Timestamp.Before(p.FirstVisit) {
			p.FirstVisit = rec.Timestamp
		}
		if rec.Timestamp.After(p.LastVisit) {
			p.LastVisit = rec.Timestamp
		}
		if rec.CustomerName != "" && (p.Name == "" || locale.IsPlaceholderName(p.Name)) {
			p.Name = rec.CustomerName
		}
		if rec.Phone != "" && p.Phone == "" {
			p.Phone = rec.Phone
		}
	}

	rfmByDoc := indexRFM(rfm)
	custByDoc := indexCustomers(customers)

	profiles := make([]CustomerProfile, 0, len(byDoc))
	for doc, a := range byDoc {
		p := a.profile
		p.GrossTotal = float64(grossCents[doc]) / 100
		p.NetTotal = float64(netCents[doc]) / 100
		p.Visits = len(a.days)
		if p.Visits > 0 {
			p.ServicesPerVisit = math.Round(float64(p.TotalServices)/float64(p.Visits)*10) / 10
		}
		p.DaysSinceLastVisit = civilDaysBetween(p.LastVisit, now)
		p.FirstReturnDays = -1
		if p.Visits > 1 {
			span := civilDaysBetween(p.FirstVisit, p.LastVisit)
			p.AvgDaysBetween = math.Round(float64(span)/float64(p.Visits-1)*10) / 10
			p.FirstReturnDays = firstReturnGap(a.days)
		}

		// Merge do dataset RFM: segmento sempre sobrescreve; nome só quando
		// o derivado das vendas parece auto-gerado.
		if row, ok := rfmByDoc[doc]; ok {
			if row.Segment != "" {
				p.Segment = row.Segment
			}
			if row.Name != "" && locale.IsPlaceholderName(p.Name) {
				p.Name = row.Name
			}
		}
		// Cadastro do POS: carteira e telefone/nome de fallback
		if row, ok := custByDoc[doc]; ok {
			p.WalletBalance = row.WalletBalance
			if p.Phone == "" {
				p.Phone = row.Phone
			}
			if row.Name != "" && locale.IsPlaceholderName(p.Name) {
				p.Name = row.Name
			}
		}

		p.RiskLevel = classify(p.Visits, p.DaysSinceLastVisit, cfg)
		p.RiskScore = Score(p.DaysSinceLastVisit, p.Segment)
		profiles = append(profiles, p)
	}

	// Ordem determinística para consumo e export
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Doc < profiles[j].Doc })

	out.AllCustomers = profiles
	out.TotalCustomers = len(profiles)
	for _, p := range profiles {
		switch p.RiskLevel {
		case RiskLost:
			out.LostCount++
		case RiskNewCustomer:
			out.NewCustomerCount++
			out.ActiveCount++
		default:
			out.ActiveCount++
		}
		if phone.IsValid(p.Phone) {
			out.ValidPhoneCount++
		}
	}
	return out
}

// classify aplica os buckets exclusivos por recência + contagem de visitas.
func classify(visits, daysSince int, cfg Config) string {
	if visits == 1 && daysSince <= cfg.NewCustomerDays {
		return RiskNewCustomer
	}
	switch {
	case daysSince <= cfg.HealthyDays:
		return RiskHealthy
	case daysSince <= cfg.MonitorDays:
		return RiskMonitor
	case daysSince <= cfg.AtRiskDays:
		return RiskAtRisk
	case daysSince <= cfg.ChurningDays:
		return RiskChurning
	default:
		return RiskLost
	}
}

// firstReturnGap acha o intervalo em dias entre a primeira e a segunda
// visita em dias distintos.
func firstReturnGap(days map[string]struct{}) int {
	if len(days) < 2 {
		return -1
	}
	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)
	first, err1 := time.ParseInLocation("2006-01-02", sorted[0], locale.TimeZone)
	second, err2 := time.ParseInLocation("2006-01-02", sorted[1], locale.TimeZone)
	if err1 != nil || err2 != nil {
		return -1
	}
	return civilDaysBetween(first, second)
}

// civilDaysBetween conta dias civis entre duas datas no fuso da loja.
func civilDaysBetween(a, b time.Time) int {
	am := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, locale.TimeZone)
	bm := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, locale.TimeZone)
	d := int(bm.Sub(am).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func indexRFM(rows []sales.RFMRow) map[string]sales.RFMRow {
	idx := make(map[string]sales.RFMRow, len(rows))
	for _, r := range rows {
		if doc := locale.NormalizeDoc(r.Doc); doc != "" {
			idx[doc] = r
		}
	}
	return idx
}

func indexCustomers(rows []sales.CustomerRow) map[string]sales.CustomerRow {
	idx := make(map[string]sales.CustomerRow, len(rows))
	for _, r := range rows {
		if doc := locale.NormalizeDoc(r.Doc); doc != "" {
			idx[doc] = r
		}
	}
	return idx
}
