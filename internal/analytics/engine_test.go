package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lavapop_analytics/internal/locale"
	"lavapop_analytics/internal/sales"
)

var agora = time.Date(2025, 6, 18, 15, 0, 0, 0, locale.TimeZone)

func vendaEm(doc string, day time.Time, gross float64, label string) sales.SaleRecord {
	mc := sales.CountMachines(label)
	return sales.SaleRecord{
		Doc:           doc,
		Timestamp:     day,
		GrossValue:    gross,
		NetValue:      gross,
		MachineLabel:  label,
		WashCount:     mc.Wash,
		DryCount:      mc.Dry,
		TotalServices: mc.Total,
	}
}

func dia(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 10, 0, 0, 0, locale.TimeZone)
}

func TestBuildProfiles_EntradaVaziaZerada(t *testing.T) {
	m := BuildProfiles(nil, nil, nil, agora, Config{})
	assert.NotNil(t, m)
	assert.Equal(t, 0, m.TotalCustomers)
	assert.Empty(t, m.AllCustomers)
	assert.Equal(t, RetentionCohorts{}, m.GetRetentionCohorts())
}

func TestBuildProfiles_AgrupamentoEVisitas(t *testing.T) {
	doc := "12345678901"
	recs := []sales.SaleRecord{
		vendaEm(doc, dia(2025, 6, 10), 33.33, "Lavadora 1"),
		vendaEm(doc, dia(2025, 6, 10).Add(2*time.Hour), 33.33, "Secadora 1"), // mesmo dia
		vendaEm(doc, dia(2025, 6, 15), 33.33, "Lavadora 2, Secadora 2"),
	}
	m := BuildProfiles(recs, nil, nil, agora, Config{})
	assert.Equal(t, 1, m.TotalCustomers)

	p := m.AllCustomers[0]
	assert.Equal(t, 2, p.Visits) // mesmo dia conta uma visita
	assert.Equal(t, 3, p.Transactions)
	assert.Equal(t, 99.99, p.GrossTotal)
	assert.Equal(t, 4, p.TotalServices)
	assert.Equal(t, 2.0, p.ServicesPerVisit)
	assert.Equal(t, 3, p.DaysSinceLastVisit) // 15/06 -> 18/06
	assert.Equal(t, 5.0, p.AvgDaysBetween)   // 10/06 -> 15/06, 1 intervalo
	assert.Equal(t, 5, p.FirstReturnDays)
}

func TestBuildProfiles_ClassificacaoDeRisco(t *testing.T) {
	recs := []sales.SaleRecord{
		// Novo: uma visita há 2 dias
		vendaEm("00000000001", dia(2025, 6, 16), 20, "Lavadora 1"),
		// Healthy: visitas recorrentes, última há 10 dias
		vendaEm("00000000002", dia(2025, 5, 1), 20, "Lavadora 1"),
		vendaEm("00000000002", dia(2025, 6, 8), 20, "Lavadora 1"),
		// Monitor: última há ~45 dias
		vendaEm("00000000003", dia(2025, 3, 1), 20, "Lavadora 1"),
		vendaEm("00000000003", dia(2025, 5, 4), 20, "Lavadora 1"),
		// At Risk: última há ~75 dias
		vendaEm("00000000004", dia(2025, 2, 1), 20, "Lavadora 1"),
		vendaEm("00000000004", dia(2025, 4, 4), 20, "Lavadora 1"),
		// Churning: última há ~120 dias
		vendaEm("00000000005", dia(2025, 1, 1), 20, "Lavadora 1"),
		vendaEm("00000000005", dia(2025, 2, 18), 20, "Lavadora 1"),
		// Lost: última há mais de 180 dias
		vendaEm("00000000006", dia(2024, 6, 1), 20, "Lavadora 1"),
	}
	m := BuildProfiles(recs, nil, nil, agora, Config{})

	nivel := make(map[string]string)
	for _, p := range m.AllCustomers {
		nivel[p.Doc] = p.RiskLevel
	}
	assert.Equal(t, RiskNewCustomer, nivel["00000000001"])
	assert.Equal(t, RiskHealthy, nivel["00000000002"])
	assert.Equal(t, RiskMonitor, nivel["00000000003"])
	assert.Equal(t, RiskAtRisk, nivel["00000000004"])
	assert.Equal(t, RiskChurning, nivel["00000000005"])
	assert.Equal(t, RiskLost, nivel["00000000006"])

	assert.Equal(t, 6, m.TotalCustomers)
	assert.Equal(t, 5, m.ActiveCount)
	assert.Equal(t, 1, m.LostCount)
	assert.Equal(t, 1, m.NewCustomerCount)
}

func TestBuildProfiles_VisitaUnicaAntigaNaoEhNovo(t *testing.T) {
	recs := []sales.SaleRecord{vendaEm("00000000007", dia(2025, 5, 1), 20, "Lavadora 1")}
	m := BuildProfiles(recs, nil, nil, agora, Config{})
	// 48 dias atrás, uma visita: cai na régua de recência (Monitor), não em New
	assert.Equal(t, RiskMonitor, m.AllCustomers[0].RiskLevel)
}

func TestBuildProfiles_MergeRFM(t *testing.T) {
	doc := "12345678901"
	comNome := vendaEm(doc, dia(2025, 6, 10), 20, "Lavadora 1")
	comNome.CustomerName = "Maria Souza"

	docPlaceholder := "98765432100"
	semNome := vendaEm(docPlaceholder, dia(2025, 6, 10), 20, "Lavadora 1")
	semNome.CustomerName = "Cliente 42"

	rfm := []sales.RFMRow{
		{Doc: doc, Name: "M. S. (RFM)", Segment: "VIP"},
		{Doc: docPlaceholder, Name: "João Pereira", Segment: "Frequente"},
	}
	m := BuildProfiles([]sales.SaleRecord{comNome, semNome}, rfm, nil, agora, Config{})

	porDoc := make(map[string]CustomerProfile)
	for _, p := range m.AllCustomers {
		porDoc[p.Doc] = p
	}
	// Segmento sempre sobrescreve
	assert.Equal(t, "VIP", porDoc[doc].Segment)
	assert.Equal(t, "Frequente", porDoc[docPlaceholder].Segment)
	// Nome real das vendas nunca é sobrescrito
	assert.Equal(t, "Maria Souza", porDoc[doc].Name)
	// Nome placeholder é substituído pelo do RFM
	assert.Equal(t, "João Pereira", porDoc[docPlaceholder].Name)
}

func TestBuildProfiles_CadastroECarteira(t *testing.T) {
	doc := "12345678901"
	rec := vendaEm(doc, dia(2025, 6, 10), 20, "Lavadora 1")
	cadastro := []sales.CustomerRow{{Doc: doc, Phone: "54996923504", WalletBalance: 37.5}}
	m := BuildProfiles([]sales.SaleRecord{rec}, nil, cadastro, agora, Config{})

	p := m.AllCustomers[0]
	assert.Equal(t, 37.5, p.WalletBalance)
	assert.Equal(t, "54996923504", p.Phone)
	assert.Equal(t, 1, m.ValidPhoneCount)
}

func TestBuildProfiles_RegistroSujoIgnorado(t *testing.T) {
	sujo := vendaEm("", dia(2025, 6, 10), 20, "Lavadora 1")
	sentinela := vendaEm("12345678901", locale.Sentinel(), 20, "Lavadora 1")
	m := BuildProfiles([]sales.SaleRecord{sujo, sentinela}, nil, nil, agora, Config{})
	assert.Equal(t, 0, m.TotalCustomers)
}
