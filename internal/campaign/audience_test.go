package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lavapop_analytics/internal/analytics"
	"lavapop_analytics/internal/locale"
	"lavapop_analytics/internal/phone"
)

func perfil(doc, tel string) analytics.CustomerProfile {
	return analytics.CustomerProfile{Doc: doc, Name: "Cliente " + doc, Phone: tel, GrossTotal: 100}
}

func TestValidateAudience_ParticaoTotal(t *testing.T) {
	candidatos := []analytics.CustomerProfile{
		perfil("00000000001", "54996923504"),     // válido
		perfil("00000000002", "5554996923505"),   // válido com código do país
		perfil("00000000003", ""),                // sem telefone
		perfil("00000000004", "123"),             // curto demais
		perfil("00000000005", "04996923504"),     // DDD inválido
		perfil("00000000006", "54996923506"),     // válido, mas na blacklist
	}
	bl := NewMemoryBlacklist([]BlacklistEntry{
		{Phone: "+5554996923506", Reason: ReasonOptOut},
	})

	res := ValidateAudience(candidatos, bl)

	// Partição total e disjunta
	assert.Equal(t, len(candidatos), len(res.Ready)+len(res.Invalid)+len(res.Blacklisted))
	assert.Equal(t, len(candidatos), res.Stats.Total)
	assert.Equal(t, res.Stats.Total, res.Stats.Ready+res.Stats.Invalid+res.Stats.Blacklisted)

	assert.Len(t, res.Ready, 2)
	assert.Len(t, res.Invalid, 3)
	assert.Len(t, res.Blacklisted, 1)
	assert.NotEmpty(t, res.RunID)

	// Nenhum ready com telefone bloqueado
	for _, r := range res.Ready {
		assert.False(t, bl.IsBlacklisted(r.Phone))
		assert.True(t, phone.IsValid(r.Phone))
	}
	// Todo invalid carrega a razão específica
	razoes := make(map[string]phone.ErrorKind)
	for _, inv := range res.Invalid {
		assert.NotNil(t, inv.Reason)
		assert.NotEmpty(t, inv.Reason.Message)
		razoes[inv.Doc] = inv.Reason.Kind
	}
	assert.Equal(t, phone.ErrMissing, razoes["00000000003"])
	assert.Equal(t, phone.ErrTooShort, razoes["00000000004"])
	assert.Equal(t, phone.ErrInvalidAreaCode, razoes["00000000005"])

	// Blacklist com sub-contagem por razão
	assert.Equal(t, ReasonOptOut, res.Blacklisted[0].Reason)
	assert.Equal(t, 1, res.Stats.ByReason[ReasonOptOut])
}

func TestValidateAudience_EntradaVazia(t *testing.T) {
	res := ValidateAudience(nil, NewMemoryBlacklist(nil))
	assert.Equal(t, 0, res.Stats.Total)
	assert.Empty(t, res.Ready)
	assert.Empty(t, res.Invalid)
	assert.Empty(t, res.Blacklisted)
}

func TestMatchTrigger_DiasSemVisita(t *testing.T) {
	clientes := []analytics.CustomerProfile{
		{Doc: "1", DaysSinceLastVisit: 10},
		{Doc: "2", DaysSinceLastVisit: 30},
		{Doc: "3", DaysSinceLastVisit: 45},
	}
	rule := Rule{Enabled: true, Trigger: Trigger{Type: TriggerDaysSinceVisit, Value: 30}}
	out := MatchTrigger(rule, clientes, DefaultMatchConfig())
	assert.Len(t, out, 2)
	assert.Equal(t, "2", out[0].Doc)
	assert.Equal(t, "3", out[1].Doc)
}

func TestMatchTrigger_PrimeiraCompra(t *testing.T) {
	clientes := []analytics.CustomerProfile{
		{Doc: "1", RiskLevel: analytics.RiskNewCustomer},
		{Doc: "2", RiskLevel: analytics.RiskHealthy},
	}
	rule := Rule{Enabled: true, Trigger: Trigger{Type: TriggerFirstPurchase}}
	out := MatchTrigger(rule, clientes, DefaultMatchConfig())
	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Doc)
}

func TestMatchTrigger_SaldoCarteira(t *testing.T) {
	clientes := []analytics.CustomerProfile{
		{Doc: "1", WalletBalance: 50, DaysSinceLastVisit: 3},
		{Doc: "2", WalletBalance: 50, DaysSinceLastVisit: 0}, // esteve na loja hoje
		{Doc: "3", WalletBalance: 5, DaysSinceLastVisit: 10},
	}
	rule := Rule{Enabled: true, Trigger: Trigger{Type: TriggerWalletBalance, Value: 20}}
	out := MatchTrigger(rule, clientes, DefaultMatchConfig())
	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Doc)
}

func TestMatchTrigger_DesabilitadaOuDesconhecido(t *testing.T) {
	clientes := []analytics.CustomerProfile{{Doc: "1", DaysSinceLastVisit: 90}}

	desabilitada := Rule{Enabled: false, Trigger: Trigger{Type: TriggerDaysSinceVisit, Value: 30}}
	assert.Empty(t, MatchTrigger(desabilitada, clientes, DefaultMatchConfig()))

	desconhecido := Rule{Enabled: true, Trigger: Trigger{Type: "weather_based", Value: 1}}
	assert.Empty(t, MatchTrigger(desconhecido, clientes, DefaultMatchConfig()))
}

func TestValidateRule(t *testing.T) {
	ok := Rule{
		Name:       "Resgate 30 dias",
		Enabled:    true,
		Trigger:    Trigger{Type: TriggerDaysSinceVisit, Value: 30},
		TemplateID: "tpl_resgate",
		Channel:    "whatsapp",
	}
	assert.NoError(t, ValidateRule(ok))

	semCanal := ok
	semCanal.Channel = "pombo-correio"
	assert.Error(t, ValidateRule(semCanal))

	triggerInvalido := ok
	triggerInvalido.Trigger.Type = "invalido"
	assert.Error(t, ValidateRule(triggerInvalido))
}

func TestGetCampaignRecipients(t *testing.T) {
	m := &analytics.CustomerMetrics{
		Now: time.Date(2025, 6, 18, 15, 0, 0, 0, locale.TimeZone),
		AllCustomers: []analytics.CustomerProfile{
			{Doc: "1", Phone: "54996923504", DaysSinceLastVisit: 40},
			{Doc: "2", Phone: "", DaysSinceLastVisit: 50},
			{Doc: "3", Phone: "54996923505", DaysSinceLastVisit: 5},
		},
	}
	rule := Rule{Enabled: true, Trigger: Trigger{Type: TriggerDaysSinceVisit, Value: 30}}
	res := GetCampaignRecipients(rule, m, NewMemoryBlacklist(nil), DefaultMatchConfig())

	// Doc 3 não casa o trigger; 1 e 2 casam, mas 2 não tem telefone
	assert.Equal(t, 2, res.Stats.Total)
	assert.Len(t, res.Ready, 1)
	assert.Equal(t, "1", res.Ready[0].Doc)
	assert.Len(t, res.Invalid, 1)
	assert.Equal(t, phone.ErrMissing, res.Invalid[0].Reason.Kind)
}
