// Regras de automação de campanha e o matching de trigger sobre o snapshot
// de perfis de cliente.
package campaign

import (
	"github.com/go-playground/validator/v10"

	"lavapop_analytics/internal/analytics"
)

// Tipos de trigger suportados. Tipo desconhecido produz audiência vazia,
// não erro.
const (
	TriggerDaysSinceVisit = "days_since_visit"
	TriggerFirstPurchase  = "first_purchase"
	TriggerWalletBalance  = "wallet_balance"
)

// Trigger descreve a condição de disparo de uma regra.
type Trigger struct {
	Type  string  `json:"type" bson:"type" validate:"required,oneof=days_since_visit first_purchase wallet_balance"`
	Value float64 `json:"value" bson:"value" validate:"gte=0"`
}

// Rule é a regra de automação vinda da camada de persistência.
type Rule struct {
	ID         string  `json:"id" bson:"_id,omitempty"`
	Name       string  `json:"name" bson:"name" validate:"required"`
	Enabled    bool    `json:"enabled" bson:"enabled"`
	Trigger    Trigger `json:"trigger" bson:"trigger" validate:"required"`
	TemplateID string  `json:"templateId" bson:"template_id" validate:"required"`
	Channel    string  `json:"channel" bson:"channel" validate:"required,oneof=whatsapp sms"`
}

var validate = validator.New()

// ValidateRule valida a estrutura da regra antes do uso.
func ValidateRule(r Rule) error {
	return validate.Struct(r)
}

// MatchConfig parametriza o matching.
type MatchConfig struct {
	// Recência mínima (dias) para o trigger de saldo de carteira: evita
	// abordar cliente que esteve na loja hoje.
	MinRecencyDays int
}

// DefaultMatchConfig retorna os parâmetros padrão.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{MinRecencyDays: 1}
}

// MatchTrigger seleciona os clientes que satisfazem o trigger da regra.
// Regra desabilitada ou trigger desconhecido retornam conjunto vazio.
func MatchTrigger(rule Rule, customers []analytics.CustomerProfile, cfg MatchConfig) []analytics.CustomerProfile {
	out := []analytics.CustomerProfile{}
	if !rule.Enabled {
		return out
	}
	if cfg.MinRecencyDays <= 0 {
		cfg.MinRecencyDays = DefaultMatchConfig().MinRecencyDays
	}

	for _, c := range customers {
		switch rule.Trigger.Type {
		case TriggerDaysSinceVisit:
			if float64(c.DaysSinceLastVisit) >= rule.Trigger.Value {
				out = append(out, c)
			}
		case TriggerFirstPurchase:
			if c.RiskLevel == analytics.RiskNewCustomer {
				out = append(out, c)
			}
		case TriggerWalletBalance:
			if c.WalletBalance >= rule.Trigger.Value && c.DaysSinceLastVisit >= cfg.MinRecencyDays {
				out = append(out, c)
			}
		}
	}
	return out
}
