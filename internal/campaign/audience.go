// Validação de audiência: partição total e disjunta dos candidatos em
// ready / invalid / blacklisted, com estatísticas que sempre somam a
// entrada.
package campaign

import (
	"github.com/google/uuid"

	"lavapop_analytics/internal/analytics"
	"lavapop_analytics/internal/phone"
)

// Recipient é um candidato aprovado, com o telefone já canônico.
type Recipient struct {
	Doc     string  `json:"doc"`
	Name    string  `json:"name,omitempty"`
	Phone   string  `json:"phone"` // forma canônica +55...
	Segment string  `json:"segment,omitempty"`
	Spend   float64 `json:"spend"`
}

// InvalidRecipient carrega o erro específico de validação do telefone.
type InvalidRecipient struct {
	Doc    string                 `json:"doc"`
	Name   string                 `json:"name,omitempty"`
	Phone  string                 `json:"phone,omitempty"` // como veio
	Reason *phone.ValidationError `json:"reason"`
}

// BlacklistedRecipient é um candidato com telefone válido porém bloqueado.
type BlacklistedRecipient struct {
	Doc    string `json:"doc"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone"`
	Reason string `json:"reason"`
}

// AudienceStats resume a partição; Total = Ready+Invalid+Blacklisted.
type AudienceStats struct {
	Total       int            `json:"total"`
	Ready       int            `json:"ready"`
	Invalid     int            `json:"invalid"`
	Blacklisted int            `json:"blacklisted"`
	ByReason    map[string]int `json:"byReason"` // sub-contagem da blacklist
}

// AudienceResult é a partição completa de uma resolução de audiência.
type AudienceResult struct {
	RunID       string                 `json:"runId"`
	Ready       []Recipient            `json:"ready"`
	Invalid     []InvalidRecipient     `json:"invalid"`
	Blacklisted []BlacklistedRecipient `json:"blacklisted"`
	Stats       AudienceStats          `json:"stats"`
}

// ValidateAudience particiona os candidatos: telefone inválido vai para
// invalid com o erro específico; válido porém na blacklist vai para
// blacklisted com a razão; o resto fica ready. Todo candidato aparece em
// exatamente um bucket.
func ValidateAudience(customers []analytics.CustomerProfile, bl Blacklist) *AudienceResult {
	res := &AudienceResult{
		RunID:       uuid.NewString(),
		Ready:       []Recipient{},
		Invalid:     []InvalidRecipient{},
		Blacklisted: []BlacklistedRecipient{},
		Stats:       AudienceStats{ByReason: map[string]int{}},
	}

	for _, c := range customers {
		canonical, verr := phone.Validate(c.Phone)
		if verr != nil {
			res.Invalid = append(res.Invalid, InvalidRecipient{
				Doc: c.Doc, Name: c.Name, Phone: c.Phone, Reason: verr,
			})
			continue
		}

		if bl != nil && bl.IsBlacklisted(canonical) {
			reason := ReasonManual
			if entry := bl.Lookup(canonical); entry != nil && entry.Reason != "" {
				reason = entry.Reason
			}
			res.Blacklisted = append(res.Blacklisted, BlacklistedRecipient{
				Doc: c.Doc, Name: c.Name, Phone: canonical, Reason: reason,
			})
			res.Stats.ByReason[reason]++
			continue
		}

		res.Ready = append(res.Ready, Recipient{
			Doc: c.Doc, Name: c.Name, Phone: canonical, Segment: c.Segment, Spend: c.GrossTotal,
		})
	}

	res.Stats.Total = len(customers)
	res.Stats.Ready = len(res.Ready)
	res.Stats.Invalid = len(res.Invalid)
	res.Stats.Blacklisted = len(res.Blacklisted)
	return res
}

// GetCampaignRecipients resolve a audiência de uma regra: matching do
// trigger seguido da validação/partição.
func GetCampaignRecipients(rule Rule, m *analytics.CustomerMetrics, bl Blacklist, cfg MatchConfig) *AudienceResult {
	if m == nil {
		return ValidateAudience(nil, bl)
	}
	matched := MatchTrigger(rule, m.AllCustomers, cfg)
	return ValidateAudience(matched, bl)
}
