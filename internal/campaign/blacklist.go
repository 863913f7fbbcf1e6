// Package campaign - resolução de audiência para campanhas de mensagem
// (WhatsApp): matching de trigger das regras de automação, validação de
// telefone e filtro de blacklist.
package campaign

// Razões de bloqueio de um telefone na blacklist.
const (
	ReasonOptOut        = "opt-out"
	ReasonUndelivered   = "undelivered"
	ReasonNumberBlocked = "number-blocked"
	ReasonManual        = "manual"
)

// BlacklistEntry é a entrada consultada no colaborador externo (read-only).
type BlacklistEntry struct {
	Phone  string `json:"phone" bson:"phone"`
	Reason string `json:"reason" bson:"reason"`
}

// Blacklist é o colaborador de consulta, chaveado pelo telefone normalizado.
type Blacklist interface {
	IsBlacklisted(phone string) bool
	Lookup(phone string) *BlacklistEntry
}

// MemoryBlacklist é a implementação em memória, usada em teste e no preview
// sem banco.
type MemoryBlacklist struct {
	entries map[string]BlacklistEntry
}

// NewMemoryBlacklist monta a blacklist a partir das entradas carregadas.
func NewMemoryBlacklist(entries []BlacklistEntry) *MemoryBlacklist {
	m := &MemoryBlacklist{entries: make(map[string]BlacklistEntry, len(entries))}
	for _, e := range entries {
		if e.Phone != "" {
			m.entries[e.Phone] = e
		}
	}
	return m
}

// IsBlacklisted informa se o telefone está bloqueado.
func (m *MemoryBlacklist) IsBlacklisted(phone string) bool {
	_, ok := m.entries[phone]
	return ok
}

// Lookup retorna a entrada do telefone, ou nil.
func (m *MemoryBlacklist) Lookup(phone string) *BlacklistEntry {
	if e, ok := m.entries[phone]; ok {
		return &e
	}
	return nil
}
