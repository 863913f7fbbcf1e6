// Adapter de linhas heterogêneas dos exports do POS para o registro
// canônico. A variante é decidida pelos campos presentes na linha
// (Data_Hora vs Data vs date/timestamp), nunca por acesso espalhado.
package sales

import (
	"strings"
	"time"

	"lavapop_analytics/internal/locale"
)

// rowVariant identifica o formato de origem da linha.
type rowVariant int

const (
	variantUnknown rowVariant = iota
	variantPOS                // export padrão: Data_Hora, Valor_Venda, Maquinas
	variantLegacy             // export antigo: Data, Valor_Pago, Maquina
	variantISO                // export do banco: date/timestamp, gross_value
)

// detectVariant decide o formato pela presença dos campos-chave.
func detectVariant(row map[string]string) rowVariant {
	if _, ok := row["Data_Hora"]; ok {
		return variantPOS
	}
	if _, ok := row["Data"]; ok {
		return variantLegacy
	}
	if _, ok := row["date"]; ok {
		return variantISO
	}
	if _, ok := row["timestamp"]; ok {
		return variantISO
	}
	return variantUnknown
}

// FromRow converte uma linha crua num SaleRecord canônico, preenchendo os
// campos derivados. Retorna ok=false quando a linha não tem data
// reconhecível ou documento algum (linha descartada, não erro).
func FromRow(row map[string]string) (SaleRecord, bool) {
	var rawDate, rawDoc, rawGross, rawNet, machines string

	switch detectVariant(row) {
	case variantPOS:
		rawDate = row["Data_Hora"]
		rawDoc = row["Doc_Cliente"]
		rawGross = row["Valor_Venda"]
		rawNet = row["Valor_Pago"]
		machines = row["Maquinas"]
	case variantLegacy:
		rawDate = row["Data"]
		rawDoc = row["Doc_Cliente"]
		rawGross = row["Valor_Venda"]
		rawNet = row["Valor_Pago"]
		machines = firstNonEmpty(row["Maquina"], row["Maquinas"])
	case variantISO:
		rawDate = firstNonEmpty(row["date"], row["timestamp"])
		rawDoc = firstNonEmpty(row["doc"], row["Doc_Cliente"])
		rawGross = firstNonEmpty(row["gross_value"], row["Valor_Venda"])
		rawNet = firstNonEmpty(row["net_value"], row["Valor_Pago"])
		machines = firstNonEmpty(row["machines"], row["Maquinas"])
	default:
		return SaleRecord{}, false
	}

	ts := locale.ParseBRDate(rawDate)
	doc := locale.NormalizeDoc(rawDoc)
	if locale.IsSentinel(ts) || doc == "" {
		return SaleRecord{}, false
	}

	gross := locale.ParseBRNumber(rawGross)
	net := locale.ParseBRNumber(rawNet)
	if rawNet == "" {
		net = gross
	}

	mc := CountMachines(machines)
	rec := SaleRecord{
		Doc:           doc,
		CustomerName:  strings.TrimSpace(row["Nome_Cliente"]),
		Phone:         strings.TrimSpace(row["Telefone"]),
		Timestamp:     ts,
		GrossValue:    gross,
		NetValue:      net,
		MachineLabel:  strings.TrimSpace(machines),
		PaymentMethod: strings.TrimSpace(row["Meio_de_Pagamento"]),
		TypeCode:      Classify(machines, row["Meio_de_Pagamento"], gross),
		WashCount:     mc.Wash,
		DryCount:      mc.Dry,
		TotalServices: mc.Total,
		ImportHash:    ComputeImportHash(rawDate, rawDoc, rawGross, machines),
	}
	rec.IsRecharge = rec.TypeCode == TypeRecharge
	return rec, true
}

// FromRows converte um lote de linhas, deduplicando pelo hash de importação.
func FromRows(rows []map[string]string) []SaleRecord {
	out := make([]SaleRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		rec, ok := FromRow(row)
		if !ok {
			continue
		}
		if _, dup := seen[rec.ImportHash]; dup {
			continue
		}
		seen[rec.ImportHash] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// CustomerFromRow converte a linha do export de clientes (cadastro).
func CustomerFromRow(row map[string]string) (CustomerRow, bool) {
	doc := locale.NormalizeDoc(firstNonEmpty(row["Documento"], row["Doc_Cliente"], row["doc"]))
	if doc == "" {
		return CustomerRow{}, false
	}
	registered := locale.ParseBRDate(firstNonEmpty(row["Data_Cadastro"], row["registered_at"]))
	var regAt time.Time
	if !locale.IsSentinel(registered) {
		regAt = registered
	}
	return CustomerRow{
		Doc:           doc,
		Name:          strings.TrimSpace(firstNonEmpty(row["Nome"], row["name"])),
		Phone:         strings.TrimSpace(firstNonEmpty(row["Telefone"], row["phone"])),
		Email:         strings.TrimSpace(firstNonEmpty(row["Email"], row["email"])),
		RegisteredAt:  regAt,
		WalletBalance: locale.ParseBRNumber(firstNonEmpty(row["Saldo_Carteira"], row["wallet_balance"])),
	}, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
