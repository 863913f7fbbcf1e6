// Package sales - registro canônico de venda do POS e os campos derivados
// (tipo de transação, contagem de máquinas, hash de deduplicação).
package sales

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Tipos de transação, na mesma taxonomia do pipeline de importação.
const (
	TypeNormal   = "TYPE_1" // compra normal (máquinas + valor bruto > 0)
	TypeWallet   = "TYPE_2" // compra com saldo da carteira
	TypeRecharge = "TYPE_3" // recarga de carteira
	TypeUnknown  = "UNKNOWN"
)

// SaleRecord é a venda já normalizada pelo adapter (pós-parse).
type SaleRecord struct {
	Doc           string    `json:"doc" bson:"doc_cliente" index:"single"`
	CustomerName  string    `json:"customerName,omitempty" bson:"nome_cliente,omitempty"`
	Phone         string    `json:"phone,omitempty" bson:"telefone,omitempty"`
	Timestamp     time.Time `json:"timestamp" bson:"data_hora" index:"single"`
	GrossValue    float64   `json:"grossValue" bson:"valor_venda"`
	NetValue      float64   `json:"netValue" bson:"valor_pago"`
	MachineLabel  string    `json:"machineLabel,omitempty" bson:"maquinas,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty" bson:"meio_de_pagamento,omitempty"`
	TypeCode      string    `json:"typeCode" bson:"transaction_type"`
	IsRecharge    bool      `json:"isRecharge" bson:"is_recarga"`
	WashCount     int       `json:"washCount" bson:"wash_count"`
	DryCount      int       `json:"dryCount" bson:"dry_count"`
	TotalServices int       `json:"totalServices" bson:"total_services"`
	ImportHash    string    `json:"-" bson:"import_hash" index:"unique"`
	SourceFile    string    `json:"-" bson:"source_file,omitempty"`
}

// MachineCount resume os serviços de um rótulo de máquinas.
type MachineCount struct {
	Wash  int `json:"wash"`
	Dry   int `json:"dry"`
	Total int `json:"total"`
}

// CountMachines conta lavadoras e secadoras num rótulo separado por vírgula
// ("Lavadora 1, Secadora 2"), case-insensitive. Tokens de recarga ou
// qualquer outro texto não contam como serviço.
func CountMachines(label string) MachineCount {
	if strings.TrimSpace(label) == "" {
		return MachineCount{}
	}
	var mc MachineCount
	for _, tok := range strings.Split(strings.ToLower(label), ",") {
		switch {
		case strings.Contains(tok, "lavadora"):
			mc.Wash++
		case strings.Contains(tok, "secadora"):
			mc.Dry++
		}
	}
	mc.Total = mc.Wash + mc.Dry
	return mc
}

// Classify determina o tipo da transação a partir do rótulo de máquinas,
// meio de pagamento e valor bruto.
func Classify(machineLabel, paymentMethod string, gross float64) string {
	label := strings.ToLower(machineLabel)
	payment := strings.ToLower(paymentMethod)

	if strings.Contains(label, "recarga") {
		return TypeRecharge
	}
	if strings.Contains(payment, "saldo da carteira") {
		return TypeWallet
	}
	if gross == 0 && label != "" {
		return TypeWallet
	}
	if label != "" && gross > 0 {
		return TypeNormal
	}
	return TypeUnknown
}

// ComputeImportHash gera o hash de deduplicação da linha original
// (SHA-256 truncado em 32 hex), sobre os campos crus antes do parse.
func ComputeImportHash(dataHora, doc, valor, maquinas string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s", dataHora, doc, valor, maquinas)))
	return hex.EncodeToString(sum[:])[:32]
}

// RFMRow é uma linha do dataset externo de RFM, chaveada por documento.
type RFMRow struct {
	Doc     string `json:"doc" bson:"doc_cliente"`
	Name    string `json:"name,omitempty" bson:"nome,omitempty"`
	Segment string `json:"segment" bson:"segmento"`
}

// CustomerRow é a linha do export de clientes do POS (cadastro + carteira).
type CustomerRow struct {
	Doc           string    `json:"doc" bson:"doc" index:"unique"`
	Name          string    `json:"name,omitempty" bson:"nome,omitempty"`
	Phone         string    `json:"phone,omitempty" bson:"telefone,omitempty"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	RegisteredAt  time.Time `json:"registeredAt" bson:"data_cadastro"`
	WalletBalance float64   `json:"walletBalance" bson:"saldo_carteira"`
}
