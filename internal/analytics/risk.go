// Score de risco de churn: função pura de (dias desde a última visita,
// segmento RFM) para um valor 0..100 e um nível discreto.
package analytics

import (
	"math"
	"strings"
)

// RiskScore é o resultado do scorer; não é persistido.
type RiskScore struct {
	Value int    `json:"value"` // 0..100
	Level string `json:"level"` // low | medium | high
}

// Níveis discretos de risco.
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// LevelInfo carrega a apresentação fixa de cada nível, consumida pelo
// dashboard. Faz parte do contrato, não da lógica.
type LevelInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var levelInfo = map[string]LevelInfo{
	RiskLevelLow:    {Label: "Baixo", Color: "#16a34a"},
	RiskLevelMedium: {Label: "Médio", Color: "#f59e0b"},
	RiskLevelHigh:   {Label: "Alto", Color: "#dc2626"},
}

// LevelPresentation retorna label/cor do nível; desconhecido cai em low.
func LevelPresentation(level string) LevelInfo {
	if info, ok := levelInfo[level]; ok {
		return info
	}
	return levelInfo[RiskLevelLow]
}

// Multiplicadores por segmento RFM. Segmentos favoráveis reduzem o score,
// desfavoráveis aumentam; nome desconhecido usa o neutro (igual ao caso
// sem segmento).
const neutralMultiplier = 1.0

var segmentMultipliers = map[string]float64{
	"vip":       0.6,
	"campeão":   0.7,
	"champion":  0.7,
	"frequente": 0.8,
	"fiel":      0.8,
	"esfriando": 1.2,
	"inativo":   1.4,
	"perdido":   1.5,
	"lost":      1.5,
}

// SegmentMultiplier resolve o multiplicador do segmento (case-insensitive).
func SegmentMultiplier(segment string) float64 {
	if m, ok := segmentMultipliers[strings.ToLower(strings.TrimSpace(segment))]; ok {
		return m
	}
	return neutralMultiplier
}

// scoreMaxDays é o ponto onde a curva base atinge 100 antes do
// multiplicador. Curva linear por partes: só as propriedades documentadas
// (monotônica, escala por segmento, clip) são garantidas.
const scoreMaxDays = 180

// Score calcula o risco de churn. Monotônico não-decrescente em days,
// limitado a [0,100].
func Score(daysSinceLastVisit int, segment string) RiskScore {
	if daysSinceLastVisit < 0 {
		daysSinceLastVisit = 0
	}
	base := float64(daysSinceLastVisit) / scoreMaxDays * 100
	value := int(math.Round(base * SegmentMultiplier(segment)))
	if value > 100 {
		value = 100
	}
	if value < 0 {
		value = 0
	}
	return RiskScore{Value: value, Level: scoreLevel(value)}
}

func scoreLevel(value int) string {
	switch {
	case value >= 80:
		return RiskLevelHigh
	case value >= 50:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
