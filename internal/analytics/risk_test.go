package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_SempreLimitado(t *testing.T) {
	for _, days := range []int{-5, 0, 1, 30, 90, 180, 365, 10000} {
		for _, seg := range []string{"", "VIP", "Perdido", "segmento inexistente"} {
			s := Score(days, seg)
			assert.GreaterOrEqual(t, s.Value, 0)
			assert.LessOrEqual(t, s.Value, 100)
		}
	}
}

func TestScore_MonotonicoEmDias(t *testing.T) {
	for _, seg := range []string{"", "VIP", "Inativo"} {
		anterior := -1
		for days := 0; days <= 400; days += 10 {
			s := Score(days, seg)
			assert.GreaterOrEqual(t, s.Value, anterior, "segmento %q, dias %d", seg, days)
			anterior = s.Value
		}
	}
}

func TestScore_OrdemDosSegmentos(t *testing.T) {
	// Para a mesma recência, VIP pontua estritamente menos que Perdido
	vip := Score(60, "VIP")
	lost := Score(60, "Perdido")
	neutro := Score(60, "")
	assert.Less(t, vip.Value, lost.Value)
	assert.Less(t, vip.Value, neutro.Value)
	assert.Less(t, neutro.Value, lost.Value)
}

func TestScore_SegmentoDesconhecidoEhNeutro(t *testing.T) {
	assert.Equal(t, Score(45, ""), Score(45, "Segmento Novo Do Mes"))
}

func TestScore_Niveis(t *testing.T) {
	assert.Equal(t, RiskLevelLow, Score(0, "").Level)
	// 90 dias neutro = 50 -> medium
	assert.Equal(t, RiskLevelMedium, Score(90, "").Level)
	// 180 dias neutro = 100 -> high
	assert.Equal(t, RiskLevelHigh, Score(180, "").Level)
}

func TestLevelPresentation(t *testing.T) {
	assert.Equal(t, "Alto", LevelPresentation(RiskLevelHigh).Label)
	assert.Equal(t, "Baixo", LevelPresentation(RiskLevelLow).Label)
	// Nível desconhecido cai em low
	assert.Equal(t, "Baixo", LevelPresentation("???").Label)
}

func TestSegmentMultiplier_CaseInsensitive(t *testing.T) {
	assert.Equal(t, SegmentMultiplier("vip"), SegmentMultiplier("VIP"))
	assert.Equal(t, neutralMultiplier, SegmentMultiplier("qualquer coisa"))
}
