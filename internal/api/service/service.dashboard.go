// Package service - serviços da API: montagem do snapshot analítico a
// partir da persistência e resolução de audiência de campanha.
package service

import (
	"context"
	"sync"
	"time"

	"lavapop_analytics/internal/analytics"
	"lavapop_analytics/internal/locale"
	"lavapop_analytics/internal/logger"
	"lavapop_analytics/internal/metrics"
	"lavapop_analytics/internal/store"
	"lavapop_analytics/internal/timewindow"
)

// Snapshot é o resultado de uma rodada completa de análise: métricas
// operacionais por janela, série diária e a base de clientes classificada.
type Snapshot struct {
	BuiltAt      time.Time                  `json:"builtAt"`
	Report       *metrics.Report            `json:"report"`
	DailyRevenue []metrics.DailyPoint       `json:"dailyRevenue"`
	Customers    *analytics.CustomerMetrics `json:"customers"`
}

// DashboardService monta e cacheia o snapshot analítico. O recálculo é
// integral: qualquer importação nova invalida o cache.
type DashboardService struct {
	store      *store.Store
	metricsCfg metrics.Config
	riskCfg    analytics.Config
	ttl        time.Duration

	mu       sync.Mutex
	snapshot *Snapshot
}

// NewDashboardService cria o serviço com as configurações da loja.
func NewDashboardService(st *store.Store, mCfg metrics.Config, rCfg analytics.Config) *DashboardService {
	return &DashboardService{
		store:      st,
		metricsCfg: mCfg,
		riskCfg:    rCfg,
		ttl:        5 * time.Minute,
	}
}

// GetSnapshot retorna o snapshot corrente, recalculando quando o cache
// expirou ou foi invalidado.
func (s *DashboardService) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && time.Since(s.snapshot.BuiltAt) < s.ttl {
		return s.snapshot, nil
	}
	snap, err := s.build(ctx, time.Now().In(locale.TimeZone))
	if err != nil {
		return nil, err
	}
	s.snapshot = snap
	return snap, nil
}

// Invalidate descarta o cache; a próxima leitura recalcula.
func (s *DashboardService) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// build carrega os três datasets e roda os engines.
func (s *DashboardService) build(ctx context.Context, now time.Time) (*Snapshot, error) {
	started := time.Now()

	records, err := s.store.Sales().LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	rfm, err := s.store.Customers().LoadRFM(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.Customers().LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	ws := timewindow.Resolve(now)
	snap := &Snapshot{
		BuiltAt:      now,
		Report:       metrics.Compute(records, ws, s.metricsCfg),
		DailyRevenue: metrics.DailyRevenue(records),
		Customers:    analytics.BuildProfiles(records, rfm, customers, now, s.riskCfg),
	}
	logger.GetAppLogger().WithField("sales", len(records)).
		WithField("customers", snap.Customers.TotalCustomers).
		WithField("elapsed", time.Since(started).String()).
		Info("Snapshot analítico recalculado")
	return snap, nil
}
