package main

import (
	"context"
	"fmt"

	"lavapop_analytics/config"
	"lavapop_analytics/internal/analytics"
	"lavapop_analytics/internal/api/service"
	"lavapop_analytics/internal/campaign"
	"lavapop_analytics/internal/logger"
	"lavapop_analytics/internal/metrics"
	"lavapop_analytics/internal/store"
)

// app agrupa as dependências montadas na inicialização.
type app struct {
	cfg       *config.Configuration
	store     *store.Store
	dashboard *service.DashboardService
	campaigns *service.CampaignService
}

// initApp carrega a configuração, conecta no banco e monta os serviços.
func initApp(ctx context.Context) (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(&cfg.Log); err != nil {
		return nil, fmt.Errorf("erro ao inicializar o logging: %w", err)
	}
	log := logger.GetAppLogger()

	st, err := store.Connect(ctx, cfg.MongoDB_ConnectionURI, cfg.MongoDB_DBName)
	if err != nil {
		return nil, err
	}
	log.Infof("Conectado ao MongoDB, database %s", cfg.MongoDB_DBName)

	if err := st.EnsureCollections(ctx); err != nil {
		return nil, err
	}
	log.Info("Collections e índices garantidos")

	dash := service.NewDashboardService(st,
		metrics.Config{Washers: cfg.Washers, Dryers: cfg.Dryers, CycleHours: float64(cfg.CycleHours)},
		analytics.Config{
			NewCustomerDays: cfg.NewCustomerDays,
			HealthyDays:     cfg.HealthyDays,
			MonitorDays:     cfg.MonitorDays,
			AtRiskDays:      cfg.AtRiskDays,
			ChurningDays:    cfg.ChurningDays,
			TopAtRiskLimit:  cfg.TopAtRiskLimit,
			AcquisitionDays: cfg.AcquisitionDays,
		})
	camp := service.NewCampaignService(st, dash,
		campaign.MatchConfig{MinRecencyDays: cfg.CampaignMinRecencyDays})

	return &app{cfg: cfg, store: st, dashboard: dash, campaigns: camp}, nil
}
