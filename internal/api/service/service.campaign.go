package service

import (
	"context"

	"lavapop_analytics/internal/campaign"
	"lavapop_analytics/internal/common"
	"lavapop_analytics/internal/store"
)

// CampaignService resolve audiências de campanha sobre o snapshot corrente.
type CampaignService struct {
	store     *store.Store
	dashboard *DashboardService
	matchCfg  campaign.MatchConfig
}

// NewCampaignService cria o serviço de campanhas.
func NewCampaignService(st *store.Store, dash *DashboardService, matchCfg campaign.MatchConfig) *CampaignService {
	return &CampaignService{store: st, dashboard: dash, matchCfg: matchCfg}
}

// ListRules lista as regras de automação.
func (s *CampaignService) ListRules(ctx context.Context) ([]campaign.Rule, error) {
	return s.store.Campaigns().ListRules(ctx)
}

// CreateRule valida e grava uma regra nova.
func (s *CampaignService) CreateRule(ctx context.Context, rule campaign.Rule) error {
	return s.store.Campaigns().CreateRule(ctx, rule)
}

// ResolveAudience resolve a audiência da regra: matching do trigger sobre o
// snapshot, validação de telefone e filtro de blacklist.
func (s *CampaignService) ResolveAudience(ctx context.Context, ruleID string) (*campaign.AudienceResult, error) {
	rule, err := s.store.Campaigns().GetRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	snap, err := s.dashboard.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	bl, err := s.store.Campaigns().LoadBlacklist(ctx)
	if err != nil {
		return nil, err
	}
	return campaign.GetCampaignRecipients(*rule, snap.Customers, bl, s.matchCfg), nil
}

// PreviewAudience resolve a audiência de uma regra ainda não gravada.
func (s *CampaignService) PreviewAudience(ctx context.Context, rule campaign.Rule) (*campaign.AudienceResult, error) {
	if err := campaign.ValidateRule(rule); err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	snap, err := s.dashboard.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	bl, err := s.store.Campaigns().LoadBlacklist(ctx)
	if err != nil {
		return nil, err
	}
	return campaign.GetCampaignRecipients(rule, snap.Customers, bl, s.matchCfg), nil
}
