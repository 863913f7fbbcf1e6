package handler

import (
	"github.com/gofiber/fiber/v3"

	"lavapop_analytics/internal/api/service"
	"lavapop_analytics/internal/campaign"
	"lavapop_analytics/internal/common"
)

// CampaignHandler serve as regras de automação e a resolução de audiência.
type CampaignHandler struct {
	campaigns *service.CampaignService
}

// NewCampaignHandler cria o handler de campanhas.
func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: svc}
}

// HandleListRules trata GET /campaigns/rules.
func (h *CampaignHandler) HandleListRules(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		rules, err := h.campaigns.ListRules(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"rules": rules}, nil)
		return nil
	})
}

// HandleCreateRule trata POST /campaigns/rules.
func (h *CampaignHandler) HandleCreateRule(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var rule campaign.Rule
		if err := c.Bind().Body(&rule); err != nil {
			HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error()))
			return nil
		}
		if err := h.campaigns.CreateRule(c.Context(), rule); err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"created": true}, nil)
		return nil
	})
}

// HandleGetAudience trata GET /campaigns/rules/:id/audience — a partição
// ready/invalid/blacklisted da audiência da regra.
func (h *CampaignHandler) HandleGetAudience(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id := c.Params("id")
		if id == "" {
			HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}
		res, err := h.campaigns.ResolveAudience(c.Context(), id)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, res, nil)
		return nil
	})
}

// HandlePreviewAudience trata POST /campaigns/audience/preview — resolve a
// audiência de uma regra ainda não gravada.
func (h *CampaignHandler) HandlePreviewAudience(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var rule campaign.Rule
		if err := c.Bind().Body(&rule); err != nil {
			HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error()))
			return nil
		}
		res, err := h.campaigns.PreviewAudience(c.Context(), rule)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, res, nil)
		return nil
	})
}
