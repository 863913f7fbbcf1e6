package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"lavapop_analytics/internal/api/service"
	"lavapop_analytics/internal/common"
)

// DashboardHandler serve as métricas operacionais e a base de clientes.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler cria o handler do dashboard.
func NewDashboardHandler(dash *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dash}
}

// HandleGetMetrics trata GET /dashboard/metrics — métricas por janela,
// comparação semana a semana e projeção do mês.
func (h *DashboardHandler) HandleGetMetrics(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		if snap.Report == nil {
			HandleResponse(c, nil, common.ErrNoData)
			return nil
		}
		HandleResponse(c, snap.Report, nil)
		return nil
	})
}

// HandleGetDailyRevenue trata GET /dashboard/daily-revenue — série diária
// do faturamento nas últimas quatro semanas.
func (h *DashboardHandler) HandleGetDailyRevenue(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"series": snap.DailyRevenue}, nil)
		return nil
	})
}

// HandleGetCustomers trata GET /customers — a base completa classificada.
func (h *DashboardHandler) HandleGetCustomers(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, snap.Customers, nil)
		return nil
	})
}

// HandleGetSegments trata GET /customers/segments — distribuição por
// segmento RFM da base ativa.
func (h *DashboardHandler) HandleGetSegments(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"segments": snap.Customers.GetSegmentStats()}, nil)
		return nil
	})
}

// HandleGetTopAtRisk trata GET /customers/at-risk — clientes em risco por
// gasto decrescente. Query: limit.
func (h *DashboardHandler) HandleGetTopAtRisk(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		limit := snap.Customers.Config.TopAtRiskLimit
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		HandleResponse(c, fiber.Map{"customers": snap.Customers.GetTopAtRiskCustomers(limit)}, nil)
		return nil
	})
}

// HandleGetChurnHistogram trata GET /customers/churn-histogram.
func (h *DashboardHandler) HandleGetChurnHistogram(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"buckets": snap.Customers.GetChurnHistogramData()}, nil)
		return nil
	})
}

// HandleGetCohorts trata GET /customers/cohorts — retenção em 30/60/90 dias.
func (h *DashboardHandler) HandleGetCohorts(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, snap.Customers.GetRetentionCohorts(), nil)
		return nil
	})
}

// HandleGetAcquisition trata GET /customers/acquisition — clientes novos por
// dia. Query: days.
func (h *DashboardHandler) HandleGetAcquisition(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		days := snap.Customers.Config.AcquisitionDays
		if raw := c.Query("days"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				days = n
			}
		}
		HandleResponse(c, fiber.Map{"trend": snap.Customers.GetAcquisitionTrend(days)}, nil)
		return nil
	})
}

// HandleGetRFMCoordinates trata GET /customers/rfm-matrix — pontos do
// scatter recência x gasto.
func (h *DashboardHandler) HandleGetRFMCoordinates(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		snap, err := h.dashboard.GetSnapshot(c.Context())
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		HandleResponse(c, fiber.Map{"points": snap.Customers.GetRFMCoordinates()}, nil)
		return nil
	})
}
