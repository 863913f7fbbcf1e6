// Package router registra as rotas da API v1.
package router

import (
	"github.com/gofiber/fiber/v3"

	"lavapop_analytics/internal/api/handler"
	"lavapop_analytics/internal/api/service"
	"lavapop_analytics/internal/store"
)

// Register registra todas as rotas do dashboard e das campanhas em v1.
func Register(v1 fiber.Router, st *store.Store, dash *service.DashboardService, camp *service.CampaignService) {
	dashHandler := handler.NewDashboardHandler(dash)
	campHandler := handler.NewCampaignHandler(camp)
	uploadHandler := handler.NewUploadHandler(st.Uploads())

	dashboard := v1.Group("/dashboard")
	dashboard.Get("/metrics", dashHandler.HandleGetMetrics)
	dashboard.Get("/daily-revenue", dashHandler.HandleGetDailyRevenue)

	customers := v1.Group("/customers")
	customers.Get("/", dashHandler.HandleGetCustomers)
	customers.Get("/segments", dashHandler.HandleGetSegments)
	customers.Get("/at-risk", dashHandler.HandleGetTopAtRisk)
	customers.Get("/churn-histogram", dashHandler.HandleGetChurnHistogram)
	customers.Get("/cohorts", dashHandler.HandleGetCohorts)
	customers.Get("/acquisition", dashHandler.HandleGetAcquisition)
	customers.Get("/rfm-matrix", dashHandler.HandleGetRFMCoordinates)

	campaigns := v1.Group("/campaigns")
	campaigns.Get("/rules", campHandler.HandleListRules)
	campaigns.Post("/rules", campHandler.HandleCreateRule)
	campaigns.Get("/rules/:id/audience", campHandler.HandleGetAudience)
	campaigns.Post("/audience/preview", campHandler.HandlePreviewAudience)

	v1.Get("/uploads", uploadHandler.HandleRecent)
}
