package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"lavapop_analytics/internal/api/router"
	"lavapop_analytics/internal/common"
	"lavapop_analytics/internal/logger"
)

// initFiberApp monta o app Fiber com o stack de middleware e as rotas.
func (a *app) initFiberApp() *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:       "Lavapop Analytics API",
		ServerHeader:  "Lavapop Analytics API",
		StrictRouting: false,
		CaseSensitive: true,
		BodyLimit:     10 * 1024 * 1024,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := common.MsgInternalError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			logger.GetErrorLogger().WithField("path", c.Path()).
				WithField("status", code).
				Error(message)
			return c.Status(code).JSON(fiber.Map{
				"code":    code,
				"message": message,
				"status":  "error",
			})
		},
	})

	// Request ID para rastreio
	fiberApp.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.NewString()
		},
	}))

	// CORS antes do resto para atender preflight
	var allowOrigins []string
	if a.cfg.CORS_Origins == "*" {
		allowOrigins = []string{"*"}
	} else {
		allowOrigins = strings.Split(a.cfg.CORS_Origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: a.cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	if a.cfg.RateLimit_Enabled && a.cfg.RateLimit_Max > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        a.cfg.RateLimit_Max,
			Expiration: time.Duration(a.cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.StatusTooManyRequests,
					"message": "Muitas requisições, tente novamente em instantes",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/health" || c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting ativo: %d requisições por %ds", a.cfg.RateLimit_Max, a.cfg.RateLimit_Window)
	}

	fiberApp.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	fiberApp.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := fiberApp.Group("/api/v1")
	router.Register(v1, a.store, a.dashboard, a.campaigns)

	return fiberApp
}
