package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/services"
)

const healthTimeout = 3 * time.Second

// HealthCheck pings one backing store.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	summarizer services.Summarizer
	checks     map[string]HealthCheck
	log        *zap.Logger
}

func NewHealthHandler(summarizer services.Summarizer, checks map[string]HealthCheck, log *zap.Logger) *HealthHandler {
	return &HealthHandler{summarizer: summarizer, checks: checks, log: logger.OrNop(log)}
}

// HandleHealth handles GET /health. Stores are pinged concurrently; any failure
// reports the service as degraded with 503.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		stores = make(map[string]string, len(h.checks))
		g      errgroup.Group
	)
	for name, check := range h.checks {
		g.Go(func() error {
			state := "ok"
			if err := check(ctx); err != nil {
				h.log.Warn("health check failed", zap.String("store", name), zap.Error(err))
				state = "unavailable"
			}
			mu.Lock()
			stores[name] = state
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	resp := models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: h.summarizer.ModelLoaded(),
		Model:       h.summarizer.ModelName(),
		Stores:      stores,
		Time:        time.Now().UTC(),
	}

	code := fiber.StatusOK
	for _, state := range stores {
		if state != "ok" {
			resp.Status = "degraded"
			code = fiber.StatusServiceUnavailable
			break
		}
	}

	return c.Status(code).JSON(resp)
}
