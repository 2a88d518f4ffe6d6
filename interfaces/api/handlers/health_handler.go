package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/scheduler"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const healthTimeout = 3 * time.Second

type HealthHandler struct {
	appName   string
	checks    map[string]HealthCheck
	scheduler scheduler.EventScheduler
}

func NewHealthHandler(appName string, checks map[string]HealthCheck, sched scheduler.EventScheduler) *HealthHandler {
	return &HealthHandler{
		appName:   appName,
		checks:    checks,
		scheduler: sched,
	}
}

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health pings every registered dependency. Any failing check turns the
// answer into a 503.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	healthy := true
	components := make(map[string]componentStatus, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthy = false
			components[name] = componentStatus{Status: "down", Error: err.Error()}
			logger.WarnContext(ctx, "Health check failed", "component", name, "error", err)
			continue
		}
		components[name] = componentStatus{Status: "up"}
	}

	data := fiber.Map{
		"service":    h.appName,
		"components": components,
		"time":       time.Now().UTC(),
	}
	if h.scheduler != nil {
		data["scheduler"] = fiber.Map{
			"running": h.scheduler.IsRunning(),
			"jobs":    h.jobs(),
		}
	}

	if !healthy {
		// Respond drops data on failures, so the report goes out directly
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.Response{
			Success: false,
			Message: "Service degraded",
			Data:    data,
		})
	}
	return utils.SuccessResponse(c, data, "Server is running")
}

func (h *HealthHandler) jobs() []*scheduler.JobInfo {
	infos := h.scheduler.ListJobs()
	out := make([]*scheduler.JobInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.Map{
		"service": h.appName,
		"version": "1.0.0",
		"docs":    "/api/v1",
		"health":  "/health",
	}, "Welcome to "+h.appName)
}
