package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/services"
)

// Handlers groups the endpoint handlers mounted by RegisterRoutes.
// Auth is nil when authentication is switched off.
type Handlers struct {
	Upload    *UploadHandler
	Tender    *TenderHandler
	Readiness *ReadinessHandler
	Profile   *ProfileHandler
	Workspace *WorkspaceHandler
	Auth      *AuthHandler
	Health    *HealthHandler
	OCDS      *OCDSHandler
	Analytics *AnalyticsHandler
}

// RegisterRoutes mounts every endpoint on r. authn runs before each protected
// route, followed by the plan check for that route's feature.
func RegisterRoutes(r fiber.Router, h Handlers, authn fiber.Handler, policy *services.PlanPolicy) {
	protect := func(feature services.Feature, handler fiber.Handler) []fiber.Handler {
		return []fiber.Handler{authn, RequireFeature(policy, feature), handler}
	}

	r.Get("/", handleIndex(h.Auth != nil))
	r.Get("/health", h.Health.HandleHealth)

	if h.Auth != nil {
		r.Post("/auth/register", h.Auth.HandleRegister)
		r.Post("/token", h.Auth.HandleToken)
	}

	r.Post("/upload", protect(services.FeatureUpload, h.Upload.HandleUpload)...)
	r.Get("/tenders", protect(services.FeatureTenders, h.Tender.HandleList)...)
	r.Get("/tenders/export", protect(services.FeatureExport, h.Tender.HandleExport)...)
	r.Get("/summary/:tender_id", protect(services.FeatureSummary, h.Tender.HandleSummary)...)
	r.Get("/stats", protect(services.FeatureStats, h.Tender.HandleStats)...)
	r.Post("/search", protect(services.FeatureSearch, h.Tender.HandleSearch)...)

	r.Post("/readiness/check", protect(services.FeatureReadiness, h.Readiness.HandleCheck)...)
	r.Get("/readiness/:tender_id", protect(services.FeatureReadiness, h.Readiness.HandleLatest)...)

	r.Post("/profile", protect(services.FeatureProfile, h.Profile.HandleSave)...)
	r.Get("/profile", protect(services.FeatureProfile, h.Profile.HandleGet)...)

	r.Get("/workspace", protect(services.FeatureWorkspace, h.Workspace.HandleList)...)
	r.Put("/workspace/:tender_id/status", protect(services.FeatureWorkspace, h.Workspace.HandleUpdateStatus)...)
	r.Post("/workspace/:tender_id/notes", protect(services.FeatureWorkspace, h.Workspace.HandleAddNote)...)
	r.Get("/workspace/:tender_id/notes", protect(services.FeatureWorkspace, h.Workspace.HandleNotes)...)

	r.Get("/ocds/releases", protect(services.FeatureOCDS, h.OCDS.HandleReleases)...)

	r.Get("/analytics/spend-by-buyer", protect(services.FeatureAnalytics, h.Analytics.HandleSpendByBuyer)...)
	r.Get("/analytics/enriched-releases", protect(services.FeatureAnalytics, h.Analytics.HandleEnrichedReleases)...)
}

func handleIndex(withAuth bool) fiber.Handler {
	endpoints := []string{
		"GET /health",
		"POST /upload",
		"GET /tenders",
		"GET /tenders/export",
		"GET /summary/:tender_id",
		"GET /stats",
		"POST /search",
		"POST /readiness/check",
		"GET /readiness/:tender_id",
		"POST /profile",
		"GET /profile",
		"GET /workspace",
		"PUT /workspace/:tender_id/status",
		"POST /workspace/:tender_id/notes",
		"GET /workspace/:tender_id/notes",
		"GET /ocds/releases",
		"GET /analytics/spend-by-buyer",
		"GET /analytics/enriched-releases",
	}
	if withAuth {
		endpoints = append(endpoints, "POST /auth/register", "POST /token")
	}

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Tender Insight Hub API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	}
}
