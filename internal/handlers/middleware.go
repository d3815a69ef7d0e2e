package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/services"
)

const principalKey = "principal"

// Authenticate resolves the caller from a bearer token. When enabled is false
// every request runs as an anonymous principal on defaultPlan.
func Authenticate(auth services.AuthService, enabled bool, defaultPlan models.Plan) fiber.Handler {
	if !defaultPlan.Valid() {
		defaultPlan = models.PlanFree
	}

	return func(c *fiber.Ctx) error {
		if !enabled {
			c.Locals(principalKey, services.Anonymous(defaultPlan))
			return c.Next()
		}

		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return fmt.Errorf("missing bearer token: %w", apperrors.ErrUnauthorized)
		}

		principal, err := auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireFeature rejects callers whose plan does not include feature.
func RequireFeature(policy *services.PlanPolicy, feature services.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if !policy.Allows(principal.Plan, feature) {
			return fmt.Errorf("%s requires the %s plan: %w", feature, policy.MinimumPlan(feature), apperrors.ErrForbidden)
		}
		return c.Next()
	}
}

// PrincipalFrom returns the caller set by Authenticate, or an anonymous free-plan
// principal when the route is not authenticated.
func PrincipalFrom(c *fiber.Ctx) *services.Principal {
	if p, ok := c.Locals(principalKey).(*services.Principal); ok && p != nil {
		return p
	}
	return services.Anonymous(models.PlanFree)
}
