package services

import "tenderhub/insight-api/internal/models"

type Feature string

const (
	FeatureUpload    Feature = "upload"
	FeatureTenders   Feature = "tenders"
	FeatureSummary   Feature = "summary"
	FeatureStats     Feature = "stats"
	FeatureProfile   Feature = "profile"
	FeatureReadiness Feature = "readiness"
	FeatureWorkspace Feature = "workspace"
	FeatureSearch    Feature = "search"
	FeatureExport    Feature = "export"
	FeatureOCDS      Feature = "ocds"
	FeatureAnalytics Feature = "analytics"
)

var planFeatures = map[models.Plan][]Feature{
	models.PlanFree:  {FeatureUpload, FeatureTenders, FeatureSummary, FeatureStats, FeatureProfile},
	models.PlanBasic: {FeatureReadiness, FeatureWorkspace, FeatureSearch},
	models.PlanPro:   {FeatureExport, FeatureOCDS, FeatureAnalytics},
}

// planOrder lists plans cheapest first; each plan includes everything below it.
var planOrder = []models.Plan{models.PlanFree, models.PlanBasic, models.PlanPro}

// PlanPolicy decides which features a plan may use. A disabled policy allows everything.
type PlanPolicy struct {
	enabled bool
	allowed map[models.Plan]map[Feature]bool
}

func NewPlanPolicy(enabled bool) *PlanPolicy {
	allowed := make(map[models.Plan]map[Feature]bool, len(planOrder))
	acc := make(map[Feature]bool)
	for _, plan := range planOrder {
		for _, f := range planFeatures[plan] {
			acc[f] = true
		}
		set := make(map[Feature]bool, len(acc))
		for f := range acc {
			set[f] = true
		}
		allowed[plan] = set
	}
	return &PlanPolicy{enabled: enabled, allowed: allowed}
}

func (p *PlanPolicy) Allows(plan models.Plan, feature Feature) bool {
	if p == nil || !p.enabled {
		return true
	}
	return p.allowed[plan][feature]
}

// MinimumPlan names the cheapest plan that includes the feature.
func (p *PlanPolicy) MinimumPlan(feature Feature) models.Plan {
	for _, plan := range planOrder {
		if p.allowed[plan][feature] {
			return plan
		}
	}
	return models.PlanPro
}
