package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/insight-api/internal/models"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "road construction gauteng", b: "road construction gauteng", want: 1},
		{name: "case insensitive", a: "Road Construction", b: "road construction", want: 1},
		{name: "proportional counts", a: "road road bridge bridge", b: "road bridge", want: 1},
		{name: "disjoint", a: "road construction", b: "catering services", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "one empty", a: "road works", b: "", want: 0},
		{name: "single letters only", a: "a b c", b: "a b c", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityPartialOverlap(t *testing.T) {
	sim := Similarity("construction of roads in gauteng", "road construction company gauteng")
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
	assert.InDelta(t, sim, Similarity("road construction company gauteng", "construction of roads in gauteng"), 1e-12)
}

func TestScoreRequiredScenario(t *testing.T) {
	engine := NewScoringEngine(ScoringOptions{Threshold: 70, CertificationMarker: "CIDB"})
	profile := models.CompanyProfile{
		Sector:         "Construction",
		Services:       "road construction and maintenance",
		Certifications: "CIDB Grade 7, ISO 9001",
		Coverage:       "Gauteng, Limpopo",
	}

	result := engine.Score("Construction and maintenance of provincial roads in Gauteng. CIDB grade 7 required.", "Gauteng", profile)
	assert.True(t, result.Checklist[CheckCertification])
	assert.True(t, result.Checklist[CheckProvince])
	assert.Greater(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Equal(t, profile, result.Profile)
}

func TestScoreChecklistMisses(t *testing.T) {
	engine := NewScoringEngine(ScoringOptions{CertificationMarker: "CIDB"})
	profile := models.CompanyProfile{Certifications: "cidb lowercase", Coverage: "Western Cape"}

	result := engine.Score("summary", "Gauteng", profile)
	assert.False(t, result.Checklist[CheckCertification], "marker match is case sensitive")
	assert.False(t, result.Checklist[CheckProvince])

	result = engine.Score("summary", "", models.CompanyProfile{Coverage: "Gauteng"})
	assert.False(t, result.Checklist[CheckProvince], "unknown province never matches")

	noMarker := NewScoringEngine(ScoringOptions{})
	result = noMarker.Score("summary", "", models.CompanyProfile{Certifications: "anything"})
	assert.False(t, result.Checklist[CheckCertification])
}

func TestScoreEmptySummary(t *testing.T) {
	engine := NewScoringEngine(ScoringOptions{CertificationMarker: "CIDB"})

	result := engine.Score("", "Gauteng", models.CompanyProfile{Services: "roads", Certifications: "CIDB", Coverage: "Gauteng"})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, RecommendationNotSuitable, result.Recommendation)

	result = engine.Score("", "", models.CompanyProfile{})
	assert.Equal(t, 0, result.Score)
}

func TestScoreRecommendationThreshold(t *testing.T) {
	profile := models.CompanyProfile{Services: "road construction", Certifications: "CIDB", Coverage: "gauteng"}
	summary := profile.MatchText()

	result := NewScoringEngine(ScoringOptions{Threshold: 70}).Score(summary, "", profile)
	require.Equal(t, 100, result.Score)
	assert.Equal(t, RecommendationSuitable, result.Recommendation)

	result = NewScoringEngine(ScoringOptions{Threshold: 100}).Score(summary, "", profile)
	assert.Equal(t, RecommendationNotSuitable, result.Recommendation, "score must exceed the threshold")
}

func TestScoreAlwaysInRange(t *testing.T) {
	engine := NewScoringEngine(ScoringOptions{})
	texts := []string{"", "a", "road", "road works in gauteng", "CIDB CIDB CIDB", "123 456", "x_y z_w", "Lorem ipsum dolor sit amet."}

	for _, a := range texts {
		for _, b := range texts {
			result := engine.Score(a, "", models.CompanyProfile{Services: b})
			assert.GreaterOrEqual(t, result.Score, 0)
			assert.LessOrEqual(t, result.Score, 100)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	engine := NewScoringEngine(ScoringOptions{CertificationMarker: "CIDB"})
	profile := models.CompanyProfile{Services: "cleaning services", Certifications: "CIDB", Coverage: "KwaZulu-Natal"}

	first := engine.Score("Cleaning services for clinics in KwaZulu-Natal", "KwaZulu-Natal", profile)
	second := engine.Score("Cleaning services for clinics in KwaZulu-Natal", "KwaZulu-Natal", profile)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Checklist, second.Checklist)
	assert.Equal(t, first.Recommendation, second.Recommendation)
}

func TestScoreRunsExtraRules(t *testing.T) {
	rules, err := ParseRules([]byte(`
rules:
  - name: experienced
    field: years_experience
    op: gte
    value: "5"
`))
	require.NoError(t, err)

	engine := NewScoringEngine(ScoringOptions{}, rules...)
	result := engine.Score("summary", "", models.CompanyProfile{YearsExperience: 7})
	assert.True(t, result.Checklist["experienced"])
	assert.Len(t, result.Checklist, 3)
}
