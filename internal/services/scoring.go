package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"tenderhub/insight-api/internal/models"
)

const (
	RecommendationSuitable    = "Suitable — low competition expected"
	RecommendationNotSuitable = "Not Suitable"

	CheckCertification = "has_required_certification"
	CheckProvince      = "operates_in_province"

	DefaultScoreThreshold      = 70
	DefaultCertificationMarker = "CIDB"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

type ScoringOptions struct {
	Threshold           int
	CertificationMarker string
}

// ScoringEngine turns a tender summary and a company profile into a readiness
// score, a checklist and a recommendation. It holds no mutable state.
type ScoringEngine struct {
	threshold int
	marker    string
	rules     []Rule
}

func NewScoringEngine(opts ScoringOptions, rules ...Rule) *ScoringEngine {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultScoreThreshold
	}
	return &ScoringEngine{
		threshold: opts.Threshold,
		marker:    opts.CertificationMarker,
		rules:     rules,
	}
}

// Score is deterministic for the same inputs. An empty summary scores 0.
func (e *ScoringEngine) Score(summary, province string, profile models.CompanyProfile) models.ReadinessResult {
	score := int(math.Round(Similarity(summary, profile.MatchText()) * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	checklist := map[string]bool{
		CheckCertification: e.marker != "" && strings.Contains(profile.Certifications, e.marker),
		CheckProvince:      province != "" && strings.Contains(profile.Coverage, province),
	}

	tender := RuleTender{Province: province, Summary: summary}
	for _, rule := range e.rules {
		checklist[rule.Name()] = rule.Evaluate(profile, tender)
	}

	recommendation := RecommendationNotSuitable
	if score > e.threshold {
		recommendation = RecommendationSuitable
	}

	return models.ReadinessResult{
		Score:          score,
		Checklist:      checklist,
		Recommendation: recommendation,
		Profile:        profile,
		CheckedAt:      time.Now().UTC(),
	}
}

func (e *ScoringEngine) Threshold() int {
	return e.threshold
}

// Similarity is the cosine similarity of the two texts' TF-IDF vectors, fitted
// over just these two documents. Either text without tokens yields 0.
func Similarity(a, b string) float64 {
	docs := [][]string{tokenize(a), tokenize(b)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		counts := make(map[string]int, len(doc))
		for _, term := range doc {
			counts[term]++
		}

		vec := make([]float64, len(vocab))
		for j, term := range vocab {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			vec[j] = float64(counts[term]) * idf
		}
		vectors[i] = normalize(vec)
	}

	sim := 0.0
	for j := range vocab {
		sim += vectors[0][j] * vectors[1][j]
	}

	if math.IsNaN(sim) || sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
