package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

// RuleTender is the tender side a checklist rule may look at.
type RuleTender struct {
	Province string
	Summary  string
}

// Rule is a named yes/no check over a profile and a tender.
type Rule interface {
	Name() string
	Evaluate(profile models.CompanyProfile, tender RuleTender) bool
}

// RuleSpec is one entry of the checklist rules file:
//
//	rules:
//	  - name: offers_road_works
//	    field: services
//	    op: icontains
//	    value: road
//	  - name: experienced
//	    field: years_experience
//	    op: gte
//	    value: "5"
//	  - name: summary_mentions_sector
//	    field: sector
//	    op: in_summary
type RuleSpec struct {
	Name  string `yaml:"name"`
	Field string `yaml:"field"`
	Op    string `yaml:"op"`
	Value string `yaml:"value"`
}

type rulesFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

var ruleOps = map[string]bool{
	"contains":   true,
	"icontains":  true,
	"equals":     true,
	"not_empty":  true,
	"gte":        true,
	"lte":        true,
	"in_summary": true,
}

var ruleFields = map[string]bool{
	"sector":           true,
	"services":         true,
	"certifications":   true,
	"coverage":         true,
	"contact":          true,
	"years_experience": true,
}

// LoadRules reads extra checklist rules from a YAML file. An empty path means no extra rules.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]Rule, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w: %v", apperrors.ErrInvalidInput, err)
	}

	seen := make(map[string]bool)
	rules := make([]Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		spec.Name = strings.TrimSpace(spec.Name)
		spec.Field = strings.ToLower(strings.TrimSpace(spec.Field))
		spec.Op = strings.ToLower(strings.TrimSpace(spec.Op))

		switch {
		case spec.Name == "":
			return nil, fmt.Errorf("rule %d has no name: %w", i, apperrors.ErrInvalidInput)
		case seen[spec.Name]:
			return nil, fmt.Errorf("duplicate rule %q: %w", spec.Name, apperrors.ErrInvalidInput)
		case !ruleFields[spec.Field]:
			return nil, fmt.Errorf("rule %q: unknown field %q: %w", spec.Name, spec.Field, apperrors.ErrInvalidInput)
		case !ruleOps[spec.Op]:
			return nil, fmt.Errorf("rule %q: unknown op %q: %w", spec.Name, spec.Op, apperrors.ErrInvalidInput)
		}

		if spec.Op == "gte" || spec.Op == "lte" {
			if _, err := strconv.Atoi(spec.Value); err != nil {
				return nil, fmt.Errorf("rule %q: value must be an integer: %w", spec.Name, apperrors.ErrInvalidInput)
			}
		}

		seen[spec.Name] = true
		rules = append(rules, specRule{spec: spec})
	}

	return rules, nil
}

type specRule struct {
	spec RuleSpec
}

func (r specRule) Name() string {
	return r.spec.Name
}

func (r specRule) Evaluate(profile models.CompanyProfile, tender RuleTender) bool {
	value := profileField(profile, r.spec.Field)

	switch r.spec.Op {
	case "contains":
		return r.spec.Value != "" && strings.Contains(value, r.spec.Value)
	case "icontains":
		return r.spec.Value != "" && strings.Contains(strings.ToLower(value), strings.ToLower(r.spec.Value))
	case "equals":
		return value == r.spec.Value
	case "not_empty":
		return strings.TrimSpace(value) != ""
	case "in_summary":
		value = strings.TrimSpace(value)
		return value != "" && strings.Contains(strings.ToLower(tender.Summary), strings.ToLower(value))
	case "gte", "lte":
		got, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		want, _ := strconv.Atoi(r.spec.Value)
		if r.spec.Op == "gte" {
			return got >= want
		}
		return got <= want
	}
	return false
}

func profileField(p models.CompanyProfile, field string) string {
	switch field {
	case "sector":
		return p.Sector
	case "services":
		return p.Services
	case "certifications":
		return p.Certifications
	case "coverage":
		return p.Coverage
	case "contact":
		return p.Contact
	case "years_experience":
		return strconv.Itoa(p.YearsExperience)
	}
	return ""
}
