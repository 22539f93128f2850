// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"fmt"
	"math"
	"strings"

	"github.com/danielhkuo/hibah-admin/models"
)

const (
	MinScore = 0.0
	MaxScore = 100.0

	// GoodThreshold is a display cue only; it does not gate acceptance.
	GoodThreshold = 70.0
)

// Grade labels
const (
	GradeGood    = "good"
	GradeCaution = "caution"
)

var defaultRubric = []models.RubricCriterion{
	{ID: "originalitas", Label: "Originalitas dan kebaruan", Weight: 25},
	{ID: "metodologi", Label: "Ketepatan metodologi", Weight: 25},
	{ID: "kelayakan", Label: "Kelayakan rencana kerja dan anggaran", Weight: 20},
	{ID: "luaran", Label: "Luaran dan dampak", Weight: 20},
	{ID: "tim", Label: "Kualifikasi tim peneliti", Weight: 10},
}

// DefaultRubric returns a fresh copy of the standard rubric with all scores at zero.
func DefaultRubric() []models.RubricCriterion {
	return CloneRubric(defaultRubric)
}

// CloneRubric copies criteria so callers can score without sharing state.
func CloneRubric(criteria []models.RubricCriterion) []models.RubricCriterion {
	return append([]models.RubricCriterion(nil), criteria...)
}

// ClampScore forces v into [MinScore, MaxScore]. NaN becomes MinScore.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// ComputeTotal returns Σ(score × weight / 100).
func ComputeTotal(criteria []models.RubricCriterion) float64 {
	total := 0.0
	for _, c := range criteria {
		total += c.Score * c.Weight / 100
	}
	return total
}

// Round2 rounds v to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Grade returns the colour cue for a total score.
func Grade(total float64) string {
	if total >= GoodThreshold {
		return GradeGood
	}
	return GradeCaution
}

// ValidateRubric checks ids are unique and non-empty, weights lie in
// [0, 100], and weights sum to 100.
func ValidateRubric(criteria []models.RubricCriterion) error {
	if len(criteria) == 0 {
		return NewValidationError("rubric", "rubrik tidak boleh kosong")
	}

	v := &ValidationError{}
	seen := make(map[string]bool, len(criteria))
	sum := 0.0
	for i, c := range criteria {
		field := fmt.Sprintf("rubric[%d]", i)
		if strings.TrimSpace(c.ID) == "" {
			v.Add(field, "id kriteria wajib diisi")
		} else if seen[c.ID] {
			v.Add(field, "id kriteria duplikat: "+c.ID)
		}
		seen[c.ID] = true
		if c.Weight < 0 || c.Weight > 100 {
			v.Add(field, "bobot harus di antara 0 dan 100")
		}
		sum += c.Weight
	}
	if math.Abs(sum-100) > 1e-9 {
		v.Add("rubric", fmt.Sprintf("total bobot harus 100, bukan %g", sum))
	}
	return v.Err()
}

// ParseRecommendation accepts wire values ("minor_revision") and their
// spaced or camel-cased forms ("Minor Revision", "MinorRevision").
func ParseRecommendation(s string) (models.Recommendation, error) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "accepted":
		return models.RecommendAccepted, nil
	case "minorrevision":
		return models.RecommendMinorRevision, nil
	case "majorrevision":
		return models.RecommendMajorRevision, nil
	case "rejected":
		return models.RecommendRejected, nil
	case "":
		return "", NewValidationError("recommendation", "rekomendasi wajib dipilih")
	}
	return "", NewValidationError("recommendation", "rekomendasi tidak dikenal: "+s)
}

// RecommendationLabel returns the Indonesian display label.
func RecommendationLabel(r models.Recommendation) string {
	switch r {
	case models.RecommendAccepted:
		return "Diterima"
	case models.RecommendMinorRevision:
		return "Revisi Minor"
	case models.RecommendMajorRevision:
		return "Revisi Mayor"
	case models.RecommendRejected:
		return "Ditolak"
	}
	return string(r)
}
