// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"errors"
	"math"
	"testing"

	"github.com/danielhkuo/hibah-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTransition(t *testing.T) {
	all := []models.ProposalStatus{
		models.StatusSubmitted, models.StatusAdminApproved, models.StatusAdminRejected,
		models.StatusUnderReview, models.StatusReviewComplete,
	}
	actions := []Action{ActionApproveAdmin, ActionRejectAdmin, ActionAssignReviewers, ActionCompleteReview}

	legal := map[models.ProposalStatus]map[Action]models.ProposalStatus{
		models.StatusSubmitted: {
			ActionApproveAdmin: models.StatusAdminApproved,
			ActionRejectAdmin:  models.StatusAdminRejected,
		},
		models.StatusAdminApproved: {ActionAssignReviewers: models.StatusUnderReview},
		models.StatusUnderReview: {
			ActionAssignReviewers: models.StatusUnderReview,
			ActionCompleteReview:  models.StatusReviewComplete,
		},
	}

	for _, from := range all {
		for _, a := range actions {
			t.Run(string(from)+"/"+string(a), func(t *testing.T) {
				to, err := Transition(from, a)
				want, ok := legal[from][a]
				if ok {
					require.NoError(t, err)
					assert.Equal(t, want, to)
					return
				}
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrIllegalTransition))
				assert.Equal(t, from, to, "illegal transition must leave status unchanged")
			})
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusAdminRejected))
	assert.True(t, IsTerminal(models.StatusReviewComplete))
	assert.False(t, IsTerminal(models.StatusSubmitted))
	assert.False(t, IsTerminal(models.StatusUnderReview))
	assert.False(t, IsTerminal(models.ProposalStatus("bogus")))
}

func TestEligibleForAssignment(t *testing.T) {
	assert.True(t, EligibleForAssignment(models.StatusAdminApproved))
	assert.True(t, EligibleForAssignment(models.StatusUnderReview))
	assert.False(t, EligibleForAssignment(models.StatusSubmitted))
	assert.False(t, EligibleForAssignment(models.StatusReviewComplete))
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{"", StageScreening, false},
		{"screening", StageScreening, false},
		{" Plotting ", StagePlotting, false},
		{"review", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStage(tt.in)
			if tt.wantErr {
				_, ok := AsValidation(err)
				assert.True(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByStage(t *testing.T) {
	proposals := []models.Proposal{
		{ID: "1", Title: "Deteksi Banjir Berbasis IoT", Ketua: "Siti Rahma", Skema: "Penelitian Dasar", Status: models.StatusSubmitted},
		{ID: "2", Title: "Pemberdayaan UMKM", Ketua: "Budi", Skema: "Pengabdian Masyarakat", Status: models.StatusAdminRejected},
		{ID: "3", Title: "Vaksin Ternak", Ketua: "Andi", Skema: "Penelitian Terapan", Status: models.StatusAdminApproved},
		{ID: "4", Title: "Energi Surya", Ketua: "Rina", Skema: "Penelitian Dasar", Status: models.StatusUnderReview},
		{ID: "5", Title: "Selesai", Ketua: "Dewi", Skema: "Penelitian Dasar", Status: models.StatusReviewComplete},
	}

	ids := func(ps []models.Proposal) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		stage  Stage
		search string
		want   []string
	}{
		{"screening all", StageScreening, "", []string{"1", "2"}},
		{"plotting all", StagePlotting, "", []string{"3", "4"}},
		{"search title case-insensitive", StageScreening, "banjir", []string{"1"}},
		{"search PI", StagePlotting, "RINA", []string{"4"}},
		{"search scheme", StagePlotting, "terapan", []string{"3"}},
		{"search across stage", StageScreening, "penelitian dasar", []string{"1"}},
		{"no match", StagePlotting, "xyz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterByStage(proposals, tt.stage, tt.search)))
		})
	}
}

func TestNewAssignment(t *testing.T) {
	tests := []struct {
		name      string
		r1, r2    *string
		wantField string
		want      []string
	}{
		{"both absent", nil, nil, "reviewer1_id", nil},
		{"both blank", strPtr(" "), strPtr(""), "reviewer1_id", nil},
		{"same reviewer", strPtr("R1"), strPtr("R1"), "reviewer2_id", nil},
		{"only first", strPtr("R1"), nil, "", []string{"R1"}},
		{"only second", nil, strPtr("R2"), "", []string{"R2"}},
		{"two distinct", strPtr("R1"), strPtr("R2"), "", []string{"R1", "R2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAssignment(tt.r1, tt.r2)
			if tt.wantField != "" {
				v, ok := AsValidation(err)
				require.True(t, ok, "expected validation error, got %v", err)
				assert.Contains(t, v.Fields, tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.IDs())
		})
	}
}

func TestAssignmentRequest(t *testing.T) {
	req := Assignment{Reviewer2ID: "R2"}.Request()
	assert.Nil(t, req.Reviewer1ID)
	require.NotNil(t, req.Reviewer2ID)
	assert.Equal(t, "R2", *req.Reviewer2ID)
}

func TestCheckQuota(t *testing.T) {
	pool := []models.Reviewer{
		{ID: "R1", Name: "Dr. Ani", Quota: 2},
		{ID: "R2", Name: "Dr. Bayu", Quota: 0},
	}

	t.Run("new reviewer with quota", func(t *testing.T) {
		assert.NoError(t, CheckQuota(models.Proposal{}, Assignment{Reviewer1ID: "R1"}, pool))
	})
	t.Run("new reviewer without quota", func(t *testing.T) {
		err := CheckQuota(models.Proposal{}, Assignment{Reviewer1ID: "R1", Reviewer2ID: "R2"}, pool)
		assert.ErrorIs(t, err, ErrQuotaExhausted)
	})
	t.Run("already assigned reviewer is not charged again", func(t *testing.T) {
		current := models.Proposal{Reviewer2ID: strPtr("R2")}
		assert.NoError(t, CheckQuota(current, Assignment{Reviewer1ID: "R1", Reviewer2ID: "R2"}, pool))
	})
	t.Run("unknown reviewer", func(t *testing.T) {
		err := CheckQuota(models.Proposal{}, Assignment{Reviewer2ID: "R9"}, pool)
		v, ok := AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, v.Fields, "reviewer2_id")
	})
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-10, 0},
		{150, 100},
		{55, 55},
		{0, 0},
		{100, 100},
		{99.5, 99.5},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampScore(tt.in), "ClampScore(%v)", tt.in)
	}
}

func TestComputeTotal(t *testing.T) {
	criteria := []models.RubricCriterion{
		{ID: "a", Weight: 20, Score: 80},
		{ID: "b", Weight: 30, Score: 60},
		{ID: "c", Weight: 50, Score: 90},
	}
	assert.Equal(t, 79.0, Round2(ComputeTotal(criteria)))

	assert.Equal(t, 0.0, ComputeTotal(DefaultRubric()))
	assert.Equal(t, 0.0, ComputeTotal(nil))
}

func TestComputeTotal_Linear(t *testing.T) {
	base := []models.RubricCriterion{
		{ID: "a", Weight: 40, Score: 50},
		{ID: "b", Weight: 60, Score: 70},
	}
	doubled := CloneRubric(base)
	for i := range doubled {
		doubled[i].Score *= 2
	}
	assert.InDelta(t, 2*ComputeTotal(base), ComputeTotal(doubled), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 83.33, Round2(83.3333))
	assert.Equal(t, 66.67, Round2(66.6666))
	assert.Equal(t, 70.0, Round2(70))
}

func TestGrade(t *testing.T) {
	assert.Equal(t, GradeGood, Grade(70))
	assert.Equal(t, GradeGood, Grade(99))
	assert.Equal(t, GradeCaution, Grade(69.99))
}

func TestDefaultRubric(t *testing.T) {
	r := DefaultRubric()
	require.NoError(t, ValidateRubric(r))

	r[0].Score = 90
	assert.Equal(t, 0.0, DefaultRubric()[0].Score, "DefaultRubric must return a fresh copy")
}

func TestValidateRubric(t *testing.T) {
	tests := []struct {
		name     string
		criteria []models.RubricCriterion
		wantErr  bool
	}{
		{"empty", nil, true},
		{"sum below 100", []models.RubricCriterion{{ID: "a", Weight: 40}, {ID: "b", Weight: 50}}, true},
		{"duplicate id", []models.RubricCriterion{{ID: "a", Weight: 50}, {ID: "a", Weight: 50}}, true},
		{"blank id", []models.RubricCriterion{{ID: "", Weight: 100}}, true},
		{"weight out of range", []models.RubricCriterion{{ID: "a", Weight: 120}, {ID: "b", Weight: -20}}, true},
		{"valid", []models.RubricCriterion{{ID: "a", Weight: 33.5}, {ID: "b", Weight: 66.5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRubric(tt.criteria)
			if tt.wantErr {
				_, ok := AsValidation(err)
				assert.True(t, ok)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Recommendation
		wantErr bool
	}{
		{"accepted", models.RecommendAccepted, false},
		{"Accepted", models.RecommendAccepted, false},
		{"MinorRevision", models.RecommendMinorRevision, false},
		{"major_revision", models.RecommendMajorRevision, false},
		{"Major Revision", models.RecommendMajorRevision, false},
		{"rejected", models.RecommendRejected, false},
		{"", "", true},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRecommendation(tt.in)
			if tt.wantErr {
				v, ok := AsValidation(err)
				require.True(t, ok)
				assert.Contains(t, v.Fields, "recommendation")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationError(t *testing.T) {
	var v ValidationError
	assert.NoError(t, v.Err())

	v.Add("nama", "wajib diisi")
	v.Add("email", "format tidak valid")
	v.Add("nama", "terlalu pendek")
	assert.Equal(t, "validation failed: email: format tidak valid; nama: wajib diisi, terlalu pendek", v.Error())

	wrapped := errors.Join(errors.New("context"), v.Err())
	got, ok := AsValidation(wrapped)
	require.True(t, ok)
	assert.Len(t, got.Fields, 2)
}
