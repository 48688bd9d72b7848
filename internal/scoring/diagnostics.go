package scoring

import (
	"strings"

	"github.com/calder/axial/internal/models"
)

// The cheap diagnostic variants below use plain percent-of-maximum scoring
// instead of the hybrid mean. They exist to give an early maturity signal
// before enough data exists for a full analysis.

// KickstartDiagnostic scores only the tier-T1 gatekeeper questions: the
// gating backbone of the assessment. Returns a 0-100 readiness value with a
// per-axis breakdown over the axes those questions load onto.
func KickstartDiagnostic(questions []models.Question, responses []models.Response) *models.DiagnosticResult {
	gating := make(map[string]*models.Question)
	for i := range questions {
		q := &questions[i]
		if strings.EqualFold(strings.TrimSpace(q.Tier), "T1") && q.IsGatekeeper() {
			gating[q.ID] = q
		}
	}
	return percentOfMax(gating, responses, len(gating))
}

// SoftVector scores every non-deferred response with percent-of-maximum
// aggregation across the full question set.
func SoftVector(questions []models.Question, responses []models.Response) *models.DiagnosticResult {
	index := make(map[string]*models.Question, len(questions))
	for i := range questions {
		index[questions[i].ID] = &questions[i]
	}
	return percentOfMax(index, responses, len(questions))
}

// percentOfMax sums achieved scores against the maximum achievable
// (internalScaleMax per answered question), overall and per axis. Axes are
// attributed wherever a question loads positively.
func percentOfMax(index map[string]*models.Question, responses []models.Response, considered int) *models.DiagnosticResult {
	totalAchieved := 0.0
	totalPossible := 0.0

	var axisAchieved, axisPossible models.AxisVector
	answered := 0

	for i := range responses {
		resp := &responses[i]
		if resp.Deferred {
			continue
		}
		q, ok := index[resp.QuestionID]
		if !ok {
			continue
		}

		answered++
		totalAchieved += resp.Score
		totalPossible += internalScaleMax

		for axis := models.Axis(0); axis < models.NumAxes; axis++ {
			if q.Weights[axis] <= 0 {
				continue
			}
			axisAchieved[axis] += resp.Score
			axisPossible[axis] += internalScaleMax
		}
	}

	var axes models.AxisVector
	for axis := range axes {
		if axisPossible[axis] > 0 {
			axes[axis] = round1(axisAchieved[axis] / axisPossible[axis] * 100.0)
		}
	}

	overall := 0.0
	if totalPossible > 0 {
		overall = round1(totalAchieved / totalPossible * 100.0)
	}

	return &models.DiagnosticResult{
		Overall:   overall,
		Axes:      vectorScores(axes),
		Questions: considered,
		Answered:  answered,
	}
}
