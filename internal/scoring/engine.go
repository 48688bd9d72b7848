package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/calder/axial/internal/archetype"
	"github.com/calder/axial/internal/logger"
	"github.com/calder/axial/internal/models"
	"github.com/calder/axial/internal/risk"
)

// Alpha penalty: a high-criticality question (CW above the bar) whose raw
// answer falls below its own threshold has its score cut to 30%.
const (
	alphaPenaltyCWBar  = 1.2
	alphaPenaltyFactor = 0.3
)

// Cross-axis caps. Fixed, not configurable: a reported strength is not
// credible when the axis that underpins it is weak.
const (
	capSupportFloor = 50.0 // supporting axis below this triggers the cap
	capCeiling      = 70.0 // capped axis cannot report above this
)

// Archetype classification thresholds, evaluated in order.
const (
	reactiveTrustBar    = 40.0
	sovereignTrustBar   = 80.0
	paperDragonMargin   = 10.0
	riskScaleMax        = 6.0
	insufficientDataTag = "Insufficient Data"
)

// Analyzer computes a full maturity analysis over one assessment's questions,
// responses, and evidence. It is cheap to construct per request; all methods
// are pure given the inputs.
type Analyzer struct {
	questions []models.Question
	index     map[string]*models.Question
	responses []models.Response
	evidence  map[string]float64 // question ID -> fallback confidence
	provider  archetype.Provider
	risks     *risk.Engine
	alpha     float64
	log       logger.Logger
}

// NewAnalyzer builds an analyzer. The provider may be nil (built-in
// archetypes are used) and the logger may be nil (anomalies are dropped).
func NewAnalyzer(questions []models.Question, responses []models.Response, evidence []models.EvidenceResponse, provider archetype.Provider, riskEngine *risk.Engine, log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.Nop{}
	}
	index := make(map[string]*models.Question, len(questions))
	for i := range questions {
		index[questions[i].ID] = &questions[i]
	}
	evidenceMap := make(map[string]float64, len(evidence))
	for _, ev := range evidence {
		evidenceMap[ev.QuestionID] = ev.Confidence
	}
	return &Analyzer{
		questions: questions,
		index:     index,
		responses: responses,
		evidence:  evidenceMap,
		provider:  archetype.NewCached(provider),
		risks:     riskEngine,
		alpha:     DefaultAlpha,
		log:       log,
	}
}

// SetAlpha overrides the hybrid-mean blend. Values outside (0,1] are ignored.
func (a *Analyzer) SetAlpha(alpha float64) {
	if alpha > 0 && alpha <= 1 {
		a.alpha = alpha
	}
}

// Compute runs the full analysis pipeline and returns the structured result.
// With no scorable responses it returns the "Insufficient Data" sentinel
// rather than an error: an empty assessment is a legitimate terminal state.
func (a *Analyzer) Compute(intakeTags []string) *models.AnalysisResult {
	overall := &axisAccumulator{}
	declared := &axisAccumulator{}
	verified := &axisAccumulator{}

	scored := 0
	penalties := 0
	confidenceSum := 0.0

	for i := range a.responses {
		resp := &a.responses[i]
		if resp.Deferred {
			continue
		}
		q, ok := a.index[resp.QuestionID]
		if !ok {
			a.log.Warnf("scoring: response for unknown question %q ignored", resp.QuestionID)
			continue
		}

		confidence := a.resolveConfidence(resp)
		confidenceSum += confidence

		score := resp.Score
		if q.CW > alphaPenaltyCWBar && resp.Score < q.Threshold {
			score *= alphaPenaltyFactor
			penalties++
		}
		adjusted := score * confidence

		layer := declared
		if isVerifiedTier(q.Tier) {
			layer = verified
		}
		for axis := models.Axis(0); axis < models.NumAxes; axis++ {
			pts := q.Weights[axis]
			if pts <= 0 {
				continue
			}
			weight := q.CW * pts
			overall.add(axis, adjusted, weight)
			layer.add(axis, adjusted, weight)
		}
		scored++
	}

	if scored == 0 {
		return insufficientDataResult()
	}

	axes := overall.reduce(a.alpha)
	declaredVec := declared.reduce(a.alpha)
	verifiedVec := verified.reduce(a.alpha)

	caps := applyCrossAxisCaps(&axes)

	var gap models.AxisVector
	for axis := range gap {
		gap[axis] = round1(declaredVec[axis] - verifiedVec[axis])
	}

	trust := round1(simpleMean(axes[:]))
	friction := round1(100.0 - trust)

	details := a.classifyArchetype(trust, friction, axes, scored)

	var heatmap, topRisks []models.ScenarioRisk
	if a.risks != nil {
		heatmap, topRisks = a.risks.ComputeRisks(rescaleForRisk(axes), intakeTags)
	}

	return &models.AnalysisResult{
		Archetype:        details.Name,
		ArchetypeDetails: details,
		Summary: models.AnalysisSummary{
			TrustIndex:            trust,
			FrictionScore:         friction,
			AlphaPenaltyCount:     penalties,
			EvidenceConfidenceAvg: round2(confidenceSum / float64(scored)),
		},
		Axes:           vectorScores(axes),
		DeclaredVector: vectorScores(declaredVec),
		VerifiedVector: vectorScores(verifiedVec),
		GapVector:      vectorScores(gap),
		CapsApplied:    caps,
		RiskHeatmap:    heatmap,
		TopRisks:       topRisks,
	}
}

// resolveConfidence resolves a response's evidence confidence in priority
// order: inline value, evidence table, default 1.0.
func (a *Analyzer) resolveConfidence(resp *models.Response) float64 {
	if resp.EvidenceConfidence != nil {
		return *resp.EvidenceConfidence
	}
	if confidence, ok := a.evidence[resp.QuestionID]; ok {
		return confidence
	}
	return 1.0
}

// isVerifiedTier reports whether a tier token belongs to the verified layer:
// T3/T4, any tier starting with V, or any tier mentioning VERIF.
func isVerifiedTier(tier string) bool {
	upper := strings.ToUpper(strings.TrimSpace(tier))
	if upper == "T3" || upper == "T4" {
		return true
	}
	return strings.HasPrefix(upper, "V") || strings.Contains(upper, "VERIF")
}

// applyCrossAxisCaps enforces the fixed cross-axis credibility caps on the
// overall vector, mutating it in place. Events are recorded only when a cap
// actually bound.
//
//	fatigue cap: Human below 50 caps Resilience at 70
//	shadow cap:  Visibility below 50 caps Governance at 70
func applyCrossAxisCaps(axes *models.AxisVector) []models.CapEvent {
	caps := []models.CapEvent{}

	if axes[models.AxisH] < capSupportFloor && axes[models.AxisR] > capCeiling {
		axes[models.AxisR] = capCeiling
		caps = append(caps, models.CapEvent{
			Type:   "fatigue_cap",
			Axis:   models.AxisR.Code(),
			CapTo:  capCeiling,
			Reason: "resilience claims are not credible without human-factor support",
		})
	}
	if axes[models.AxisV] < capSupportFloor && axes[models.AxisG] > capCeiling {
		axes[models.AxisG] = capCeiling
		caps = append(caps, models.CapEvent{
			Type:   "shadow_cap",
			Axis:   models.AxisG.Code(),
			CapTo:  capCeiling,
			Reason: "governance claims are not credible without visibility",
		})
	}
	return caps
}

// classifyArchetype picks the archetype for a trust/friction shape. Rules are
// ordered; the first match wins. An unknown definition falls back to Reactive
// Compliance.
func (a *Analyzer) classifyArchetype(trust, friction float64, axes models.AxisVector, scored int) models.ArchetypeDetails {
	name := models.ArchetypeResilientOptimiser
	switch {
	case trust < reactiveTrustBar:
		name = models.ArchetypeReactiveCompliance
	case friction > trust+paperDragonMargin:
		name = models.ArchetypePaperDragon
	case trust > sovereignTrustBar:
		name = models.ArchetypeCyberSovereign
	}

	defs, _ := a.provider.Definitions()
	def, ok := defs[name]
	if !ok {
		a.log.Warnf("scoring: no definition for archetype %q, falling back", name)
		name = models.ArchetypeReactiveCompliance
		def = defs[name]
	}

	coverage := 1.0
	if len(a.questions) > 0 {
		coverage = float64(scored) / float64(len(a.questions))
		if coverage > 1.0 {
			coverage = 1.0
		}
	}

	return models.ArchetypeDetails{
		ArchetypeDefinition: def,
		Rationale:           buildRationale(trust, friction, axes),
		Confidence:          round2(coverage),
	}
}

// buildRationale names the two weakest and two strongest axes and states the
// trust-versus-friction balance.
func buildRationale(trust, friction float64, axes models.AxisVector) string {
	order := make([]models.Axis, models.NumAxes)
	for i := range order {
		order[i] = models.Axis(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return axes[order[i]] < axes[order[j]]
	})

	weakest := order[:2]
	strongest := []models.Axis{order[len(order)-1], order[len(order)-2]}

	balance := "trust outweighs friction"
	if friction > trust {
		balance = "friction outweighs trust"
	}

	return fmt.Sprintf("Weakest axes: %s (%.1f), %s (%.1f). Strongest axes: %s (%.1f), %s (%.1f). Trust index %.1f against friction score %.1f: %s.",
		weakest[0].Name(), axes[weakest[0]],
		weakest[1].Name(), axes[weakest[1]],
		strongest[0].Name(), axes[strongest[0]],
		strongest[1].Name(), axes[strongest[1]],
		trust, friction, balance)
}

// rescaleForRisk maps 0-100 axis percentages onto the 0-6 scale the risk
// engine consumes, clamped to the scale bounds.
func rescaleForRisk(axes models.AxisVector) models.AxisVector {
	var out models.AxisVector
	for axis, pct := range axes {
		v := pct / 100.0 * riskScaleMax
		if v < 0 {
			v = 0
		}
		if v > riskScaleMax {
			v = riskScaleMax
		}
		out[axis] = v
	}
	return out
}

// vectorScores relabels an axis vector with human names for presentation.
func vectorScores(vec models.AxisVector) []models.AxisScore {
	scores := make([]models.AxisScore, 0, models.NumAxes)
	for axis := models.Axis(0); axis < models.NumAxes; axis++ {
		scores = append(scores, models.AxisScore{
			Axis:  axis.Name(),
			Code:  axis.Code(),
			Score: vec[axis],
		})
	}
	return scores
}

// simpleMean is the unweighted mean used for the trust index.
func simpleMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// insufficientDataResult is the fixed sentinel returned when no scorable
// responses exist.
func insufficientDataResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Archetype: insufficientDataTag,
		ArchetypeDetails: models.ArchetypeDetails{
			ArchetypeDefinition: models.ArchetypeDefinition{
				Name:        insufficientDataTag,
				Description: "Not enough answered questions to compute a maturity profile.",
			},
		},
		Axes:             []models.AxisScore{},
		DeclaredVector:   []models.AxisScore{},
		VerifiedVector:   []models.AxisScore{},
		GapVector:        []models.AxisScore{},
		CapsApplied:      []models.CapEvent{},
		RiskHeatmap:      []models.ScenarioRisk{},
		TopRisks:         []models.ScenarioRisk{},
		InsufficientData: true,
	}
}
