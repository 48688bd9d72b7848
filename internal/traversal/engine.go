// Package traversal computes which questions are currently reachable in an
// assessment given the answers recorded so far.
//
// The question set forms a directed graph: gatekeeper questions fork on their
// gate threshold, everything else chains through its default successor. The
// walk reveals every linear question ahead of the respondent but never looks
// past an unanswered gatekeeper, because the branch taken there is unknown
// until it is answered.
package traversal

import (
	"sort"

	"github.com/calder/axial/internal/logger"
	"github.com/calder/axial/internal/models"
)

// Branch step reasons returned by NextStep.
const (
	ReasonHighPath    = "high path"
	ReasonLowPath     = "low path"
	ReasonComplete    = "complete"
	ReasonEndOfBranch = "end of branch"
)

// NextStep resolves the single successor of an answered question.
// For a gatekeeper the score is compared against the gate threshold; for an
// end-flagged question there is no successor; otherwise the default chain is
// followed. An empty next ID means the branch terminates here.
// Deterministic and side-effect free.
func NextStep(q *models.Question, score float64) (next string, reason string) {
	if q.IsGatekeeper() {
		if score >= q.GateThreshold {
			return q.NextIfHigh, ReasonHighPath
		}
		return q.NextIfLow, ReasonLowPath
	}
	if q.EndFlag {
		return "", ReasonComplete
	}
	if q.NextDefault != "" {
		return q.NextDefault, ""
	}
	return "", ReasonEndOfBranch
}

// Engine walks the question graph. It carries no state between calls; the
// logger only surfaces data-quality anomalies (dangling branch targets),
// which are skipped rather than propagated.
type Engine struct {
	log logger.Logger
}

// NewEngine creates a traversal engine. A nil logger disables anomaly logging.
func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{log: log}
}

// ReachablePath returns the ordered list of question IDs currently reachable
// given the answered scores. Domains are processed in sorted order so the
// output is stable across calls; within a domain the walk is breadth-first
// from that domain's roots.
func (e *Engine) ReachablePath(questions []models.Question, answered map[string]float64) []string {
	index := buildIndex(questions)
	rootsByDomain := findRoots(questions, index)

	domains := make([]string, 0, len(rootsByDomain))
	for domain := range rootsByDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	var path []string
	for _, domain := range domains {
		path = append(path, e.walkDomain(domain, rootsByDomain[domain], index, answered)...)
	}
	return path
}

// buildIndex maps question IDs to their records.
func buildIndex(questions []models.Question) map[string]*models.Question {
	index := make(map[string]*models.Question, len(questions))
	for i := range questions {
		index[questions[i].ID] = &questions[i]
	}
	return index
}

// findRoots returns, per domain, the sorted IDs of questions never referenced
// as a branch target by any other question. A domain whose questions all
// reference each other (a cycle) gets its lexicographically smallest ID as a
// synthetic root so the domain still surfaces.
func findRoots(questions []models.Question, index map[string]*models.Question) map[string][]string {
	referenced := make(map[string]bool)
	for i := range questions {
		q := &questions[i]
		for _, target := range []string{q.NextIfLow, q.NextIfHigh, q.NextDefault} {
			if target != "" {
				referenced[target] = true
			}
		}
	}

	byDomain := make(map[string][]string)
	roots := make(map[string][]string)
	for i := range questions {
		q := &questions[i]
		byDomain[q.Domain] = append(byDomain[q.Domain], q.ID)
		if !referenced[q.ID] {
			roots[q.Domain] = append(roots[q.Domain], q.ID)
		}
	}

	for domain, ids := range byDomain {
		if len(roots[domain]) == 0 {
			// Cycle: every question is someone's target. Fall back to the
			// smallest ID so the domain is still walkable.
			sort.Strings(ids)
			roots[domain] = []string{ids[0]}
			continue
		}
		sort.Strings(roots[domain])
	}
	return roots
}

// walkDomain runs a FIFO breadth-first walk over one domain, seeded by its
// roots. Each node is visited at most once; nodes from other domains are
// dropped rather than followed.
func (e *Engine) walkDomain(domain string, roots []string, index map[string]*models.Question, answered map[string]float64) []string {
	visited := make(map[string]bool)
	queue := append([]string(nil), roots...)

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		q, ok := index[id]
		if !ok {
			e.log.Warnf("traversal: branch target %q not in question set, skipping", id)
			continue
		}
		if visited[id] || !belongsToDomain(q, domain) {
			continue
		}
		visited[id] = true
		order = append(order, id)

		score, isAnswered := answered[id]
		if isAnswered {
			// Answered: follow the single resolved branch.
			next, _ := NextStep(q, score)
			if next != "" {
				queue = enqueueTarget(queue, next, index, e.log)
			}
			continue
		}
		if isLookaheadBoundary(q) {
			// The path past an unresolved gate is unpredictable; stop here.
			continue
		}
		// Unanswered linear step: reveal the next default question without
		// requiring an answer.
		if q.NextDefault != "" {
			queue = enqueueTarget(queue, q.NextDefault, index, e.log)
		}
	}
	return order
}

// belongsToDomain is the domain-scoped visitation rule: a node dequeued in a
// domain walk must belong to that domain.
func belongsToDomain(q *models.Question, domain string) bool {
	return q.Domain == domain
}

// isLookaheadBoundary reports whether an unanswered question blocks lookahead.
// Only gatekeepers do: their branch cannot be predicted before the answer.
func isLookaheadBoundary(q *models.Question) bool {
	return q.IsGatekeeper()
}

// enqueueTarget appends a branch target to the queue if it exists in the
// question set; dangling edges are logged and not followed.
func enqueueTarget(queue []string, target string, index map[string]*models.Question, log logger.Logger) []string {
	if _, ok := index[target]; !ok {
		log.Warnf("traversal: branch target %q not in question set, skipping", target)
		return queue
	}
	return append(queue, target)
}
