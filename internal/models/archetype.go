package models

// ArchetypeDefinition describes one behavioral archetype a respondent can be
// classified into.
type ArchetypeDefinition struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	PeerComparison string   `json:"peer_comparison"`
}

// The built-in archetype names, in classification precedence order.
const (
	ArchetypeReactiveCompliance = "Reactive Compliance"
	ArchetypePaperDragon        = "Paper Dragon"
	ArchetypeCyberSovereign     = "Cyber Sovereign"
	ArchetypeResilientOptimiser = "Resilient Optimiser"
)
