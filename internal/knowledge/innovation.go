// Innovation evaluator — design doc component H, the gate for
// agent-proposed new tech-tree nodes.
package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/emergence/internal/ids"
)

// Verdict is the outcome of evaluating an innovation proposal.
type Verdict uint8

const (
	VerdictAccept Verdict = iota
	VerdictAlreadyExists
	VerdictReject
	VerdictNeedsEvaluation
)

// Proposal is an agent-proposed combination of known concepts into a
// new tech-tree node — design doc §4.H.
type Proposal struct {
	Proposer          ids.AgentID
	Tick              uint64
	Name              string
	Description       string
	CombinedKnowledge []string
	IntendedBenefit   string
}

// Evaluation is the result of EvaluateProposal.
type Evaluation struct {
	Verdict         Verdict
	Reason          string // set for Reject
	Context         string // set for NeedsEvaluation
	NewItem         *Item  // set for Accept
}

// combinationRule is one entry of the static combination-rule table —
// design doc §4.H step 4.
type combinationRule struct {
	Inputs      []string // sorted
	OutputID    string
	OutputName  string
	Description string
}

// combinationKey canonicalizes a set of concept ids into the
// sorted-and-joined key used for duplicate/acceptance tracking and
// combination-rule matching — design doc §4.H step 2.
func combinationKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

// combinationRules is the static table of >=10 known combinations.
var combinationRules = []combinationRule{
	{Inputs: []string{"build_campfire", "gather_food"}, OutputID: "cooking", OutputName: "Cooking",
		Description: "Applying fire to gathered food yields cooked meals."},
	{Inputs: []string{"basic_crafting", "metalworking"}, OutputID: "toolmaking", OutputName: "Toolmaking",
		Description: "Combining crafting technique with worked metal yields durable tools."},
	{Inputs: []string{"basic_construction", "basic_engineering"}, OutputID: "fortification", OutputName: "Fortification",
		Description: "Engineering principles applied to construction yield defensive works."},
	{Inputs: []string{"forage_water", "basic_shelter"}, OutputID: "irrigation", OutputName: "Irrigation",
		Description: "Channeling foraged water sources into a stable shelter site yields irrigation."},
	{Inputs: []string{"group_formation", "trade_economics"}, OutputID: "guild_system", OutputName: "Guild System",
		Description: "Organizing groups around shared trade interests yields a guild system."},
	{Inputs: []string{"governance", "social_bonding"}, OutputID: "diplomacy_craft", OutputName: "Diplomacy",
		Description: "Formal governance plus strong social bonds yields the practice of diplomacy."},
	{Inputs: []string{"architecture", "metalworking"}, OutputID: "monument_building", OutputName: "Monument Building",
		Description: "Architectural skill plus worked metal yields monumental construction."},
	{Inputs: []string{"basic_crafting", "basic_shelter"}, OutputID: "furniture_making", OutputName: "Furniture Making",
		Description: "Crafting technique applied to shelter yields furnishings."},
	{Inputs: []string{"bridge_building", "trade_economics"}, OutputID: "trade_routes", OutputName: "Trade Routes",
		Description: "Bridges plus economic organization yield formalized trade routes."},
	{Inputs: []string{"social_bonding", "basic_communication"}, OutputID: "oral_tradition", OutputName: "Oral Tradition",
		Description: "Sustained social bonds plus communication yield an oral tradition."},
	{Inputs: []string{"metalworking", "basic_engineering"}, OutputID: "machinery", OutputName: "Machinery",
		Description: "Worked metal plus engineering principles yield simple machinery."},
}

// keywordMatches reports whether name/description would duplicate an
// existing tree item by heuristic keyword match — design doc §4.H step
// 3: "exact-name / id-contained / description-contained heuristic".
func keywordMatches(t *Tree, name, description string) bool {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	lowerDesc := strings.ToLower(description)
	for _, item := range t.All() {
		if strings.EqualFold(item.Name, name) {
			return true
		}
		if lowerName != "" && strings.Contains(strings.ToLower(item.Name), lowerName) {
			return true
		}
		if lowerDesc != "" && strings.Contains(lowerDesc, strings.ToLower(item.Name)) {
			return true
		}
		if lowerDesc != "" && strings.Contains(lowerDesc, strings.ToLower(item.ID)) {
			return true
		}
	}
	return false
}

// Evaluator tracks previously accepted/proposed combination keys across
// calls, since design doc §4.H step 2 requires detecting duplicates
// against history, not just the current proposal.
type Evaluator struct {
	accepted map[string]struct{}
	proposed map[string]struct{}
}

// NewEvaluator returns an evaluator with empty history.
func NewEvaluator() *Evaluator {
	return &Evaluator{accepted: make(map[string]struct{}), proposed: make(map[string]struct{})}
}

// EvaluateProposal runs the pipeline of design doc §4.H steps 1-6.
func (e *Evaluator) EvaluateProposal(p Proposal, proposerKnown map[string]struct{}, t *Tree) Evaluation {
	// Step 1: every combined id must be known to the proposer.
	for _, id := range p.CombinedKnowledge {
		if _, ok := proposerKnown[id]; !ok {
			return Evaluation{Verdict: VerdictReject, Reason: fmt.Sprintf("proposer does not know %q", id)}
		}
	}

	key := combinationKey(p.CombinedKnowledge)

	// Step 2: duplicate detection against history.
	if _, ok := e.accepted[key]; ok {
		return Evaluation{Verdict: VerdictAlreadyExists}
	}
	if _, ok := e.proposed[key]; ok {
		return Evaluation{Verdict: VerdictReject, Reason: "duplicate proposal of an already-pending combination"}
	}
	e.proposed[key] = struct{}{}

	// Step 3: keyword match against the existing tree.
	if keywordMatches(t, p.Name, p.Description) {
		return Evaluation{Verdict: VerdictAlreadyExists}
	}

	// Step 4: exact match against the static combination-rule table.
	for _, rule := range combinationRules {
		if combinationKey(rule.Inputs) == key {
			newItem := Item{
				ID:            rule.OutputID,
				Name:          rule.OutputName,
				Era:           "innovation",
				Prerequisites: append([]string(nil), rule.Inputs...),
				Description:   rule.Description,
			}
			if err := t.Add(newItem); err != nil {
				return Evaluation{Verdict: VerdictReject, Reason: err.Error()}
			}
			e.accepted[key] = struct{}{}
			return Evaluation{Verdict: VerdictAccept, NewItem: &newItem}
		}
	}

	// Step 5: structural rejects.
	if len(p.CombinedKnowledge) < 2 {
		return Evaluation{Verdict: VerdictReject, Reason: "fewer than 2 combined knowledge items"}
	}
	for _, id := range p.CombinedKnowledge {
		if !t.Has(id) {
			return Evaluation{Verdict: VerdictReject, Reason: fmt.Sprintf("combined item %q is not in the tech tree", id)}
		}
	}

	// Step 6: defer to external adjudication.
	context := fmt.Sprintf(
		"proposer=%s tick=%d name=%q combined=%s intended_benefit=%q",
		p.Proposer, p.Tick, p.Name, key, p.IntendedBenefit,
	)
	return Evaluation{Verdict: VerdictNeedsEvaluation, Context: context}
}
