// Package feasibility evaluates freeform agent actions -- proposals that
// do not come from a fixed action catalog -- before the world engine
// executes them. Grounded on the teacher's internal/agents decision
// pipeline style and on the original simulation's feasibility.rs. The
// pipeline runs, in order: physical-plausibility rejection, category
// mapping to a known action type, location and target checks, an energy
// check, and parameter resolution. Known categories resolve to a
// ResolvedAction; unrecognized ones fall through to NeedsEvaluation so an
// external judge can decide; physically impossible ones are rejected
// outright.
package feasibility

import (
	"fmt"
	"strings"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// ActionType is a concrete, executable action kind a freeform proposal
// can resolve to.
type ActionType uint8

const (
	ActionSteal ActionType = iota
	ActionAttack
	ActionIntimidate
	ActionPropose
	ActionVote
	ActionMarry
	ActionDivorce
	ActionConspire
	ActionPray
	ActionGather
	ActionEat
	ActionDrink
	ActionRest
	ActionMove
	ActionBuild
	ActionRepair
	ActionDemolish
	ActionTeach
	ActionTradeOffer
	ActionCommunicate
	ActionBroadcast
	ActionMine
	ActionCraft
	ActionSmelt
	ActionWrite
	ActionRead
	ActionClaim
	ActionLegislate
	ActionEnforce
	ActionReproduce
	ActionFarmPlant
	ActionFarmHarvest
)

// energyCost holds the per-10000-free energy price of each action type.
// Mirrors the original's actions::costs::energy_cost table.
var energyCost = map[ActionType]uint32{
	ActionSteal:       15,
	ActionAttack:      20,
	ActionIntimidate:  10,
	ActionPropose:     5,
	ActionVote:        2,
	ActionMarry:       10,
	ActionDivorce:     10,
	ActionConspire:    8,
	ActionPray:        5,
	ActionGather:      10,
	ActionEat:         2,
	ActionDrink:       2,
	ActionRest:        0,
	ActionMove:        5,
	ActionBuild:       25,
	ActionRepair:      15,
	ActionDemolish:    15,
	ActionTeach:       10,
	ActionTradeOffer:  5,
	ActionCommunicate: 3,
	ActionBroadcast:   8,
	ActionMine:        20,
	ActionCraft:       15,
	ActionSmelt:       20,
	ActionWrite:       5,
	ActionRead:        3,
	ActionClaim:       10,
	ActionLegislate:   15,
	ActionEnforce:     15,
	ActionReproduce:   30,
	ActionFarmPlant:   10,
	ActionFarmHarvest: 10,
}

// EnergyCost returns the energy price of performing at, matching the
// cost table used by the standard action pipeline.
func EnergyCost(at ActionType) uint32 { return energyCost[at] }

// TargetKind distinguishes what an ActionTarget refers to.
type TargetKind uint8

const (
	TargetAgent TargetKind = iota
	TargetStructure
	TargetGroup
	TargetLocation
)

// ActionTarget names the entity a freeform action is directed at, if any.
type ActionTarget struct {
	Kind      TargetKind
	AgentID   ids.AgentID
	Structure ids.StructureID
	Group     ids.GroupID
	Location  ids.LocationID
}

// FreeformAction is an agent's natural-language action proposal, plus
// whatever structured hints it was parsed with.
type FreeformAction struct {
	Intent         string
	ActionCategory string
	Target         *ActionTarget
	Parameters     map[string]any
}

// ResolvedAction is a freeform action resolved to a concrete type and
// its extracted parameters.
type ResolvedAction struct {
	ActionType ActionType
	Parameters map[string]any
}

// ResultKind distinguishes the three shapes an evaluation can produce.
type ResultKind uint8

const (
	ResultFeasible ResultKind = iota
	ResultInfeasible
	ResultNeedsEvaluation
)

// Result is the outcome of evaluating a freeform action.
type Result struct {
	Kind       ResultKind
	Resolved   ResolvedAction
	EnergyCost uint32
	Reason     string // set when Kind == ResultInfeasible
	Context    string // set when Kind == ResultNeedsEvaluation
}

// AgentSnapshot is the subset of agent state the evaluator needs.
type AgentSnapshot struct {
	AgentID ids.AgentID
	Energy  fixedpoint.Decimal
}

// Context assembles the world-state facts the evaluator consults:
// who else is co-located, what resources and structures are present,
// and which groups the acting agent belongs to.
type Context struct {
	AgentID             ids.AgentID
	LocationID          ids.LocationID
	LocationResourceCount int
	AgentsAtLocation    []ids.AgentID
	StructuresAtLocation []ids.StructureID
	AgentGroups         []ids.GroupID
}

func (c Context) hasAgent(id ids.AgentID) bool {
	for _, a := range c.AgentsAtLocation {
		if a == id {
			return true
		}
	}
	return false
}

func (c Context) hasStructure(id ids.StructureID) bool {
	for _, s := range c.StructuresAtLocation {
		if s == id {
			return true
		}
	}
	return false
}

// knownCategory pairs a case-insensitive substring keyword with the
// action type it maps to. Order matters: first match wins.
type knownCategory struct {
	keyword string
	action  ActionType
}

var knownCategories = []knownCategory{
	{"steal", ActionSteal},
	{"theft", ActionSteal},
	{"rob", ActionSteal},
	{"attack", ActionAttack},
	{"fight", ActionAttack},
	{"combat", ActionAttack},
	{"intimidate", ActionIntimidate},
	{"threaten", ActionIntimidate},
	{"propose", ActionPropose},
	{"vote", ActionVote},
	{"marry", ActionMarry},
	{"wedding", ActionMarry},
	{"divorce", ActionDivorce},
	{"conspire", ActionConspire},
	{"plot", ActionConspire},
	{"pray", ActionPray},
	{"worship", ActionPray},
	{"meditate", ActionPray},
	{"ritual", ActionPray},
	{"gather", ActionGather},
	{"collect", ActionGather},
	{"eat", ActionEat},
	{"drink", ActionDrink},
	{"rest", ActionRest},
	{"sleep", ActionRest},
	{"move", ActionMove},
	{"travel", ActionMove},
	{"build", ActionBuild},
	{"construct", ActionBuild},
	{"repair", ActionRepair},
	{"fix", ActionRepair},
	{"demolish", ActionDemolish},
	{"destroy", ActionDemolish},
	{"teach", ActionTeach},
	{"trade", ActionTradeOffer},
	{"communicate", ActionCommunicate},
	{"talk", ActionCommunicate},
	{"broadcast", ActionBroadcast},
	{"shout", ActionBroadcast},
	{"mine", ActionMine},
	{"craft", ActionCraft},
	{"smelt", ActionSmelt},
	{"write", ActionWrite},
	{"read", ActionRead},
	{"claim", ActionClaim},
	{"legislate", ActionLegislate},
	{"enforce", ActionEnforce},
	{"reproduce", ActionReproduce},
	{"farm", ActionFarmPlant},
	{"harvest", ActionFarmHarvest},
	{"plant", ActionFarmPlant},
}

// impossibleKeywords names capabilities no agent in the simulated world
// has, regardless of resources, knowledge, or location.
var impossibleKeywords = []string{
	"fly", "teleport", "time_travel", "resurrect", "magic", "levitate",
	"invisible", "immortal", "omniscient", "omnipotent", "transform",
	"shapeshift", "conjure", "summon", "enchant", "hex", "curse",
	"vanish", "phase", "warp",
}

// Evaluate runs the feasibility pipeline against a freeform action and
// returns a Feasible, Infeasible, or NeedsEvaluation result.
func Evaluate(action FreeformAction, agent AgentSnapshot, ctx Context) Result {
	categoryLower := strings.ToLower(action.ActionCategory)
	if isPhysicallyImpossible(categoryLower, action.Intent) {
		return Result{
			Kind:   ResultInfeasible,
			Reason: fmt.Sprintf("action %q is not physically possible in this world", action.ActionCategory),
		}
	}

	actionType, ok := mapCategory(categoryLower)
	if !ok {
		return Result{
			Kind: ResultNeedsEvaluation,
			Context: fmt.Sprintf(
				"agent %s at location %s proposed freeform action: category=%q, intent=%q. "+
					"no known action type matches this category. %d agents co-located, %d resource types available.",
				ctx.AgentID, ctx.LocationID, action.ActionCategory, action.Intent,
				len(ctx.AgentsAtLocation), ctx.LocationResourceCount,
			),
		}
	}

	if reason := checkLocation(actionType, action.Target, ctx); reason != "" {
		return Result{Kind: ResultInfeasible, Reason: reason}
	}
	if reason := checkTarget(actionType, action.Target, ctx); reason != "" {
		return Result{Kind: ResultInfeasible, Reason: reason}
	}

	cost := EnergyCost(actionType)
	required := fixedpoint.FromInt(int64(cost))
	if agent.Energy.Cmp(required) < 0 {
		return Result{
			Kind:   ResultInfeasible,
			Reason: fmt.Sprintf("insufficient energy: action requires %d energy, agent has %s", cost, agent.Energy),
		}
	}

	params, err := resolveParameters(actionType, action, ctx)
	if err != "" {
		return Result{Kind: ResultInfeasible, Reason: err}
	}
	return Result{
		Kind:       ResultFeasible,
		Resolved:   ResolvedAction{ActionType: actionType, Parameters: params},
		EnergyCost: cost,
	}
}

func isPhysicallyImpossible(category, intent string) bool {
	intentLower := strings.ToLower(intent)
	for _, word := range impossibleKeywords {
		if strings.Contains(category, word) || strings.Contains(intentLower, word) {
			return true
		}
	}
	return false
}

func mapCategory(category string) (ActionType, bool) {
	for _, kc := range knownCategories {
		if strings.Contains(category, kc.keyword) {
			return kc.action, true
		}
	}
	return 0, false
}

func requiresCoLocatedAgentTarget(at ActionType) bool {
	switch at {
	case ActionSteal, ActionAttack, ActionIntimidate, ActionCommunicate, ActionMarry, ActionReproduce:
		return true
	default:
		return false
	}
}

func checkLocation(at ActionType, target *ActionTarget, ctx Context) string {
	switch {
	case requiresCoLocatedAgentTarget(at):
		if target != nil && target.Kind == TargetAgent && !ctx.hasAgent(target.AgentID) {
			return fmt.Sprintf("target agent %s is not at the same location", target.AgentID)
		}
		return ""
	case at == ActionGather:
		if ctx.LocationResourceCount == 0 {
			return "no resources available at this location to gather"
		}
		return ""
	default:
		return ""
	}
}

func checkTarget(at ActionType, target *ActionTarget, ctx Context) string {
	switch at {
	case ActionSteal, ActionAttack, ActionIntimidate, ActionCommunicate, ActionMarry,
		ActionDivorce, ActionReproduce, ActionTeach, ActionTradeOffer, ActionEnforce:
		if target == nil {
			return "this action requires a target agent, but none was specified"
		}
		if target.Kind != TargetAgent {
			return "this action requires an agent target, but a different target type was provided"
		}
		if !ctx.hasAgent(target.AgentID) {
			return fmt.Sprintf("target agent %s is not present at this location", target.AgentID)
		}
		return ""
	case ActionRepair, ActionDemolish, ActionClaim:
		if target == nil {
			return "this action requires a target structure, but none was specified"
		}
		if target.Kind != TargetStructure {
			return "this action requires a structure target, but a different target type was provided"
		}
		if !ctx.hasStructure(target.Structure) {
			return fmt.Sprintf("target structure %s is not at this location", target.Structure)
		}
		return ""
	default:
		return ""
	}
}

// resolveParameters extracts concrete parameters for the categories the
// evaluator can fully resolve on its own. Returns a non-empty error
// string for anything it cannot resolve from freeform data.
func resolveParameters(at ActionType, action FreeformAction, ctx Context) (map[string]any, string) {
	switch at {
	case ActionSteal:
		targetAgent, errStr := extractAgentTarget(action.Target)
		if errStr != "" {
			return nil, errStr
		}
		resource, ok := action.Parameters["resource"]
		if !ok {
			return nil, "no 'resource' parameter specified for this action"
		}
		return map[string]any{"target_agent": targetAgent, "resource": resource}, ""

	case ActionAttack:
		targetAgent, errStr := extractAgentTarget(action.Target)
		if errStr != "" {
			return nil, errStr
		}
		return map[string]any{"target_agent": targetAgent}, ""

	case ActionIntimidate:
		targetAgent, errStr := extractAgentTarget(action.Target)
		if errStr != "" {
			return nil, errStr
		}
		return map[string]any{"target_agent": targetAgent}, ""

	case ActionPray:
		if action.Intent == "" {
			return map[string]any{"intent": nil}, ""
		}
		return map[string]any{"intent": action.Intent}, ""

	case ActionMarry:
		partner, errStr := extractAgentTarget(action.Target)
		if errStr != "" {
			return nil, errStr
		}
		return map[string]any{"partner_agent": partner}, ""

	case ActionDivorce:
		partner, errStr := extractAgentTarget(action.Target)
		if errStr != "" {
			return nil, errStr
		}
		return map[string]any{"partner_agent": partner}, ""

	case ActionPropose:
		groupID, errStr := extractGroupTarget(action.Target, ctx)
		if errStr != "" {
			return nil, errStr
		}
		return map[string]any{"group_id": groupID, "proposal": action.Intent}, ""

	case ActionVote:
		groupID, errStr := extractGroupTarget(action.Target, ctx)
		if errStr != "" {
			return nil, errStr
		}
		inFavor := true
		if v, ok := action.Parameters["in_favor"].(bool); ok {
			inFavor = v
		}
		return map[string]any{"group_id": groupID, "in_favor": inFavor}, ""

	case ActionConspire:
		coConspirators, errStr := extractAgentList(action)
		if errStr != "" {
			return nil, errStr
		}
		return map[string]any{"co_conspirators": coConspirators, "plan": action.Intent}, ""

	default:
		return nil, fmt.Sprintf("cannot automatically resolve freeform action to concrete parameters for action type %d; intent was %q", at, action.Intent)
	}
}

func extractAgentTarget(target *ActionTarget) (ids.AgentID, string) {
	if target == nil {
		return ids.AgentID{}, "no target agent specified"
	}
	if target.Kind != TargetAgent {
		return ids.AgentID{}, "expected an agent target but received a different target type"
	}
	return target.AgentID, ""
}

func extractGroupTarget(target *ActionTarget, ctx Context) (ids.GroupID, string) {
	if target != nil {
		if target.Kind != TargetGroup {
			return ids.GroupID{}, "expected a group target but received a different target type"
		}
		return target.Group, ""
	}
	if len(ctx.AgentGroups) == 0 {
		return ids.GroupID{}, "no target group specified and agent belongs to no groups"
	}
	return ctx.AgentGroups[0], ""
}

func extractAgentList(action FreeformAction) ([]ids.AgentID, string) {
	if action.Target != nil && action.Target.Kind == TargetAgent {
		return []ids.AgentID{action.Target.AgentID}, ""
	}
	raw, ok := action.Parameters["co_conspirators"]
	if !ok {
		raw, ok = action.Parameters["agents"]
	}
	if !ok {
		return nil, "no co-conspirators specified for conspire action"
	}
	list, ok := raw.([]ids.AgentID)
	if !ok {
		return nil, "invalid co-conspirators value"
	}
	return list, ""
}
