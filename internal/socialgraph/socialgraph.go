// Package socialgraph tracks per-agent relationship scores, interaction
// history, and group formation — design doc component I. Grounded on
// the original simulation's social.rs relationship-delta table, ported
// into the teacher's struct-plus-explicit-error idiom (see
// internal/ledger for the sibling pattern of clamped fixed-point state
// with a typed update function).
package socialgraph

import (
	"fmt"
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

var (
	scoreMax = fixedpoint.FromInt(1)
	scoreMin = fixedpoint.FromInt(-1)
)

// Cause is the kind of interaction driving a relationship update.
type Cause uint8

const (
	CauseTrade Cause = iota
	CauseTradeFailed
	CauseTeaching
	CauseCommunication
	CauseConflict
	CauseTheft
	CauseIntimidation
)

var (
	deltaTrade         = fixedpoint.FromPer10000(1000)  // +0.1
	deltaTradeFailed   = fixedpoint.FromPer10000(-500)  // -0.05
	deltaTeaching      = fixedpoint.FromPer10000(1500)  // +0.15
	deltaCommunication = fixedpoint.FromPer10000(500)   // +0.05
	conflictBase       = fixedpoint.FromPer10000(-2000) // -0.2
	conflictRange       = fixedpoint.FromPer10000(3000) // 0.3 additional range by severity
)

// groupRelationshipThreshold is the minimum relationship with the
// founder required to accept a group invitation.
var groupRelationshipThreshold = fixedpoint.FromPer10000(3000) // 0.3

// Graph is one agent's view of relationships, interaction counts, last
// interaction tick, and group memberships.
type Graph struct {
	relationships     map[ids.AgentID]fixedpoint.Decimal
	interactionCount  map[ids.AgentID]uint64
	lastInteraction   map[ids.AgentID]uint64
	groups            map[ids.GroupID]struct{}
}

// New returns an empty social graph.
func New() *Graph {
	return &Graph{
		relationships:    make(map[ids.AgentID]fixedpoint.Decimal),
		interactionCount: make(map[ids.AgentID]uint64),
		lastInteraction:  make(map[ids.AgentID]uint64),
		groups:           make(map[ids.GroupID]struct{}),
	}
}

// Relationship returns the score with other, or zero if unknown.
func (g *Graph) Relationship(other ids.AgentID) fixedpoint.Decimal {
	if score, ok := g.relationships[other]; ok {
		return score
	}
	return fixedpoint.FromInt(0)
}

// Update applies delta to the relationship with other, clamps to
// [-1, 1], increments the interaction count, and records tick. Returns
// the old and new scores.
func (g *Graph) Update(other ids.AgentID, delta fixedpoint.Decimal, tick uint64) (old, updated fixedpoint.Decimal) {
	old = g.Relationship(other)
	updated = old.Add(delta).Clamp(scoreMin, scoreMax)
	g.relationships[other] = updated
	g.interactionCount[other]++
	g.lastInteraction[other] = tick
	return old, updated
}

// conflictDelta scales the conflict/theft/intimidation penalty by a
// severity in [0, 1]: base -0.2, extending down to -0.5 at severity 1.
func conflictDelta(severityPer10k int64) fixedpoint.Decimal {
	if severityPer10k < 0 {
		severityPer10k = 0
	}
	if severityPer10k > 10000 {
		severityPer10k = 10000
	}
	scaled := conflictRange.Mul(fixedpoint.FromPer10000(severityPer10k))
	return conflictBase.Sub(scaled)
}

// ApplyInteraction applies the standard delta for cause, scaling
// conflict-family causes (Conflict, Theft, Intimidation) by
// severityPer10k (0-10000, ignored for other causes).
func (g *Graph) ApplyInteraction(other ids.AgentID, cause Cause, tick uint64, severityPer10k int64) (old, updated fixedpoint.Decimal) {
	var delta fixedpoint.Decimal
	switch cause {
	case CauseTrade:
		delta = deltaTrade
	case CauseTradeFailed:
		delta = deltaTradeFailed
	case CauseTeaching:
		delta = deltaTeaching
	case CauseCommunication:
		delta = deltaCommunication
	case CauseConflict, CauseTheft, CauseIntimidation:
		delta = conflictDelta(severityPer10k)
	default:
		delta = fixedpoint.FromInt(0)
	}
	return g.Update(other, delta, tick)
}

// KnownAgents returns every agent with a recorded relationship, sorted
// for deterministic iteration.
func (g *Graph) KnownAgents() []ids.AgentID {
	out := make([]ids.AgentID, 0, len(g.relationships))
	for id := range g.relationships {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// InteractionCount returns the interaction count with other.
func (g *Graph) InteractionCount(other ids.AgentID) uint64 {
	return g.interactionCount[other]
}

// LastInteraction returns the tick of the last interaction with other
// and whether one has occurred.
func (g *Graph) LastInteraction(other ids.AgentID) (uint64, bool) {
	tick, ok := g.lastInteraction[other]
	return tick, ok
}

// Label classifies a relationship score for perception display:
// friendly (>=0.3), hostile (<=-0.3), neutral otherwise, stranger if
// unknown.
func (g *Graph) Label(other ids.AgentID) string {
	score, ok := g.relationships[other]
	if !ok {
		return "stranger (unknown)"
	}
	var tag string
	switch {
	case score.Cmp(groupRelationshipThreshold) >= 0:
		tag = "friendly"
	case score.Cmp(groupRelationshipThreshold.Neg()) <= 0:
		tag = "hostile"
	default:
		tag = "neutral"
	}
	return fmt.Sprintf("%s (%s)", tag, score.String())
}

// JoinGroup records membership in group.
func (g *Graph) JoinGroup(group ids.GroupID) {
	g.groups[group] = struct{}{}
}

// LeaveGroup removes membership in group, reporting whether it was
// present.
func (g *Graph) LeaveGroup(group ids.GroupID) bool {
	if _, ok := g.groups[group]; !ok {
		return false
	}
	delete(g.groups, group)
	return true
}

// Groups returns every group this agent belongs to, sorted.
func (g *Graph) Groups() []ids.GroupID {
	out := make([]ids.GroupID, 0, len(g.groups))
	for id := range g.groups {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Group is a formed social group.
type Group struct {
	ID      ids.GroupID
	Name    string
	Founder ids.AgentID
	Members map[ids.AgentID]struct{}
}

// FormGroup validates and creates a new group: every invited member
// must be co-located with the founder and hold a relationship above
// groupRelationshipThreshold with the founder.
func FormGroup(name string, founder ids.AgentID, invited []ids.AgentID, founderGraph *Graph, coLocated map[ids.AgentID]struct{}) (*Group, error) {
	for _, member := range invited {
		if _, ok := coLocated[member]; !ok {
			return nil, fmt.Errorf("socialgraph: invited member %s is not at the same location as the founder", member)
		}
		score := founderGraph.Relationship(member)
		if score.Cmp(groupRelationshipThreshold) <= 0 {
			return nil, fmt.Errorf("socialgraph: relationship with %s is %s, needs to exceed %s", member, score, groupRelationshipThreshold)
		}
	}
	members := make(map[ids.AgentID]struct{}, len(invited)+1)
	members[founder] = struct{}{}
	for _, member := range invited {
		members[member] = struct{}{}
	}
	return &Group{ID: ids.NewGroupID(), Name: name, Founder: founder, Members: members}, nil
}
