// Package diplomacy implements group-level alliances, conflicts, and
// treaties, plus agent-level tribute records — design doc component P.
// Ported from the original simulation's diplomacy.rs (propose/break
// alliance, declare-conflict/negotiate-treaty/expire-treaties, tribute
// offer semantics and their exact validation order), into the teacher's
// idiom: a State struct holding each record kind in a map plus an
// insertion-order slice, matching the pattern already established by
// internal/constructs and internal/propaganda.
package diplomacy

import (
	"fmt"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// AllianceTerms describes the obligations two allied groups accept.
type AllianceTerms struct {
	MutualDefense   bool
	TradePreference bool
	SharedTerritory bool
}

// AllianceStatus is the lifecycle state of an Alliance.
type AllianceStatus uint8

const (
	AllianceActive AllianceStatus = iota
	AllianceBroken
	AllianceExpired
)

// Alliance is a formal pact between two or more groups.
type Alliance struct {
	ID            ids.AllianceID
	Groups        []ids.GroupID
	Terms         AllianceTerms
	FormedAtTick  uint64
	Status        AllianceStatus
	BrokenBy      *ids.GroupID
	BrokenAtTick  *uint64
}

// TreatyTerms describes what two groups agreed to in a treaty.
type TreatyTerms struct {
	Ceasefire       bool
	BorderAgreement []ids.LocationID
	TradeTerms      map[string]uint32
	DurationTicks   *uint64
}

// Treaty is a formal agreement between two groups.
type Treaty struct {
	ID               ids.TreatyID
	GroupA, GroupB   ids.GroupID
	Terms            TreatyTerms
	NegotiatedAtTick uint64
	Active           bool
}

// Conflict is an active or historical war declaration between two
// groups.
type Conflict struct {
	ID             ids.ConflictID
	Aggressor      ids.GroupID
	Target         ids.GroupID
	Reason         string
	DeclaredAtTick uint64
	Active         bool
	EndedAtTick    *uint64
}

// TributeRecord is a historical tribute offer from one agent to
// another. The caller is responsible for moving the actual resources
// through the ledger — this only records the diplomatic event.
type TributeRecord struct {
	ID         ids.TributeID
	FromAgent  ids.AgentID
	ToAgent    ids.AgentID
	Resources  map[string]fixedpoint.Decimal
	Tick       uint64
	LocationID ids.LocationID
}

// State tracks every diplomatic relationship in the simulation.
type State struct {
	alliances     map[ids.AllianceID]*Alliance
	allianceOrder []ids.AllianceID
	conflicts     map[ids.ConflictID]*Conflict
	conflictOrder []ids.ConflictID
	treaties      map[ids.TreatyID]*Treaty
	treatyOrder   []ids.TreatyID
	tributes      []TributeRecord
}

// New returns an empty diplomacy state.
func New() *State {
	return &State{
		alliances: make(map[ids.AllianceID]*Alliance),
		conflicts: make(map[ids.ConflictID]*Conflict),
		treaties:  make(map[ids.TreatyID]*Treaty),
	}
}

// ProposeAlliance forms an alliance between two distinct, not-yet-allied
// groups.
func (s *State) ProposeAlliance(proposer, target ids.GroupID, terms AllianceTerms, currentTick uint64) (ids.AllianceID, error) {
	if proposer == target {
		return ids.AllianceID{}, fmt.Errorf("diplomacy: a group cannot form an alliance with itself: %s", proposer)
	}
	if s.AreAllied(proposer, target) {
		return ids.AllianceID{}, fmt.Errorf("diplomacy: groups %s and %s are already allied", proposer, target)
	}
	id := ids.NewAllianceID()
	s.alliances[id] = &Alliance{
		ID: id, Groups: []ids.GroupID{proposer, target}, Terms: terms,
		FormedAtTick: currentTick, Status: AllianceActive,
	}
	s.allianceOrder = append(s.allianceOrder, id)
	return id, nil
}

// BreakAlliance marks an alliance broken by breakingGroup, which must be
// a member.
func (s *State) BreakAlliance(allianceID ids.AllianceID, breakingGroup ids.GroupID, currentTick uint64) error {
	alliance, ok := s.alliances[allianceID]
	if !ok {
		return fmt.Errorf("diplomacy: alliance not found: %s", allianceID)
	}
	if !containsGroup(alliance.Groups, breakingGroup) {
		return fmt.Errorf("diplomacy: group %s is not part of alliance %s", breakingGroup, allianceID)
	}
	alliance.Status = AllianceBroken
	alliance.BrokenBy = &breakingGroup
	alliance.BrokenAtTick = &currentTick
	return nil
}

// DeclareConflict opens a war between aggressor and target. Rejected if
// the two groups are allied (break the alliance first) or already at
// war.
func (s *State) DeclareConflict(aggressor, target ids.GroupID, reason string, currentTick uint64) (ids.ConflictID, error) {
	if s.AreAllied(aggressor, target) {
		return ids.ConflictID{}, fmt.Errorf("diplomacy: cannot declare conflict against ally %s -- break alliance first", target)
	}
	if s.AreInConflict(aggressor, target) {
		return ids.ConflictID{}, fmt.Errorf("diplomacy: groups %s and %s are already in conflict", aggressor, target)
	}
	id := ids.NewConflictID()
	s.conflicts[id] = &Conflict{
		ID: id, Aggressor: aggressor, Target: target, Reason: reason,
		DeclaredAtTick: currentTick, Active: true,
	}
	s.conflictOrder = append(s.conflictOrder, id)
	return id, nil
}

// NegotiateTreaty records a treaty between two groups currently at war.
// Requires both leaders to be co-located. A ceasefire term ends the
// active conflict between the groups.
func (s *State) NegotiateTreaty(groupA, groupB ids.GroupID, terms TreatyTerms, leadersCoLocated bool, currentTick uint64) (ids.TreatyID, error) {
	if !leadersCoLocated {
		return ids.TreatyID{}, fmt.Errorf("diplomacy: leaders must be co-located for treaty negotiation")
	}
	if !s.AreInConflict(groupA, groupB) {
		return ids.TreatyID{}, fmt.Errorf("diplomacy: groups %s and %s are not in conflict", groupA, groupB)
	}
	if terms.Ceasefire {
		s.endConflictBetween(groupA, groupB, currentTick)
	}
	id := ids.NewTreatyID()
	s.treaties[id] = &Treaty{
		ID: id, GroupA: groupA, GroupB: groupB, Terms: terms,
		NegotiatedAtTick: currentTick, Active: true,
	}
	s.treatyOrder = append(s.treatyOrder, id)
	return id, nil
}

// OfferTribute records a tribute offer, requiring the two agents to be
// co-located. The caller must separately move resources through the
// ledger.
func (s *State) OfferTribute(fromAgent, toAgent ids.AgentID, resources map[string]fixedpoint.Decimal, locationID ids.LocationID, agentsCoLocated bool, currentTick uint64) (ids.TributeID, error) {
	if !agentsCoLocated {
		return ids.TributeID{}, fmt.Errorf("diplomacy: agents must be co-located for tribute")
	}
	id := ids.NewTributeID()
	s.tributes = append(s.tributes, TributeRecord{
		ID: id, FromAgent: fromAgent, ToAgent: toAgent, Resources: resources,
		Tick: currentTick, LocationID: locationID,
	})
	return id, nil
}

// AreAllied reports whether groupA and groupB share an active alliance.
func (s *State) AreAllied(groupA, groupB ids.GroupID) bool {
	for _, id := range s.allianceOrder {
		a := s.alliances[id]
		if a.Status == AllianceActive && containsGroup(a.Groups, groupA) && containsGroup(a.Groups, groupB) {
			return true
		}
	}
	return false
}

// AreInConflict reports whether groupA and groupB are in active
// conflict, in either direction.
func (s *State) AreInConflict(groupA, groupB ids.GroupID) bool {
	for _, id := range s.conflictOrder {
		c := s.conflicts[id]
		if !c.Active {
			continue
		}
		if (c.Aggressor == groupA && c.Target == groupB) || (c.Aggressor == groupB && c.Target == groupA) {
			return true
		}
	}
	return false
}

// ActiveAlliances returns every alliance with AllianceActive status.
func (s *State) ActiveAlliances() []*Alliance {
	var out []*Alliance
	for _, id := range s.allianceOrder {
		if a := s.alliances[id]; a.Status == AllianceActive {
			out = append(out, a)
		}
	}
	return out
}

// ActiveConflicts returns every conflict still marked active.
func (s *State) ActiveConflicts() []*Conflict {
	var out []*Conflict
	for _, id := range s.conflictOrder {
		if c := s.conflicts[id]; c.Active {
			out = append(out, c)
		}
	}
	return out
}

// ActiveTreaties returns every treaty still marked active.
func (s *State) ActiveTreaties() []*Treaty {
	var out []*Treaty
	for _, id := range s.treatyOrder {
		if t := s.treaties[id]; t.Active {
			out = append(out, t)
		}
	}
	return out
}

// AlliancesForGroup returns every active alliance groupID belongs to.
func (s *State) AlliancesForGroup(groupID ids.GroupID) []*Alliance {
	var out []*Alliance
	for _, id := range s.allianceOrder {
		a := s.alliances[id]
		if a.Status == AllianceActive && containsGroup(a.Groups, groupID) {
			out = append(out, a)
		}
	}
	return out
}

// ConflictsForGroup returns every active conflict groupID is a party
// to.
func (s *State) ConflictsForGroup(groupID ids.GroupID) []*Conflict {
	var out []*Conflict
	for _, id := range s.conflictOrder {
		c := s.conflicts[id]
		if c.Active && (c.Aggressor == groupID || c.Target == groupID) {
			out = append(out, c)
		}
	}
	return out
}

// AlliesOf returns the other group in every active alliance groupID
// belongs to, in first-seen order.
func (s *State) AlliesOf(groupID ids.GroupID) []ids.GroupID {
	var out []ids.GroupID
	seen := make(map[ids.GroupID]struct{})
	for _, a := range s.AlliancesForGroup(groupID) {
		for _, g := range a.Groups {
			if g == groupID {
				continue
			}
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				out = append(out, g)
			}
		}
	}
	return out
}

// EnemiesOf returns every group groupID is in active conflict with, in
// first-seen order.
func (s *State) EnemiesOf(groupID ids.GroupID) []ids.GroupID {
	var out []ids.GroupID
	seen := make(map[ids.GroupID]struct{})
	for _, c := range s.ConflictsForGroup(groupID) {
		other := c.Target
		if c.Aggressor != groupID {
			other = c.Aggressor
		}
		if _, ok := seen[other]; !ok {
			seen[other] = struct{}{}
			out = append(out, other)
		}
	}
	return out
}

// ExpireTreaties deactivates every treaty whose duration has elapsed as
// of currentTick, returning their ids.
func (s *State) ExpireTreaties(currentTick uint64) []ids.TreatyID {
	var expired []ids.TreatyID
	for _, id := range s.treatyOrder {
		t := s.treaties[id]
		if !t.Active || t.Terms.DurationTicks == nil {
			continue
		}
		if currentTick >= t.NegotiatedAtTick+*t.Terms.DurationTicks {
			t.Active = false
			expired = append(expired, id)
		}
	}
	return expired
}

// GetAlliance, GetConflict, and GetTreaty return the record for id.
func (s *State) GetAlliance(id ids.AllianceID) (*Alliance, bool) { a, ok := s.alliances[id]; return a, ok }
func (s *State) GetConflict(id ids.ConflictID) (*Conflict, bool) { c, ok := s.conflicts[id]; return c, ok }
func (s *State) GetTreaty(id ids.TreatyID) (*Treaty, bool)       { t, ok := s.treaties[id]; return t, ok }

// conflictPenalty is the relationship cost applied to every
// aggressor/defender pair when a conflict begins.
var conflictPenalty = fixedpoint.FromPer10000(-3000) // -0.3

// RelationshipDelta is one pairwise relationship penalty resulting from
// a conflict declaration.
type RelationshipDelta struct {
	AgentA, AgentB ids.AgentID
	Delta          fixedpoint.Decimal
}

// ConflictRelationshipDeltas returns the penalty to apply between every
// pair of aggressor and defender group members.
func ConflictRelationshipDeltas(aggressorMembers, defenderMembers []ids.AgentID) []RelationshipDelta {
	var out []RelationshipDelta
	for _, a := range aggressorMembers {
		for _, b := range defenderMembers {
			out = append(out, RelationshipDelta{AgentA: a, AgentB: b, Delta: conflictPenalty})
		}
	}
	return out
}

func (s *State) endConflictBetween(groupA, groupB ids.GroupID, currentTick uint64) {
	for _, id := range s.conflictOrder {
		c := s.conflicts[id]
		if !c.Active {
			continue
		}
		matches := (c.Aggressor == groupA && c.Target == groupB) || (c.Aggressor == groupB && c.Target == groupA)
		if matches {
			c.Active = false
			tick := currentTick
			c.EndedAtTick = &tick
		}
	}
}

func containsGroup(groups []ids.GroupID, target ids.GroupID) bool {
	for _, g := range groups {
		if g == target {
			return true
		}
	}
	return false
}
