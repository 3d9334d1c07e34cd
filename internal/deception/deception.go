// Package deception implements the passive deception-tracking layer —
// design doc component Q. Records lies agents tell, classifies their
// severity, resolves discoveries (deterministic when the victim of a
// false resource claim visits the claimed location, probabilistic
// otherwise, scaled by curiosity),
// and scores agent honesty. Ported from the original simulation's
// deception.rs, into the teacher's idiom: active/discovered records
// held in maps plus insertion-order slices, the pattern already used by
// internal/constructs, internal/propaganda, and internal/diplomacy.
package deception

import (
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
	"github.com/talgya/emergence/internal/prng"
)

// Type classifies the kind of lie an agent told.
type Type uint8

const (
	TypeFalseResourceClaim Type = iota
	TypeFalseRelationship
	TypeBrokenPromise
	TypeFalseIdentity
	TypeManipulation
	TypeOther
)

// Severity determines the relationship penalty applied on discovery.
type Severity uint8

const (
	SeverityMinor Severity = iota
	SeveritySevere
)

var (
	penaltyMinor  = fixedpoint.FromPer10000(3000) // 0.3
	penaltySevere = fixedpoint.FromPer10000(5000) // 0.5
)

// Penalty returns the relationship penalty for this severity.
func (sev Severity) Penalty() fixedpoint.Decimal {
	if sev == SeveritySevere {
		return penaltySevere
	}
	return penaltyMinor
}

// ClassifySeverity maps a deception type to its severity class.
func ClassifySeverity(t Type) Severity {
	switch t {
	case TypeFalseResourceClaim, TypeFalseRelationship:
		return SeverityMinor
	default:
		return SeveritySevere
	}
}

// baseDiscoveryChancePer10000 and curiosityMultiplierPer10000 feed
// ComputeDiscoveryChance: base + curiosity*multiplier/10000, all in
// per-10000 units.
const (
	baseDiscoveryChancePer10000 int64 = 100
	curiosityMultiplierPer10000 int64 = 300
)

// ComputeDiscoveryChance returns the per-10000 chance a victim with the
// given curiosity (itself scaled 0-10000) notices an active deception
// this tick.
func ComputeDiscoveryChance(curiosityPer10000 int64) int64 {
	return baseDiscoveryChancePer10000 + (curiosityPer10000*curiosityMultiplierPer10000)/10000
}

// Record is one deceptive statement an agent made.
type Record struct {
	ID               ids.DeceptionRecordID
	Tick             uint64
	DeceiverID       ids.AgentID
	TargetID         *ids.AgentID // nil for a broadcast lie
	Type             Type
	ClaimedInfo      string
	ActualTruth      string
	LocationID       ids.LocationID
	Discovered       bool
	DiscoveredAtTick *uint64
	DiscoveredBy     *ids.AgentID
}

// Discovery is the outcome of an active deception being uncovered.
type Discovery struct {
	DeceptionID        ids.DeceptionRecordID
	DeceiverID         ids.AgentID
	DiscovererID       ids.AgentID
	DiscoveredAtTick   uint64
	Type               Type
	RelationshipPenalty fixedpoint.Decimal
}

// Tracker holds every deception and per-agent lie/interaction counts.
type Tracker struct {
	active            map[ids.DeceptionRecordID]*Record
	activeOrder       []ids.DeceptionRecordID
	discovered        map[ids.DeceptionRecordID]*Record
	discoveredOrder   []ids.DeceptionRecordID
	agentLieCounts    map[ids.AgentID]uint32
	agentInteractions map[ids.AgentID]uint32
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		active:            make(map[ids.DeceptionRecordID]*Record),
		discovered:        make(map[ids.DeceptionRecordID]*Record),
		agentLieCounts:    make(map[ids.AgentID]uint32),
		agentInteractions: make(map[ids.AgentID]uint32),
	}
}

// RecordDeception stores record as active and increments the
// deceiver's lie count.
func (tr *Tracker) RecordDeception(record Record) {
	tr.active[record.ID] = &record
	tr.activeOrder = append(tr.activeOrder, record.ID)
	tr.agentLieCounts[record.DeceiverID]++
}

// RecordInteraction increments agentID's total interaction count, used
// as the denominator of the honesty score. Call this for every message
// an agent sends, truthful or not.
func (tr *Tracker) RecordInteraction(agentID ids.AgentID) {
	tr.agentInteractions[agentID]++
}

// CheckForDiscoveries evaluates every active deception against current
// agent locations and curiosity traits, moving newly discovered ones
// into the archive. agentCuriosity values are on the 0-10000 scale used
// throughout this module. rng must be the caller's single shared
// deterministic source.
func (tr *Tracker) CheckForDiscoveries(agentLocations map[ids.AgentID]ids.LocationID, agentCuriosity map[ids.AgentID]int64, currentTick uint64, rng *prng.Source) []Discovery {
	var discoveries []Discovery
	var discoveredIDs []ids.DeceptionRecordID

	for _, id := range tr.activeOrder {
		record := tr.active[id]
		if record == nil || record.Discovered || record.TargetID == nil {
			continue
		}
		target := *record.TargetID
		targetLocation, hasLocation := agentLocations[target]

		if hasLocation && targetLocation == record.LocationID && record.Type == TypeFalseResourceClaim {
			severity := ClassifySeverity(record.Type)
			discoveries = append(discoveries, Discovery{
				DeceptionID: id, DeceiverID: record.DeceiverID, DiscovererID: target,
				DiscoveredAtTick: currentTick, Type: record.Type, RelationshipPenalty: severity.Penalty(),
			})
			discoveredIDs = append(discoveredIDs, id)
			continue
		}

		curiosity := agentCuriosity[target]
		chance := ComputeDiscoveryChance(curiosity)
		roll := rng.Per10000()
		if roll < chance {
			severity := ClassifySeverity(record.Type)
			discoveries = append(discoveries, Discovery{
				DeceptionID: id, DeceiverID: record.DeceiverID, DiscovererID: target,
				DiscoveredAtTick: currentTick, Type: record.Type, RelationshipPenalty: severity.Penalty(),
			})
			discoveredIDs = append(discoveredIDs, id)
		}
	}

	for _, id := range discoveredIDs {
		record := tr.active[id]
		delete(tr.active, id)
		record.Discovered = true
		tick := currentTick
		record.DiscoveredAtTick = &tick
		for _, d := range discoveries {
			if d.DeceptionID == id {
				discoverer := d.DiscovererID
				record.DiscoveredBy = &discoverer
				break
			}
		}
		tr.discovered[id] = record
		tr.discoveredOrder = append(tr.discoveredOrder, id)
	}
	tr.activeOrder = removeIDs(tr.activeOrder, discoveredIDs)

	return discoveries
}

func removeIDs(order, removed []ids.DeceptionRecordID) []ids.DeceptionRecordID {
	if len(removed) == 0 {
		return order
	}
	drop := make(map[ids.DeceptionRecordID]struct{}, len(removed))
	for _, id := range removed {
		drop[id] = struct{}{}
	}
	out := order[:0:0]
	for _, id := range order {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// GetAgentHonestyScore returns 1.0 - lieCount/interactionCount, or 1.0
// (benefit of the doubt) if the agent has no recorded interactions.
func (tr *Tracker) GetAgentHonestyScore(agentID ids.AgentID) fixedpoint.Decimal {
	interactions := tr.agentInteractions[agentID]
	if interactions == 0 {
		return fixedpoint.One
	}
	lies := tr.agentLieCounts[agentID]
	ratio, _ := fixedpoint.FromInt(int64(lies)).Div(fixedpoint.FromInt(int64(interactions)))
	return fixedpoint.One.Sub(ratio)
}

// GetAgentLieCount returns the total number of lies agentID has told.
func (tr *Tracker) GetAgentLieCount(agentID ids.AgentID) uint32 { return tr.agentLieCounts[agentID] }

// ActiveDeceptionCount and DiscoveredDeceptionCount report the size of
// each archive.
func (tr *Tracker) ActiveDeceptionCount() int     { return len(tr.active) }
func (tr *Tracker) DiscoveredDeceptionCount() int { return len(tr.discovered) }

// ActiveDeceptionsByAgent returns every active deception agentID
// committed.
func (tr *Tracker) ActiveDeceptionsByAgent(agentID ids.AgentID) []*Record {
	var out []*Record
	for _, id := range tr.activeOrder {
		if r := tr.active[id]; r.DeceiverID == agentID {
			out = append(out, r)
		}
	}
	return out
}

// DiscoveredDeceptionsByAgent returns every discovered deception
// agentID committed.
func (tr *Tracker) DiscoveredDeceptionsByAgent(agentID ids.AgentID) []*Record {
	var out []*Record
	for _, id := range tr.discoveredOrder {
		if r := tr.discovered[id]; r.DeceiverID == agentID {
			out = append(out, r)
		}
	}
	return out
}

// GetActiveDeception and GetDiscoveredDeception look up a record by id
// in their respective archive.
func (tr *Tracker) GetActiveDeception(id ids.DeceptionRecordID) (*Record, bool) {
	r, ok := tr.active[id]
	return r, ok
}

func (tr *Tracker) GetDiscoveredDeception(id ids.DeceptionRecordID) (*Record, bool) {
	r, ok := tr.discovered[id]
	return r, ok
}
