// Package events defines the typed event catalog the core emits as it
// ticks -- design doc §6. Grounded on the teacher's engine.Event (a
// single free-text Description/Category pair broadcast to subscriber
// channels), generalized here to a typed Kind plus a typed Detail
// payload referencing entity ids, per spec.md §6's requirement that
// every event carry a typed detail rather than prose. The event store
// itself (persistence, replay) is an external driver responsibility;
// this package only defines the shapes that cross that boundary.
package events

import (
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Kind names an event type the core can produce.
type Kind string

const (
	KindTickStart          Kind = "tick_start"
	KindTickEnd            Kind = "tick_end"
	KindCombatInitiated    Kind = "combat_initiated"
	KindCombatResolved     Kind = "combat_resolved"
	KindTradeOffered       Kind = "trade_offered"
	KindTradeCompleted     Kind = "trade_completed"
	KindTradeRejected      Kind = "trade_rejected"
	KindTradeExpired       Kind = "trade_expired"
	KindAllianceFormed     Kind = "alliance_formed"
	KindAllianceBroken     Kind = "alliance_broken"
	KindWarDeclared        Kind = "war_declared"
	KindTreatyNegotiated   Kind = "treaty_negotiated"
	KindDeceptionCommitted Kind = "deception_committed"
	KindDeceptionDiscovered Kind = "deception_discovered"
	KindPropagandaPosted   Kind = "propaganda_posted"
	KindPropagandaExpired  Kind = "propaganda_expired"
	KindConstructFounded   Kind = "construct_founded"
	KindConstructMerged    Kind = "construct_merged"
	KindConstructSchism    Kind = "construct_schism"
	KindConstructDisbanded Kind = "construct_disbanded"
	KindAgentBorn          Kind = "agent_born"
	KindAgentDied          Kind = "agent_died"
)

// Event is an immutable, typed occurrence the core appends to its
// event stream for a given tick.
type Event struct {
	Tick   uint64 `json:"tick"`
	Kind   Kind   `json:"kind"`
	Detail Detail `json:"detail"`
}

// Detail is the typed payload of an Event. Each Kind pairs with exactly
// one Detail implementation; the marker method keeps arbitrary values
// from being assigned where a concrete detail is expected.
type Detail interface {
	isEventDetail()
}

type TickBoundaryDetail struct {
	LivingAgents uint32 `json:"living_agents"`
}

func (TickBoundaryDetail) isEventDetail() {}

type CombatInitiatedDetail struct {
	Attacker ids.AgentID `json:"attacker"`
	Defender ids.AgentID `json:"defender"`
	Location ids.LocationID `json:"location"`
}

func (CombatInitiatedDetail) isEventDetail() {}

type CombatResolvedDetail struct {
	Attacker    ids.AgentID        `json:"attacker"`
	Defender    ids.AgentID        `json:"defender"`
	AttackerWon bool               `json:"attacker_won"`
	Damage      fixedpoint.Decimal `json:"damage"`
}

func (CombatResolvedDetail) isEventDetail() {}

type TradeOfferedDetail struct {
	Trade    ids.TradeID `json:"trade"`
	Offerer  ids.AgentID `json:"offerer"`
	Receiver ids.AgentID `json:"receiver"`
}

func (TradeOfferedDetail) isEventDetail() {}

type TradeCompletedDetail struct {
	Trade    ids.TradeID                   `json:"trade"`
	Offerer  ids.AgentID                   `json:"offerer"`
	Receiver ids.AgentID                   `json:"receiver"`
	Given    map[string]fixedpoint.Decimal `json:"given"`
	Received map[string]fixedpoint.Decimal `json:"received"`
}

func (TradeCompletedDetail) isEventDetail() {}

// TradeFailReason distinguishes why a trade did not complete.
type TradeFailReason string

const (
	TradeFailRejected TradeFailReason = "rejected"
	TradeFailExpired  TradeFailReason = "expired"
)

type TradeFailedDetail struct {
	Trade  ids.TradeID     `json:"trade"`
	Reason TradeFailReason `json:"reason"`
}

func (TradeFailedDetail) isEventDetail() {}

type AllianceFormedDetail struct {
	Alliance ids.AllianceID `json:"alliance"`
	Members  []ids.AgentID  `json:"members"`
}

func (AllianceFormedDetail) isEventDetail() {}

type AllianceBrokenDetail struct {
	Alliance ids.AllianceID `json:"alliance"`
	Reason   string         `json:"reason"`
}

func (AllianceBrokenDetail) isEventDetail() {}

type WarDeclaredDetail struct {
	Conflict  ids.ConflictID `json:"conflict"`
	Aggressor ids.AgentID    `json:"aggressor"`
	Target    ids.AgentID    `json:"target"`
}

func (WarDeclaredDetail) isEventDetail() {}

type TreatyNegotiatedDetail struct {
	Treaty  ids.TreatyID  `json:"treaty"`
	Parties []ids.AgentID `json:"parties"`
}

func (TreatyNegotiatedDetail) isEventDetail() {}

type DeceptionCommittedDetail struct {
	Record    ids.DeceptionRecordID `json:"record"`
	Deceiver  ids.AgentID           `json:"deceiver"`
	Target    *ids.AgentID          `json:"target,omitempty"`
}

func (DeceptionCommittedDetail) isEventDetail() {}

type DeceptionDiscoveredDetail struct {
	Record    ids.DeceptionRecordID `json:"record"`
	Deceiver  ids.AgentID           `json:"deceiver"`
	Discoverer ids.AgentID          `json:"discoverer"`
}

func (DeceptionDiscoveredDetail) isEventDetail() {}

type PropagandaPostedDetail struct {
	Post   ids.PropagandaPostID `json:"post"`
	Poster ids.AgentID          `json:"poster"`
}

func (PropagandaPostedDetail) isEventDetail() {}

type PropagandaExpiredDetail struct {
	Post ids.PropagandaPostID `json:"post"`
}

func (PropagandaExpiredDetail) isEventDetail() {}

type ConstructFoundedDetail struct {
	Construct ids.ConstructID `json:"construct"`
	Founder   ids.AgentID     `json:"founder"`
}

func (ConstructFoundedDetail) isEventDetail() {}

type ConstructMergedDetail struct {
	Survivor ids.ConstructID `json:"survivor"`
	Absorbed ids.ConstructID `json:"absorbed"`
}

func (ConstructMergedDetail) isEventDetail() {}

type ConstructSchismDetail struct {
	Original ids.ConstructID `json:"original"`
	Splinter ids.ConstructID `json:"splinter"`
	Members  []ids.AgentID   `json:"members"`
}

func (ConstructSchismDetail) isEventDetail() {}

type ConstructDisbandedDetail struct {
	Construct ids.ConstructID `json:"construct"`
	Reason    string          `json:"reason"`
}

func (ConstructDisbandedDetail) isEventDetail() {}

type AgentBornDetail struct {
	Agent      ids.AgentID  `json:"agent"`
	ParentA    *ids.AgentID `json:"parent_a,omitempty"`
	ParentB    *ids.AgentID `json:"parent_b,omitempty"`
	Generation uint32       `json:"generation"`
}

func (AgentBornDetail) isEventDetail() {}

type AgentDiedDetail struct {
	Agent ids.AgentID `json:"agent"`
	Cause string      `json:"cause"`
}

func (AgentDiedDetail) isEventDetail() {}

// Stream is an append-only, in-memory catalog of emitted events plus a
// fan-out subscriber mechanism, grounded on the teacher's
// Simulation.Subscribe/Unsubscribe/EmitEvent trio.
type Stream struct {
	events []Event
	subs   map[int]chan Event
	nextID int
}

// NewStream returns an empty event stream.
func NewStream() *Stream {
	return &Stream{subs: make(map[int]chan Event)}
}

// Emit appends e to the stream and broadcasts it to every subscriber,
// dropping it for subscribers whose buffer is full.
func (s *Stream) Emit(e Event) {
	s.events = append(s.events, e)
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its id plus a
// buffered channel that receives every subsequently emitted event.
func (s *Stream) Subscribe() (int, <-chan Event) {
	id := s.nextID
	s.nextID++
	ch := make(chan Event, 64)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Stream) Unsubscribe(id int) {
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// All returns every event recorded so far, in emission order.
func (s *Stream) All() []Event {
	return s.events
}

// Since returns events recorded at or after fromTick, in emission order.
func (s *Stream) Since(fromTick uint64) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Tick >= fromTick {
			out = append(out, e)
		}
	}
	return out
}
