// Package ledger provides the append-only resource transfer log that
// enforces the conservation law — design doc component C. Grounded on
// the teacher's settlement-treasury transfer idiom
// (engine/simulation.go inheritWealth, engine/market.go resolveMarkets)
// generalized from ad hoc += mutations into a recorded, verifiable
// entry stream, and on economy/goods.go's per-resource accounting
// shape.
package ledger

import (
	"fmt"
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Direction is credit or debit.
type Direction uint8

const (
	Debit Direction = iota
	Credit
)

// Party identifies either an agent or one of the two reserved
// pseudo-parties used for environment/system accounting.
type Party struct {
	Agent        *ids.AgentID
	Environment  bool
	System       bool
}

// AgentParty wraps an agent id as a Party.
func AgentParty(id ids.AgentID) Party { return Party{Agent: &id} }

// EnvironmentParty is the reserved party for location resource node
// regeneration/depletion.
var EnvironmentParty = Party{Environment: true}

// SystemParty is the reserved party for system-originated adjustments
// (e.g. combat loot routed through the ledger per spec.md §9).
var SystemParty = Party{System: true}

func (p Party) key() string {
	switch {
	case p.Agent != nil:
		return "agent:" + p.Agent.String()
	case p.Environment:
		return "environment"
	case p.System:
		return "system"
	default:
		return "unknown"
	}
}

// Entry is one append-only ledger line.
type Entry struct {
	Tick         uint64
	Resource     string
	Quantity     fixedpoint.Decimal
	Direction    Direction
	Party        Party
	Counterparty Party
	Reason       string
	ReferenceID  string // optional, e.g. a TradeID/CrimeID string form
}

// Ledger is the append-only entry store.
type Ledger struct {
	entries []Entry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Entries returns every recorded entry in append order. The slice is a
// defensive copy; callers may not mutate ledger history through it.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TransferParams bundles the arguments to RecordAgentTransfer.
type TransferParams struct {
	Tick         uint64
	Resource     string
	Quantity     fixedpoint.Decimal
	From         ids.AgentID
	To           ids.AgentID
	Reason       string
	ReferenceID  string
}

// RecordAgentTransfer appends a debit from `From` and a credit to `To`
// atomically: either both entries are appended or neither is.
func (l *Ledger) RecordAgentTransfer(p TransferParams) error {
	if p.Quantity.Sign() <= 0 {
		return fmt.Errorf("ledger: transfer quantity must be positive, got %s", p.Quantity)
	}
	debit := Entry{
		Tick: p.Tick, Resource: p.Resource, Quantity: p.Quantity,
		Direction: Debit, Party: AgentParty(p.From), Counterparty: AgentParty(p.To),
		Reason: p.Reason, ReferenceID: p.ReferenceID,
	}
	credit := Entry{
		Tick: p.Tick, Resource: p.Resource, Quantity: p.Quantity,
		Direction: Credit, Party: AgentParty(p.To), Counterparty: AgentParty(p.From),
		Reason: p.Reason, ReferenceID: p.ReferenceID,
	}
	l.entries = append(l.entries, debit, credit)
	return nil
}

// EnvironmentTransferParams bundles the arguments to
// RecordEnvironmentTransfer.
type EnvironmentTransferParams struct {
	Tick        uint64
	Resource    string
	Quantity    fixedpoint.Decimal
	Direction   Direction // Credit = agent receives from environment (gather); Debit = environment absorbs (dumping, decay)
	Agent       ids.AgentID
	Reason      string
	ReferenceID string
}

// RecordEnvironmentTransfer appends a single entry whose counterparty is
// the reserved environment party, e.g. gathering food from a location's
// resource node.
func (l *Ledger) RecordEnvironmentTransfer(p EnvironmentTransferParams) error {
	if p.Quantity.Sign() <= 0 {
		return fmt.Errorf("ledger: transfer quantity must be positive, got %s", p.Quantity)
	}
	l.entries = append(l.entries, Entry{
		Tick: p.Tick, Resource: p.Resource, Quantity: p.Quantity,
		Direction: p.Direction, Party: AgentParty(p.Agent), Counterparty: EnvironmentParty,
		Reason: p.Reason, ReferenceID: p.ReferenceID,
	})
	return nil
}

// ConservationResult is the outcome of verifying one tick's balance.
type ConservationResult struct {
	Balanced   bool
	Resource   string             // set only when !Balanced
	Delta      fixedpoint.Decimal // credits - debits, set only when !Balanced
}

// VerifyConservation checks, for every resource touched at tick, that
// the sum of credits equals the sum of debits (agents and environment
// combined) to exact decimal equality. Returns the first imbalance
// found, in sorted resource-id order for determinism.
func (l *Ledger) VerifyConservation(tick uint64) ConservationResult {
	debits := make(map[string]fixedpoint.Decimal)
	credits := make(map[string]fixedpoint.Decimal)
	for _, e := range l.entries {
		if e.Tick != tick {
			continue
		}
		switch e.Direction {
		case Debit:
			debits[e.Resource] = debits[e.Resource].Add(e.Quantity)
		case Credit:
			credits[e.Resource] = credits[e.Resource].Add(e.Quantity)
		}
	}

	resources := make(map[string]struct{}, len(debits)+len(credits))
	for r := range debits {
		resources[r] = struct{}{}
	}
	for r := range credits {
		resources[r] = struct{}{}
	}
	sorted := make([]string, 0, len(resources))
	for r := range resources {
		sorted = append(sorted, r)
	}
	sort.Strings(sorted)

	for _, r := range sorted {
		d := debits[r]
		c := credits[r]
		if d.Cmp(c) != 0 {
			return ConservationResult{Balanced: false, Resource: r, Delta: c.Sub(d)}
		}
	}
	return ConservationResult{Balanced: true}
}

// BalanceForAgent sums every credit minus debit for a given agent and
// resource across the full ledger history — a convenience query, not
// part of the conservation invariant itself.
func (l *Ledger) BalanceForAgent(agentID ids.AgentID, resource string) fixedpoint.Decimal {
	key := AgentParty(agentID).key()
	total := fixedpoint.Zero
	for _, e := range l.entries {
		if e.Resource != resource || e.Party.key() != key {
			continue
		}
		switch e.Direction {
		case Credit:
			total = total.Add(e.Quantity)
		case Debit:
			total = total.Sub(e.Quantity)
		}
	}
	return total
}
