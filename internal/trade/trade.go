// Package trade implements the offer/accept/reject/expire lifecycle —
// design doc component J. Grounded on the original simulation's
// trade.rs (offer validates non-empty maps and offerer funds; accept
// re-validates co-location and both sides' inventories before any
// mutation, then executes a bidirectional ledger-recorded swap),
// ported into the teacher's idiom (see internal/ledger.RecordAgentTransfer
// for the shared swap-plus-ledger-entry pattern).
package trade

import (
	"errors"
	"fmt"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
	"github.com/talgya/emergence/internal/ledger"
	"github.com/talgya/emergence/internal/vitals"
)

// DefaultExpiryTicks is the number of ticks a pending trade remains
// open before Expire removes it.
const DefaultExpiryTicks = 3

// offerEnergyCost is the energy spent by the offerer when proposing a
// trade. Accepting or rejecting costs nothing.
var offerEnergyCost = fixedpoint.FromInt(2)

var (
	ErrEmptyOffer        = errors.New("trade: offer map is empty")
	ErrEmptyRequest      = errors.New("trade: request map is empty")
	ErrNotCoLocated      = errors.New("trade: offerer and target are no longer at the trade's location")
	ErrOffererShortfall  = errors.New("trade: offerer no longer holds the offered resources")
	ErrTargetShortfall   = errors.New("trade: target does not hold the requested resources")
)

// Offer is a pending proposed resource exchange.
type Offer struct {
	ID                 ids.TradeID
	OffererID          ids.AgentID
	TargetID           ids.AgentID
	OfferedResources   map[string]fixedpoint.Decimal
	RequestedResources map[string]fixedpoint.Decimal
	CreatedAtTick      uint64
	ExpiresAtTick      uint64
	LocationID         ids.LocationID
}

// Propose validates and creates a pending trade offer, deducting the
// offerer's energy cost. Does not check co-location; the caller is
// responsible for that before invoking Propose (design doc §4.J note).
func Propose(offerer *agent.AgentState, targetID ids.AgentID, offered, requested map[string]fixedpoint.Decimal, currentTick, expiryTicks uint64) (*Offer, error) {
	if len(offered) == 0 {
		return nil, ErrEmptyOffer
	}
	if len(requested) == 0 {
		return nil, ErrEmptyRequest
	}
	for resource, qty := range offered {
		if !offerer.Inventory.Has(resource, qty) {
			return nil, fmt.Errorf("trade: offerer lacks %s of %s", qty, resource)
		}
	}

	vitals.AdjustEnergy(offerer, offerEnergyCost.Neg())

	return &Offer{
		ID:                 ids.NewTradeID(),
		OffererID:          offerer.AgentID,
		TargetID:           targetID,
		OfferedResources:   offered,
		RequestedResources: requested,
		CreatedAtTick:      currentTick,
		ExpiresAtTick:      currentTick + expiryTicks,
		LocationID:         offerer.Location,
	}, nil
}

// AcceptResult reports the completed swap.
type AcceptResult struct {
	Trade *Offer
}

// Accept re-validates co-location and inventories, then executes the
// bidirectional swap through the ledger so the debit/credit pair is
// recorded for conservation verification.
func Accept(offerer, target *agent.AgentState, o *Offer, led *ledger.Ledger, currentTick uint64) (*AcceptResult, error) {
	if offerer.Location != o.LocationID || target.Location != o.LocationID {
		return nil, ErrNotCoLocated
	}
	for resource, qty := range o.OfferedResources {
		if !offerer.Inventory.Has(resource, qty) {
			return nil, ErrOffererShortfall
		}
	}
	for resource, qty := range o.RequestedResources {
		if !target.Inventory.Has(resource, qty) {
			return nil, ErrTargetShortfall
		}
	}

	for resource, qty := range o.OfferedResources {
		if err := swapAndRecord(offerer, target, resource, qty, led, currentTick, o.ID); err != nil {
			return nil, err
		}
	}
	for resource, qty := range o.RequestedResources {
		if err := swapAndRecord(target, offerer, resource, qty, led, currentTick, o.ID); err != nil {
			return nil, err
		}
	}

	return &AcceptResult{Trade: o}, nil
}

func swapAndRecord(from, to *agent.AgentState, resource string, qty fixedpoint.Decimal, led *ledger.Ledger, tick uint64, tradeID ids.TradeID) error {
	if err := led.RecordAgentTransfer(ledger.TransferParams{
		Tick:         tick,
		Resource:     resource,
		Quantity:     qty,
		From:         from.AgentID,
		To:           to.AgentID,
		Reason:       "trade",
		ReferenceID:  tradeID.String(),
	}); err != nil {
		return err
	}
	from.Inventory[resource] = from.Inventory[resource].Sub(qty)
	to.Inventory[resource] = to.Inventory[resource].Add(qty)
	return nil
}

// Reject discards a pending trade; no state changes occur beyond the
// caller removing it from their pending-trade registry.
func Reject(o *Offer) {
	_ = o
}

// Expire returns every offer in offers whose ExpiresAtTick has been
// reached (currentTick >= ExpiresAtTick).
func Expire(offers []*Offer, currentTick uint64) []*Offer {
	var expired []*Offer
	for _, o := range offers {
		if currentTick >= o.ExpiresAtTick {
			expired = append(expired, o)
		}
	}
	return expired
}
