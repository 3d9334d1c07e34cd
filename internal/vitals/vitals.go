// Package vitals provides capacity-bounded inventory mutation and
// energy/health clamping helpers shared by every state-machine
// component — design doc component D. Grounded on the teacher's
// GoodInventory helpers (agents/types.go IsEmpty/Clear) generalized
// from a fixed [NumGoods]int array to the spec's open resource map,
// and on agents/needs.go's clamping idiom.
package vitals

import (
	"fmt"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/fixedpoint"
)

// ErrCapacityExceeded is returned when a deposit would exceed carry
// capacity — design doc §7 "Capacity exceeded".
type ErrCapacityExceeded struct {
	Capacity fixedpoint.Decimal
	Would    fixedpoint.Decimal
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("vitals: capacity exceeded: would hold %s of %s capacity", e.Would, e.Capacity)
}

// ErrResourceShortfall is returned when a withdrawal requests more than
// is held — design doc §7 "Resource shortfall".
type ErrResourceShortfall struct {
	Resource  string
	Requested fixedpoint.Decimal
	Available fixedpoint.Decimal
}

func (e *ErrResourceShortfall) Error() string {
	return fmt.Sprintf("vitals: shortfall of %s: requested %s, have %s", e.Resource, e.Requested, e.Available)
}

// Deposit adds qty of resource to inv, rejecting the mutation entirely
// if it would push the inventory's total over capacity. A capacity of
// zero is a real limit, not "unbounded": with unbounded false, any
// positive qty is rejected. Callers that want unbounded containers —
// e.g. settlement/location stockpiles — pass unbounded true, which
// skips the capacity check.
func Deposit(inv agent.Inventory, resource string, qty, capacity fixedpoint.Decimal, unbounded bool) error {
	if qty.Sign() < 0 {
		return fmt.Errorf("vitals: deposit qty must be non-negative, got %s", qty)
	}
	if !unbounded {
		would := inv.Total().Add(qty)
		if would.Cmp(capacity) > 0 {
			return &ErrCapacityExceeded{Capacity: capacity, Would: would}
		}
	}
	inv[resource] = inv[resource].Add(qty)
	return nil
}

// Withdraw removes qty of resource from inv, failing without mutating
// state if insufficient is held.
func Withdraw(inv agent.Inventory, resource string, qty fixedpoint.Decimal) error {
	if qty.Sign() < 0 {
		return fmt.Errorf("vitals: withdraw qty must be non-negative, got %s", qty)
	}
	have := inv[resource]
	if have.Cmp(qty) < 0 {
		return &ErrResourceShortfall{Resource: resource, Requested: qty, Available: have}
	}
	remaining := have.Sub(qty)
	if remaining.IsZero() {
		delete(inv, resource)
	} else {
		inv[resource] = remaining
	}
	return nil
}

var (
	vitalFloor = fixedpoint.Zero
	vitalCeil  = fixedpoint.FromInt(100)
)

// AdjustEnergy applies delta to the agent's energy, clamped to [0,100].
func AdjustEnergy(s *agent.AgentState, delta fixedpoint.Decimal) {
	s.Energy = s.Energy.Add(delta).Clamp(vitalFloor, vitalCeil)
}

// AdjustEnergyCapped applies delta to energy, clamped to [0, cap] — used
// by the lifecycle package when an immature or aging agent's energy
// ceiling is below 100 (design doc component L).
func AdjustEnergyCapped(s *agent.AgentState, delta, cap fixedpoint.Decimal) {
	s.Energy = s.Energy.Add(delta).Clamp(vitalFloor, cap)
}

// AdjustHealth applies delta to health, clamped to [0,100], and reports
// whether the agent died as a result (health reaching exactly 0).
func AdjustHealth(s *agent.AgentState, delta fixedpoint.Decimal) (died bool) {
	s.Health = s.Health.Add(delta).Clamp(vitalFloor, vitalCeil)
	if s.Health.IsZero() {
		s.Alive = false
		return true
	}
	return false
}

// HasCapacityFor reports whether depositing qty would stay within capacity.
func HasCapacityFor(inv agent.Inventory, qty, capacity fixedpoint.Decimal) bool {
	return inv.Total().Add(qty).Cmp(capacity) <= 0
}
