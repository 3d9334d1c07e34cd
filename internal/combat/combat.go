// Package combat implements the power formula, attack resolution,
// intimidation, and loot transfer — design doc component K. Grounded
// on the original simulation's actions/combat.rs (integer power
// formula, MIN_DAMAGE floor, intimidation's 150% power-ratio gate, and
// loot capped at one unit of up to 5 resource types from the loser),
// ported into the teacher's idiom with loot routed through
// internal/ledger rather than a bare inventory mutation, per spec.md
// §9's resolution that combat loot must produce ledger entries.
package combat

import (
	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
	"github.com/talgya/emergence/internal/ledger"
	"github.com/talgya/emergence/internal/vitals"
)

const (
	AttackEnergyCost     = 20
	DefendEnergyCost     = 10
	IntimidateEnergyCost = 10
	MinDamage            = 5
	MaxLootItems         = 5

	intimidationThresholdPct = 150
	intimidationEnergyLoss   = 10
)

// Intent is the kind of combat action taken.
type Intent uint8

const (
	IntentAttack Intent = iota
	IntentIntimidate
)

// Context bundles the world state needed to resolve one combat
// encounter.
type Context struct {
	AttackerPersonality agent.Personality
	DefenderPersonality agent.Personality
	AttackerHealth      int64
	DefenderHealth      int64
	AttackerEnergy      int64
	DefenderEnergy      int64
	AttackerHasTool         bool
	AttackerHasAdvancedTool bool
	DefenderHasTool         bool
	DefenderHasAdvancedTool bool
	AttackerAlliesCount int64
	DefenderAlliesCount int64
}

// ComputePower implements the design doc §4.K power formula:
// health/4 + aggression*5 + energy/10 + tool bonus (best of +3/+5, not
// additive) + 2 per ally.
func ComputePower(health, energy int64, personality agent.Personality, hasTool, hasAdvancedTool bool, alliesCount int64) int64 {
	power := health / 4
	power += personality.Aggression.Mul(fixedpoint.FromInt(5)).Floor()
	power += energy / 10
	switch {
	case hasAdvancedTool:
		power += 5
	case hasTool:
		power += 3
	}
	power += alliesCount * 2
	if power < 0 {
		power = 0
	}
	return power
}

// Result is the outcome of one resolved encounter.
type Result struct {
	AttackerID          ids.AgentID
	DefenderID          ids.AgentID
	Intent              Intent
	Winner              *ids.AgentID
	AttackerDamage      int64
	DefenderDamage      int64
	AttackerEnergyCost  int64
	DefenderEnergyCost  int64
	LootResources       []string // resources looted, one unit each, capped at MaxLootItems
	AttackerDied        bool
	DefenderDied        bool
	LocationID          ids.LocationID
}

// Resolve resolves a combat action per intent against ctx and the
// defender's inventory (used only to compute which resources are
// lootable; the actual transfer happens in Apply).
func Resolve(attackerID, defenderID ids.AgentID, intent Intent, locationID ids.LocationID, ctx Context, defenderInventory agent.Inventory) Result {
	switch intent {
	case IntentIntimidate:
		return resolveIntimidate(attackerID, defenderID, locationID, ctx)
	default:
		return resolveAttack(attackerID, defenderID, locationID, ctx, defenderInventory)
	}
}

func resolveAttack(attackerID, defenderID ids.AgentID, locationID ids.LocationID, ctx Context, defenderInventory agent.Inventory) Result {
	attackerPower := ComputePower(ctx.AttackerHealth, ctx.AttackerEnergy, ctx.AttackerPersonality, ctx.AttackerHasTool, ctx.AttackerHasAdvancedTool, ctx.AttackerAlliesCount)
	defenderPower := ComputePower(ctx.DefenderHealth, ctx.DefenderEnergy, ctx.DefenderPersonality, ctx.DefenderHasTool, ctx.DefenderHasAdvancedTool, ctx.DefenderAlliesCount)

	var winner *ids.AgentID
	var attackerDamage, defenderDamage int64 = MinDamage, MinDamage
	switch {
	case attackerPower > defenderPower:
		w := attackerID
		winner = &w
		diff := attackerPower - defenderPower
		defenderDamage = maxInt64(diff*2, MinDamage)
	case defenderPower > attackerPower:
		w := defenderID
		winner = &w
		diff := defenderPower - attackerPower
		attackerDamage = maxInt64(diff*2, MinDamage)
	}

	var loot []string
	if winner != nil {
		loot = computeLoot(defenderInventory)
	}

	return Result{
		AttackerID:         attackerID,
		DefenderID:         defenderID,
		Intent:             IntentAttack,
		Winner:             winner,
		AttackerDamage:     attackerDamage,
		DefenderDamage:     defenderDamage,
		AttackerEnergyCost: AttackEnergyCost,
		DefenderEnergyCost: DefendEnergyCost,
		LootResources:      loot,
		AttackerDied:       ctx.AttackerHealth <= attackerDamage,
		DefenderDied:       ctx.DefenderHealth <= defenderDamage,
		LocationID:         locationID,
	}
}

func resolveIntimidate(attackerID, defenderID ids.AgentID, locationID ids.LocationID, ctx Context) Result {
	attackerPower := ComputePower(ctx.AttackerHealth, ctx.AttackerEnergy, ctx.AttackerPersonality, ctx.AttackerHasTool, ctx.AttackerHasAdvancedTool, ctx.AttackerAlliesCount)
	defenderPower := ComputePower(ctx.DefenderHealth, ctx.DefenderEnergy, ctx.DefenderPersonality, ctx.DefenderHasTool, ctx.DefenderHasAdvancedTool, ctx.DefenderAlliesCount)

	succeeded := attackerPower*100 > defenderPower*intimidationThresholdPct

	var winner *ids.AgentID
	defenderEnergyCost := int64(0)
	if succeeded {
		w := attackerID
		winner = &w
		defenderEnergyCost = intimidationEnergyLoss
	}

	return Result{
		AttackerID:         attackerID,
		DefenderID:         defenderID,
		Intent:             IntentIntimidate,
		Winner:             winner,
		AttackerEnergyCost: IntimidateEnergyCost,
		DefenderEnergyCost: defenderEnergyCost,
		LocationID:         locationID,
	}
}

// computeLoot takes one unit of each of up to MaxLootItems resources
// present in inventory, in sorted order for determinism.
func computeLoot(inventory agent.Inventory) []string {
	var loot []string
	for _, resource := range inventory.SortedResources() {
		if len(loot) >= MaxLootItems {
			break
		}
		if inventory[resource].Sign() > 0 {
			loot = append(loot, resource)
		}
	}
	return loot
}

// IntimidationRelationshipTarget is the relationship score a successful
// intimidation sets the victim's relationship with the intimidator to.
var IntimidationRelationshipTarget = fixedpoint.FromPer10000(-8000) // -0.8

// Apply applies a resolved result's health/energy costs to both agent
// states and, on a decisive attack, transfers loot through the ledger
// (loser debited, winner credited) so the conservation invariant holds.
func Apply(attacker, defender *agent.AgentState, result Result, led *ledger.Ledger, tick uint64) (attackerDied, defenderDied bool) {
	attacker.Health = attacker.Health.Sub(fixedpoint.FromInt(result.AttackerDamage)).Clamp(fixedpoint.Zero, fixedpoint.FromInt(100))
	defender.Health = defender.Health.Sub(fixedpoint.FromInt(result.DefenderDamage)).Clamp(fixedpoint.Zero, fixedpoint.FromInt(100))
	vitals.AdjustEnergy(attacker, fixedpoint.FromInt(-result.AttackerEnergyCost))
	vitals.AdjustEnergy(defender, fixedpoint.FromInt(-result.DefenderEnergyCost))

	if result.Winner != nil && len(result.LootResources) > 0 {
		winner, loser := defender, attacker
		if *result.Winner == attacker.AgentID {
			winner, loser = attacker, defender
		}
		for _, resource := range result.LootResources {
			have, ok := loser.Inventory[resource]
			if !ok || have.Sign() <= 0 {
				continue
			}
			qty := fixedpoint.FromInt(1)
			if err := led.RecordAgentTransfer(ledger.TransferParams{
				Tick: tick, Resource: resource, Quantity: qty,
				From: loser.AgentID, To: winner.AgentID, Reason: "combat_loot",
			}); err != nil {
				continue
			}
			loser.Inventory[resource] = loser.Inventory[resource].Sub(qty)
			winner.Inventory[resource] = winner.Inventory[resource].Add(qty)
		}
	}

	return attacker.Health.IsZero(), defender.Health.IsZero()
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
