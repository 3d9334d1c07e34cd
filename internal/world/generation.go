// World generation seeds a Location graph deterministically from a
// simulation seed — design doc §9 "Random determinism" and §3
// "Location". Grounded directly on the teacher's
// internal/world/generation.go, which layers three opensimplex noise
// fields (elevation/rainfall/temperature) over a hex grid and derives
// terrain/resources from thresholds; this retargets the same layered-
// noise technique from hex tiles to an arbitrary-sized location graph's
// per-resource-node base yields, and replaces the teacher's
// math/rand.Int63() seed fallback (non-deterministic) with a
// caller-supplied seed, since spec.md requires replay-from-seed.
package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/emergence/internal/fixedpoint"
)

// GenConfig holds world generation parameters — grounded on the
// teacher's GenConfig/DefaultGenConfig/SmallTestConfig shape.
type GenConfig struct {
	LocationCount int
	Seed          int64
	Regions       []string
	ResourceIDs   []string
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		LocationCount: 40,
		Seed:          1,
		Regions:       []string{"north", "south", "east", "west", "central"},
		ResourceIDs:   []string{"wood", "stone", "metal", "food_berry", "water", "herbs"},
	}
}

// SmallTestConfig returns a tiny world for fast, deterministic tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		LocationCount: 6,
		Seed:          42,
		Regions:       []string{"north", "south"},
		ResourceIDs:   []string{"wood", "stone", "food_berry", "water"},
	}
}

// Generate builds a Registry of LocationCount locations, each seeded
// with base resource nodes derived from two independent noise layers
// (abundance and regen rate), plus a RouteRegistry connecting them in a
// ring so every graph is connected from tick zero.
func Generate(cfg GenConfig) (*Registry, *RouteRegistry) {
	abundanceNoise := opensimplex.NewNormalized(cfg.Seed)
	regenNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	reg := NewRegistry()
	locs := make([]*Location, 0, cfg.LocationCount)

	for i := 0; i < cfg.LocationCount; i++ {
		region := cfg.Regions[i%len(cfg.Regions)]
		loc := NewLocation(locationName(i), region, "settlement_site", 50+i%20)

		for _, resourceID := range cfg.ResourceIDs {
			x := float64(i) * 0.37
			y := float64(hashString(resourceID)) * 0.11
			abundance := abundanceNoise.Eval2(x, y)   // 0..1
			regen := regenNoise.Eval2(x+100, y+100)    // 0..1

			maxCap := fixedpoint.FromInt(int64(20 + int(abundance*80)))
			loc.Resources[resourceID] = &ResourceNode{
				Available:    maxCap,
				RegenPerTick: fixedpoint.FromMicro(int64(regen * 500_000)), // 0..0.5 per tick
				MaxCapacity:  maxCap,
			}
		}

		reg.Add(loc)
		locs = append(locs, loc)
	}

	routes := connectRing(locs)
	return reg, routes
}

// connectRing builds routes so every location has at least two
// neighbors (a ring), giving a deterministic, fully-connected starting
// graph. Built routes start at PathNone grade with no durability, per
// design doc §4.E — upgrades happen through normal play.
func connectRing(locs []*Location) *RouteRegistry {
	routes := NewRouteRegistry()
	n := len(locs)
	if n < 2 {
		return routes
	}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		routes.Add(NewRoute(locs[i].ID, locs[next].ID, true, nil, 0))
	}
	return routes
}

func locationName(i int) string {
	names := []string{
		"Rivermouth", "Stonegate", "Willowfen", "Ashcroft", "Thornwick",
		"Millbrook", "Oakhaven", "Fenwall", "Graystone", "Brackwater",
	}
	base := names[i%len(names)]
	if i >= len(names) {
		return base + "-" + itoa(i)
	}
	return base
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
