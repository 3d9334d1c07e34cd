package knowledge

import "github.com/talgya/emergence/internal/prng"

// Method is how a concept enters an agent's known set — design doc §4.G.
type Method uint8

const (
	MethodExperimentation Method = iota
	MethodObservation
	MethodAccidental
	MethodSeed
	MethodTaught
	MethodRead
)

// DiscoveryConfig bundles the configurable chance knobs for
// AttemptDiscovery — design doc §4.G table.
type DiscoveryConfig struct {
	ExperimentationChancePer10k int64 // default 200
}

// DefaultDiscoveryConfig returns the spec's documented defaults.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{ExperimentationChancePer10k: 200}
}

// chancePer10k maps a discovery method to its roll chance, expressed
// per 10,000 for integer comparison — design doc §4.G. curiosityPer10k
// is the agent's curiosity trait already converted to a per-10,000
// integer by the caller (curiosity * 10000).
func chancePer10k(method Method, cfg DiscoveryConfig, curiosityPer10k int64) int64 {
	switch method {
	case MethodExperimentation:
		return cfg.ExperimentationChancePer10k
	case MethodObservation:
		return curiosityPer10k * 3000 / 10000
	case MethodAccidental:
		return (cfg.ExperimentationChancePer10k / 2) * curiosityPer10k / 10000
	default:
		// Seed, Taught, Read are deterministic and never rolled here.
		return 0
	}
}

// AttemptDiscovery rolls for a new discovery by method. Returns the
// discovered concept id and true on success, or ("", false) otherwise.
// On success, a concept is picked uniformly from AvailableDiscoveries.
func AttemptDiscovery(t *Tree, known map[string]struct{}, method Method, cfg DiscoveryConfig, curiosityPer10k int64, rng *prng.Source) (string, bool) {
	if method == MethodSeed || method == MethodTaught || method == MethodRead {
		return "", false
	}
	chance := chancePer10k(method, cfg, curiosityPer10k)
	if chance <= 0 {
		return "", false
	}
	roll := rng.Per10000()
	if roll >= chance {
		return "", false
	}
	available := AvailableDiscoveries(t, known)
	if len(available) == 0 {
		return "", false
	}
	idx := rng.IntN(len(available))
	return available[idx], true
}

// TeachConfig bundles the teaching-success knobs — design doc §4.G.
type TeachConfig struct {
	BasePct  int64 // default 80
	BonusPct int64 // default 5
	MaxPct   int64 // default 99
}

// DefaultTeachConfig returns the spec's documented defaults.
func DefaultTeachConfig() TeachConfig {
	return TeachConfig{BasePct: 80, BonusPct: 5, MaxPct: 99}
}

// TeachSuccessChancePct returns min(max, base + teacherSkillLevel*bonus).
func TeachSuccessChancePct(cfg TeachConfig, teacherSkillLevel int64) int64 {
	pct := cfg.BasePct + teacherSkillLevel*cfg.BonusPct
	if pct > cfg.MaxPct {
		return cfg.MaxPct
	}
	return pct
}

// AttemptTeach rolls a teaching attempt against TeachSuccessChancePct,
// returning whether it succeeded. Roll is a uniform draw in [0,100)
// from the shared rng.
func AttemptTeach(cfg TeachConfig, teacherSkillLevel int64, rng *prng.Source) bool {
	chance := TeachSuccessChancePct(cfg, teacherSkillLevel)
	roll := int64(rng.IntN(100))
	return roll < chance
}
