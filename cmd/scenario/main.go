// Command scenario runs a short, deterministic simulation scenario: it
// generates a world, spawns a population, steps a minimal tick loop
// that ages agents, occasionally gathers resources into the ledger,
// and emits the corresponding events, then persists the result.
// Grounded on the teacher's cmd/worldsim/main.go (flag-free fixed
// startup constants, slog reporting, persistence.Open/SaveWorldState
// at the end of a run), thinned down to exercise this module's
// library surface end to end rather than drive a full game loop.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/events"
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
	"github.com/talgya/emergence/internal/ledger"
	"github.com/talgya/emergence/internal/obslog"
	"github.com/talgya/emergence/internal/prng"
	"github.com/talgya/emergence/internal/storage"
	"github.com/talgya/emergence/internal/vitals"
	"github.com/talgya/emergence/internal/world"
)

func main() {
	seed := flag.Int64("seed", 1, "deterministic simulation seed")
	ticks := flag.Uint64("ticks", 50, "number of ticks to run")
	population := flag.Int("agents", 12, "number of agents to spawn")
	dbPath := flag.String("db", "scenario.sqlite", "output sqlite database path")
	flag.Parse()

	logger := obslog.New(slog.LevelInfo)
	slog.SetDefault(logger)

	rng := prng.New(uint64(*seed))
	genCfg := world.DefaultGenConfig()
	genCfg.Seed = *seed
	locations, _ := world.Generate(genCfg)
	allLocations := locations.All()
	if len(allLocations) == 0 {
		slog.Error("world generation produced no locations")
		os.Exit(1)
	}

	stream := events.NewStream()
	led := ledger.New()

	identities := make([]agent.Agent, 0, *population)
	states := make([]*agent.AgentState, 0, *population)
	for i := 0; i < *population; i++ {
		loc := allLocations[rng.IntN(len(allLocations))]
		ag := agent.Agent{
			ID:         ids.NewAgentID(),
			Name:       locationName(i),
			Sex:        agent.Sex(rng.IntN(2)),
			BornAtTick: 0,
			Generation: 0,
			Personality: agent.Personality{
				Curiosity:       fixedpoint.FromPer10000(int64(rng.Per10000())),
				Cooperation:     fixedpoint.FromPer10000(int64(rng.Per10000())),
				Aggression:      fixedpoint.FromPer10000(int64(rng.Per10000())),
				RiskTolerance:   fixedpoint.FromPer10000(int64(rng.Per10000())),
				Industriousness: fixedpoint.FromPer10000(int64(rng.Per10000())),
				Sociability:     fixedpoint.FromPer10000(int64(rng.Per10000())),
				Honesty:         fixedpoint.FromPer10000(int64(rng.Per10000())),
				Loyalty:         fixedpoint.FromPer10000(int64(rng.Per10000())),
			},
		}
		state := agent.NewAgentState(ag.ID, loc.ID, fixedpoint.FromInt(50))

		identities = append(identities, ag)
		states = append(states, state)
		stream.Emit(events.Event{Tick: 0, Kind: events.KindAgentBorn, Detail: events.AgentBornDetail{Agent: ag.ID, Generation: 0}})
	}

	gatherQty := fixedpoint.FromInt(1)
	for tick := uint64(1); tick <= *ticks; tick++ {
		stream.Emit(events.Event{Tick: tick, Kind: events.KindTickStart, Detail: events.TickBoundaryDetail{LivingAgents: uint32(countLiving(states))}})

		for i, state := range states {
			if !state.Alive {
				continue
			}
			state.Age++
			vitals.AdjustEnergy(state, fixedpoint.FromInt(-1))

			if rng.Per10000() < 3000 {
				if err := led.RecordEnvironmentTransfer(ledger.EnvironmentTransferParams{
					Tick:      tick,
					Resource:  "food_berry",
					Quantity:  gatherQty,
					Direction: ledger.Credit,
					Agent:     identities[i].ID,
					Reason:    "gather",
				}); err != nil {
					slog.Warn("gather transfer failed", "agent", identities[i].ID, "error", err)
				}
			}

			if died := vitals.AdjustHealth(state, fixedpoint.Zero); died {
				state.Alive = false
				stream.Emit(events.Event{Tick: tick, Kind: events.KindAgentDied, Detail: events.AgentDiedDetail{Agent: identities[i].ID, Cause: "vitals"}})
			}
		}

		stream.Emit(events.Event{Tick: tick, Kind: events.KindTickEnd, Detail: events.TickBoundaryDetail{LivingAgents: uint32(countLiving(states))}})
	}

	for tick := uint64(0); tick <= *ticks; tick++ {
		if result := led.VerifyConservation(tick); !result.Balanced {
			slog.Warn("ledger did not balance", "tick", tick, "resource", result.Resource, "delta", result.Delta)
		}
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		slog.Error("open storage", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.SaveAgents(identities, states); err != nil {
		slog.Error("save agents", "error", err)
		os.Exit(1)
	}
	if err := db.SaveLedgerEntries(led.Entries()); err != nil {
		slog.Error("save ledger entries", "error", err)
		os.Exit(1)
	}
	if err := db.SaveEvents(stream.All()); err != nil {
		slog.Error("save events", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("seed", itoa(*seed)); err != nil {
		slog.Error("save meta", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("last_tick", itoa(int64(*ticks))); err != nil {
		slog.Error("save meta", "error", err)
		os.Exit(1)
	}

	slog.Info("scenario complete",
		"seed", *seed,
		"ticks", *ticks,
		"agents", len(identities),
		"living", countLiving(states),
		"events", len(stream.All()),
		"ledger_entries", len(led.Entries()),
		"db", *dbPath,
	)
}

func countLiving(states []*agent.AgentState) int {
	n := 0
	for _, s := range states {
		if s.Alive {
			n++
		}
	}
	return n
}

func locationName(i int) string {
	names := []string{"Ada", "Borin", "Cael", "Dessa", "Elwin", "Fira", "Goron", "Hesta", "Ivo", "Juna", "Korin", "Lira"}
	return names[i%len(names)]
}

func itoa(n int64) string {
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
