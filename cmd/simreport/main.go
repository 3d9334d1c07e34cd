// Command simreport is a one-shot inspector: it opens a scenario
// database produced by cmd/scenario and prints a human-readable
// summary of the agents, ledger activity, and events it holds.
// Grounded on the teacher's persistence.DB query surface and
// engine.Simulation's daily "events_this_week"-style reporting line,
// but reading from disk instead of from a live in-memory run.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/storage"
)

func main() {
	dbPath := flag.String("db", "scenario.sqlite", "sqlite database path, as produced by cmd/scenario")
	flag.Parse()

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer db.Close()

	identities, states, err := db.LoadAgents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load agents: %v\n", err)
		os.Exit(1)
	}
	entries, err := db.LoadLedgerEntries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load ledger entries: %v\n", err)
		os.Exit(1)
	}
	raw, err := db.LoadEventsRaw()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load events: %v\n", err)
		os.Exit(1)
	}

	seed, _ := db.GetMeta("seed")
	lastTick, _ := db.GetMeta("last_tick")

	fmt.Printf("scenario report -- seed %s, %s ticks\n", seed, lastTick)
	fmt.Printf("  agents:         %s\n", humanize.Comma(int64(len(identities))))
	fmt.Printf("  living:         %s\n", humanize.Comma(int64(countLiving(states))))
	fmt.Printf("  ledger entries: %s\n", humanize.Comma(int64(len(entries))))
	fmt.Printf("  events:         %s\n", humanize.Comma(int64(len(raw))))

	byKind := make(map[string]int)
	for _, e := range raw {
		byKind[string(e.Kind)]++
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Println("  event breakdown:")
	for _, k := range kinds {
		fmt.Printf("    %-24s %s\n", k, humanize.Comma(int64(byKind[k])))
	}

	var totalQty float64
	byResource := make(map[string]int64)
	for _, e := range entries {
		byResource[e.Resource]++
		totalQty += float64(e.Quantity.Micro()) / 1_000_000
	}
	resources := make([]string, 0, len(byResource))
	for r := range byResource {
		resources = append(resources, r)
	}
	sort.Strings(resources)
	fmt.Println("  ledger activity:")
	for _, r := range resources {
		fmt.Printf("    %-16s %s entries\n", r, humanize.Comma(int64(byResource[r])))
	}
	fmt.Printf("  total quantity moved: %s\n", humanize.CommafWithDigits(totalQty, 2))

	for i, ag := range identities {
		state := states[i]
		fmt.Printf("  agent %-10s energy=%s health=%s age=%d alive=%v\n",
			ag.Name, state.Energy, state.Health, state.Age, state.Alive)
	}
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
