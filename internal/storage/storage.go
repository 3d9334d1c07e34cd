// Package storage persists the canonical JSON form of agents, ledger
// entries, and events to SQLite, and reloads it byte-for-byte. Grounded
// on the teacher's internal/persistence/db.go (schema-migration-on-open
// on an sqlx.DB over modernc.org/sqlite, one table per concern, JSON
// blob columns for nested structures). Where the teacher flattens each
// agent field into its own column, this package stores one JSON blob
// per row keyed by id -- the round-trip/idempotence property spec.md §8
// requires is about byte-identical recovery of the canonical form, not
// about being queryable by individual field, so a blob column is the
// simpler faithful choice.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/events"
	"github.com/talgya/emergence/internal/ledger"
)

// DB wraps a SQLite connection used for the canonical-form round trip.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		identity_json TEXT NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		entry_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		event_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_tick ON ledger_entries(tick);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// agentRecord is the row shape for the identity+state pair of one agent.
type agentRecord struct {
	ID           string `db:"id"`
	IdentityJSON string `db:"identity_json"`
	StateJSON    string `db:"state_json"`
}

// SaveAgents replaces the stored agent table with the given snapshot.
func (db *DB) SaveAgents(identities []agent.Agent, states []*agent.AgentState) error {
	if len(identities) != len(states) {
		return fmt.Errorf("storage: %d identities but %d states", len(identities), len(states))
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO agents (id, identity_json, state_json) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ag := range identities {
		identityJSON, err := json.Marshal(ag)
		if err != nil {
			return fmt.Errorf("marshal agent %s: %w", ag.ID, err)
		}
		stateJSON, err := json.Marshal(states[i])
		if err != nil {
			return fmt.Errorf("marshal agent state %s: %w", ag.ID, err)
		}
		if _, err := stmt.Exec(ag.ID.String(), string(identityJSON), string(stateJSON)); err != nil {
			return fmt.Errorf("insert agent %s: %w", ag.ID, err)
		}
	}

	return tx.Commit()
}

// LoadAgents reads every stored agent back into its canonical form.
func (db *DB) LoadAgents() ([]agent.Agent, []*agent.AgentState, error) {
	var rows []agentRecord
	if err := db.conn.Select(&rows, "SELECT id, identity_json, state_json FROM agents"); err != nil {
		return nil, nil, fmt.Errorf("load agents: %w", err)
	}

	identities := make([]agent.Agent, 0, len(rows))
	states := make([]*agent.AgentState, 0, len(rows))
	for _, r := range rows {
		var ag agent.Agent
		if err := json.Unmarshal([]byte(r.IdentityJSON), &ag); err != nil {
			return nil, nil, fmt.Errorf("unmarshal agent %s: %w", r.ID, err)
		}
		state := new(agent.AgentState)
		if err := json.Unmarshal([]byte(r.StateJSON), state); err != nil {
			return nil, nil, fmt.Errorf("unmarshal agent state %s: %w", r.ID, err)
		}
		identities = append(identities, ag)
		states = append(states, state)
	}
	return identities, states, nil
}

// SaveLedgerEntries appends entries to the ledger table.
func (db *DB) SaveLedgerEntries(entries []ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT INTO ledger_entries (tick, entry_json) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		entryJSON, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal ledger entry: %w", err)
		}
		if _, err := stmt.Exec(e.Tick, string(entryJSON)); err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}

	return tx.Commit()
}

// LoadLedgerEntries reads back every stored ledger entry in insertion order.
func (db *DB) LoadLedgerEntries() ([]ledger.Entry, error) {
	type row struct {
		EntryJSON string `db:"entry_json"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT entry_json FROM ledger_entries ORDER BY seq ASC"); err != nil {
		return nil, fmt.Errorf("load ledger entries: %w", err)
	}

	out := make([]ledger.Entry, 0, len(rows))
	for _, r := range rows {
		var e ledger.Entry
		if err := json.Unmarshal([]byte(r.EntryJSON), &e); err != nil {
			return nil, fmt.Errorf("unmarshal ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// SaveEvents appends events to the event table.
func (db *DB) SaveEvents(evts []events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT INTO events (tick, kind, event_json) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range evts {
		eventJSON, err := json.Marshal(wireEvent{Tick: e.Tick, Kind: e.Kind, Detail: e.Detail})
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := stmt.Exec(e.Tick, string(e.Kind), string(eventJSON)); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// wireEvent is the JSON shape written for an event row. Detail is
// stored as the interface's concrete value; since events.Detail carries
// no kind discriminant of its own, decoding it back to a concrete type
// requires the caller to know the Kind (see LoadEventsRaw).
type wireEvent struct {
	Tick   uint64        `json:"tick"`
	Kind   events.Kind   `json:"kind"`
	Detail events.Detail `json:"detail"`
}

// RawEvent is a stored event with its detail left as undecoded JSON,
// since Go cannot unmarshal into an interface without a discriminant
// lookup the caller must perform with the Kind field.
type RawEvent struct {
	Tick       uint64
	Kind       events.Kind
	DetailJSON []byte
}

// LoadEventsRaw reads back every stored event in insertion order,
// leaving the Detail payload as raw JSON for the caller to decode
// against the matching concrete type for Kind.
func (db *DB) LoadEventsRaw() ([]RawEvent, error) {
	type row struct {
		Tick      uint64 `db:"tick"`
		Kind      string `db:"kind"`
		EventJSON string `db:"event_json"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT tick, kind, event_json FROM events ORDER BY seq ASC"); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	out := make([]RawEvent, 0, len(rows))
	for _, r := range rows {
		var wrapper struct {
			Detail json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal([]byte(r.EventJSON), &wrapper); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		out = append(out, RawEvent{Tick: r.Tick, Kind: events.Kind(r.Kind), DetailJSON: wrapper.Detail})
	}
	return out, nil
}

// SaveMeta stores a key-value pair in world metadata (e.g. the seed and
// last-processed tick, so a reload can resume deterministically).
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
