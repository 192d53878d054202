// Package migrate upgrades persisted board documents to the current schema.
//
// Documents are migrated as generic JSON maps, before they are decoded, so
// that every step can add, rename or drop fields the current types no longer
// know about. Steps run in version order from the document's version up to
// document.CurrentVersion.
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/inamate/drawboard/internal/document"
)

// ErrMigration marks a document that could not be upgraded. Loaders reject
// the document without touching the live one.
var ErrMigration = errors.New("document migration failed")

// Error reports the step that failed.
type Error struct {
	From int
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("migrate from version %d (%s): %v", e.From, e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrMigration }

// Migration upgrades a document from one version to the next.
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Migrate     func(doc map[string]any) (map[string]any, error)
}

// Result describes one applied migration.
type Result struct {
	FromVersion int
	ToVersion   int
	Description string
}

// Migrator holds the ordered migration chain.
type Migrator struct {
	migrations []Migration
	current    int
}

// OldestVersion is assumed for documents with a missing or unknown version.
const OldestVersion = 1

// NewMigrator creates a migrator targeting current.
func NewMigrator(current int) *Migrator {
	return &Migrator{current: current}
}

// Default returns the migrator with every built-in step registered.
func Default() *Migrator {
	current, _ := strconv.Atoi(document.CurrentVersion)
	m := NewMigrator(current)
	for _, mig := range steps() {
		m.Register(mig)
	}
	return m
}

// Register adds a migration, keeping the chain sorted by source version.
func (m *Migrator) Register(mig Migration) {
	m.migrations = append(m.migrations, mig)
	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].FromVersion < m.migrations[j].FromVersion
	})
}

func (m *Migrator) CurrentVersion() int { return m.current }

// NeedsMigration reports whether doc is older than the current version.
func (m *Migrator) NeedsMigration(doc map[string]any) bool {
	return m.Version(doc) < m.current
}

// Version returns the schema version declared by doc. A missing, malformed
// or unknown version yields OldestVersion.
func (m *Migrator) Version(doc map[string]any) int {
	v, ok := declared(doc)
	if !ok || v < OldestVersion || v > m.current {
		return OldestVersion
	}
	return v
}

func declared(doc map[string]any) (int, bool) {
	switch raw := doc["version"].(type) {
	case string:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int(raw), true
	default:
		return 0, false
	}
}

// Migrate upgrades a copy of doc to the current version. The input is never
// modified. Migrating a current document returns an equal copy. A document
// written by a newer schema is rejected rather than rewritten.
func (m *Migrator) Migrate(doc map[string]any) (map[string]any, []Result, error) {
	if v, ok := declared(doc); ok && v > m.current {
		return nil, nil, &Error{From: v, Step: "version check", Err: fmt.Errorf("version %d is newer than %d", v, m.current)}
	}
	from := m.Version(doc)
	data, err := deepCopy(doc)
	if err != nil {
		return nil, nil, &Error{From: from, Step: "copy", Err: err}
	}

	var results []Result
	version := from
	for _, mig := range m.migrations {
		if mig.FromVersion < version || mig.ToVersion > m.current {
			continue
		}
		migrated, err := mig.Migrate(data)
		if err != nil {
			return nil, results, &Error{From: from, Step: mig.Description, Err: err}
		}
		data = migrated
		version = mig.ToVersion
		results = append(results, Result{
			FromVersion: mig.FromVersion,
			ToVersion:   mig.ToVersion,
			Description: mig.Description,
		})
	}

	data["version"] = strconv.Itoa(m.current)
	return data, results, nil
}

// Document runs the default chain over doc.
func Document(doc map[string]any) (map[string]any, error) {
	out, _, err := Default().Migrate(doc)
	return out, err
}

func deepCopy(doc map[string]any) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
