// Package recording persists the diagnostics of one configuration run to
// a SQLite database: per-board outcomes, leveling coefficient ranges, and
// the synchronization verification rows. The database is the artifact an
// operator keeps from a bring-up session.
package recording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Row types, one table each.

// BoardOutcome records how far one board's bring-up got.
type BoardOutcome struct {
	Host    string
	FengID  int
	State   string
	Success bool
	Error   string
}

// LevelingRow records the committed coefficient range for one input.
type LevelingRow struct {
	Host     string
	Input    int
	CoeffMin float64
	CoeffMax float64
	Fallback bool
}

// SyncCheckRow records one board's PPS tick sanity check.
type SyncCheckRow struct {
	Host        string
	OK          bool
	FirstCount  uint64
	SecondCount uint64
	Error       string
}

// SyncDeltaRow records one board's verification delta.
type SyncDeltaRow struct {
	Host          string
	TelescopeTime uint64
	PPSCount      uint64
	PeriodTicks   uint64
	DeltaSeconds  float64
}

// Table names.
const (
	TableBoardOutcomes = "board_outcomes"
	TableLeveling      = "leveling"
	TableSyncChecks    = "sync_checks"
	TableSyncDeltas    = "sync_deltas"
)

// Recorder buffers rows and writes them to SQLite in batched
// transactions. Safe for use from concurrent dispatch workers.
type Recorder struct {
	mu sync.Mutex
	db *sql.DB

	path      string
	batchSize int
	tables    map[string]*table
	buffered  int
}

type table struct {
	structType reflect.Type
	entries    []any
}

// New creates a Recorder backed by a fresh database file. An empty path
// produces snapfleet_run_<id>.sqlite3 in the working directory. The
// recorder flushes on process exit.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "snapfleet_run_" + xid.New().String()
	}
	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, errors.Errorf("recording file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening recording database")
	}

	r := &Recorder{
		db:        db,
		path:      filename,
		batchSize: 1024,
		tables:    make(map[string]*table),
	}

	if err := r.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

// Path returns the database filename.
func (r *Recorder) Path() string {
	return r.path
}

func (r *Recorder) createTables() error {
	samples := map[string]any{
		TableBoardOutcomes: BoardOutcome{},
		TableLeveling:      LevelingRow{},
		TableSyncChecks:    SyncCheckRow{},
		TableSyncDeltas:    SyncDeltaRow{},
	}
	for name, sample := range samples {
		if err := r.createTable(name, sample); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) createTable(name string, sample any) error {
	t := reflect.TypeOf(sample)
	fields := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fields = append(fields, t.Field(i).Name)
	}

	createSQL := "CREATE TABLE " + name +
		" (\n\t" + strings.Join(fields, ",\n\t") + "\n);"
	if _, err := r.db.Exec(createSQL); err != nil {
		return errors.Wrapf(err, "creating table %s", name)
	}

	r.tables[name] = &table{structType: t}
	return nil
}

// Insert buffers one row. The row's type must match the table's sample
// type; a mismatch is a programming error.
func (r *Recorder) Insert(tableName string, row any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("recording: unknown table %s", tableName))
	}
	if reflect.TypeOf(row) != t.structType {
		panic(fmt.Sprintf("recording: row type %T does not match table %s",
			row, tableName))
	}

	t.entries = append(t.entries, row)
	r.buffered++
	if r.buffered >= r.batchSize {
		if err := r.flushLocked(); err != nil {
			panic(err)
		}
	}
}

// Flush writes all buffered rows in one transaction.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if r.buffered == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning recording transaction")
	}

	for name, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		placeholders := make([]string, t.structType.NumField())
		for i := range placeholders {
			placeholders[i] = "?"
		}
		stmt, err := tx.Prepare("INSERT INTO " + name + " VALUES (" +
			strings.Join(placeholders, ", ") + ")")
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "preparing insert into %s", name)
		}

		for _, entry := range t.entries {
			v := reflect.ValueOf(entry)
			args := make([]any, v.NumField())
			for i := range args {
				args[i] = v.Field(i).Interface()
			}
			if _, err := stmt.Exec(args...); err != nil {
				stmt.Close()
				tx.Rollback()
				return errors.Wrapf(err, "inserting into %s", name)
			}
		}

		stmt.Close()
		t.entries = nil
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing recording transaction")
	}
	r.buffered = 0

	return nil
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.db.Close()
}
