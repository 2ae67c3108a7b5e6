// Package journal keeps a local history of apply batches so the user can
// review what a renumbering actually did and undo the latest one.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"foldsort/internal/renumber"
)

// Kind labels why a batch of renames ran.
const (
	KindRenumber = "renumber"
	KindClear    = "clear"
	KindUndo     = "undo"
)

// Rename is one recorded entry outcome.
type Rename struct {
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// Apply is one recorded batch.
type Apply struct {
	ID        int64     `json:"id"`
	Dir       string    `json:"dir"`
	Kind      string    `json:"kind"`
	AppliedAt time.Time `json:"appliedAt"`
	Total     int       `json:"total"`
	Failed    int       `json:"failed"`
	Renames   []Rename  `json:"renames,omitempty"`
}

// Journal is a sqlite-backed apply log. Safe for use from one process;
// WAL + busy_timeout keep concurrent CLI invocations from tripping over
// each other.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS applies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dir TEXT NOT NULL,
			kind TEXT NOT NULL,
			applied_at_unixms INTEGER NOT NULL,
			total INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_applies_dir ON applies(dir, applied_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS renames (
			apply_id INTEGER NOT NULL REFERENCES applies(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			from_name TEXT NOT NULL,
			to_name TEXT,
			outcome TEXT NOT NULL,
			reason TEXT,
			PRIMARY KEY(apply_id, seq)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

// Record stores one apply batch and its per-entry outcomes.
func (j *Journal) Record(ctx context.Context, kind string, res renumber.Result) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO applies(dir, kind, applied_at_unixms, total, failed) VALUES(?, ?, ?, ?, ?)`,
		filepath.Clean(res.Dir), kind, time.Now().UnixMilli(), len(res.Entries), res.Failed)
	if err != nil {
		return 0, err
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}
	for i, e := range res.Entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO renames(apply_id, seq, from_name, to_name, outcome, reason) VALUES(?, ?, ?, ?, ?, ?)`,
			id, i, e.From, e.To, string(e.Outcome), string(e.Reason)); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Recent returns the latest batches for a directory, newest first, with
// their per-entry outcomes attached.
func (j *Journal) Recent(ctx context.Context, dir string, limit int) ([]Apply, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, dir, kind, applied_at_unixms, total, failed
		 FROM applies WHERE dir = ? ORDER BY applied_at_unixms DESC, id DESC LIMIT ?`,
		filepath.Clean(dir), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Apply
	for rows.Next() {
		var a Apply
		var ms int64
		if err := rows.Scan(&a.ID, &a.Dir, &a.Kind, &ms, &a.Total, &a.Failed); err != nil {
			return nil, err
		}
		a.AppliedAt = time.UnixMilli(ms)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		renames, err := j.renamesFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Renames = renames
	}
	return out, nil
}

func (j *Journal) renamesFor(ctx context.Context, applyID int64) ([]Rename, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT from_name, to_name, outcome, reason FROM renames WHERE apply_id = ? ORDER BY seq`, applyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rename
	for rows.Next() {
		var r Rename
		var to, reason sql.NullString
		if err := rows.Scan(&r.From, &to, &r.Outcome, &reason); err != nil {
			return nil, err
		}
		r.To = to.String
		r.Reason = reason.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastUndoable returns the newest batch for dir that actually renamed
// something, or nil when there is nothing to undo.
func (j *Journal) LastUndoable(ctx context.Context, dir string) (*Apply, error) {
	recent, err := j.Recent(ctx, dir, 50)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		for _, r := range recent[i].Renames {
			if r.Outcome == string(renumber.OutcomeRenamed) {
				return &recent[i], nil
			}
		}
	}
	return nil, nil
}

// UndoPlan builds the reverse plan for a recorded batch: every successful
// rename mapped back from its target to its original name. The plan runs
// through the normal two-phase apply, so permutations and collisions are
// handled the same way as a forward apply.
func UndoPlan(a *Apply) renumber.Plan {
	var steps []renumber.Step
	for _, r := range a.Renames {
		if r.Outcome != string(renumber.OutcomeRenamed) {
			continue
		}
		steps = append(steps, renumber.Step{
			Entry:  renumber.NewEntry(r.To, false, len(steps)),
			Target: r.From,
		})
	}
	return renumber.Plan{Steps: steps}
}

// Path returns the journal location next to a state file path.
func Path(statePath string) string {
	return filepath.Join(filepath.Dir(statePath), "journal.sqlite")
}

// PruneBefore removes batches older than cutoff, keeping the file small.
func (j *Journal) PruneBefore(ctx context.Context, cutoff time.Time) error {
	_, err := j.db.ExecContext(ctx, `DELETE FROM applies WHERE applied_at_unixms < ?`, cutoff.UnixMilli())
	if err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	return nil
}
