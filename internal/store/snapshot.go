package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fable2d/fable/internal/format"
	"github.com/fable2d/fable/internal/project"
	"github.com/fable2d/fable/internal/value"
)

// ErrNoSnapshots is returned by LoadLatest on an empty archive.
var ErrNoSnapshots = errors.New("no snapshots in archive")

// Snapshot describes one archived save, without its document bytes.
type Snapshot struct {
	ID            int64  `json:"id"`
	Hash          string `json:"hash"`
	Name          string `json:"name"`
	FormatVersion int    `json:"format_version"`
	Note          string `json:"note"`
	Size          int64  `json:"size"`
	CreatedAt     string `json:"created_at"`
}

// SaveSnapshot serializes the project and archives it. The write is
// all-or-nothing, and content-identical saves deduplicate: re-saving an
// unchanged project returns the existing snapshot with inserted=false.
func (s *Store) SaveSnapshot(ctx context.Context, p *project.Project, note string) (id int64, hash string, inserted bool, err error) {
	data, err := format.Save(p)
	if err != nil {
		return 0, "", false, fmt.Errorf("save snapshot: %w", err)
	}
	hash = value.HashWithDomain(value.DomainSnapshot, data)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", false, fmt.Errorf("save snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (hash, name, format_version, note, document)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, p.Name, format.CurrentVersion, note, data)
	if err != nil {
		return 0, "", false, fmt.Errorf("save snapshot: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, "", false, fmt.Errorf("save snapshot: rows affected: %w", err)
	}

	if rowsAffected > 0 {
		id, err = result.LastInsertId()
		if err != nil {
			return 0, "", false, fmt.Errorf("save snapshot: last insert id: %w", err)
		}
		inserted = true
	} else {
		// Identical document already archived; return the existing row.
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM snapshots WHERE hash = ?
		`, hash).Scan(&id)
		if err != nil {
			return 0, "", false, fmt.Errorf("save snapshot: select existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, "", false, fmt.Errorf("save snapshot: commit: %w", err)
	}
	return id, hash, inserted, nil
}

// LoadLatest restores the most recently archived project.
func (s *Store) LoadLatest(ctx context.Context, ids project.IDSource) (*project.Project, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM snapshots ORDER BY id DESC LIMIT 1
	`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshots
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	return format.Load(data, ids)
}

// LoadByHash restores the snapshot with the given content hash.
func (s *Store) LoadByHash(ctx context.Context, hash string, ids project.IDSource) (*project.Project, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM snapshots WHERE hash = ?
	`, hash).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load snapshot %s: %w", hash, ErrNoSnapshots)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", hash, err)
	}
	return format.Load(data, ids)
}

// List returns archived snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, name, format_version, note, length(document), created_at
		FROM snapshots
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var sn Snapshot
		if err := rows.Scan(&sn.ID, &sn.Hash, &sn.Name, &sn.FormatVersion, &sn.Note, &sn.Size, &sn.CreatedAt); err != nil {
			return nil, fmt.Errorf("list snapshots: scan: %w", err)
		}
		out = append(out, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keep snapshots and returns how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: rows affected: %w", err)
	}
	return n, nil
}
