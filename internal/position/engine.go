// Package position maintains the dense per-owner ordering of saved searches:
// for an owner with n records the position values are exactly {0..n-1}. Every
// mutation runs on a caller-supplied *sql.Tx so the transaction boundary (and
// therefore atomicity) stays with the caller; RunInTx provides the standard
// begin/retry/commit wrapper.
package position

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/searchrail/searchrail/internal/model"
)

// Engine computes and applies the minimal set of position updates that keep an
// owner's ordering dense across create, delete and reposition.
type Engine struct {
	d Dialect
}

func NewEngine(d Dialect) *Engine { return &Engine{d: d} }

// MoveRequest describes a reposition and/or field update for one record.
// Position nil means "fields only"; the shift logic is skipped entirely.
type MoveRequest struct {
	OwnerID  string
	SearchID string
	Name     *string
	Query    *string
	Position *int
}

// Append inserts s with position = current sibling count for the owner. The
// count is computed by the store inside the INSERT itself so no stale
// read-then-write window exists; under the dialect's isolation two concurrent
// appends for the same owner cannot commit the same slot.
func (e *Engine) Append(ctx context.Context, tx *sql.Tx, s *model.SavedSearch) error {
	if s.CreationTime.IsZero() {
		s.CreationTime = time.Now().UTC()
	}
	row := tx.QueryRowContext(ctx, e.d.Rebind(`
        INSERT INTO saved_searches (search_id, owner_id, name, query, position, creation_time)
        VALUES (?, ?, ?, ?, (SELECT COUNT(*) FROM saved_searches WHERE owner_id = ?), ?)
        RETURNING position
    `), s.SearchID, s.OwnerID, s.Name, s.Query, s.OwnerID, s.CreationTime)
	return row.Scan(&s.Position)
}

// Remove deletes the record and closes the gap: every sibling strictly after
// the victim moves down one slot. Decrement and delete share the transaction,
// so no reader ever observes the gap.
func (e *Engine) Remove(ctx context.Context, tx *sql.Tx, ownerID, searchID string) error {
	pos, err := e.currentPosition(ctx, tx, ownerID, searchID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, e.d.Rebind(`
        UPDATE saved_searches SET position = position - 1
        WHERE owner_id = ? AND position > ?
    `), ownerID, pos); err != nil {
		return fmt.Errorf("shift after delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, e.d.Rebind(`
        DELETE FROM saved_searches WHERE owner_id = ? AND search_id = ?
    `), ownerID, searchID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Move applies req. When the requested position equals the current one (or no
// position was requested) only name/query change; the shift must not run in
// that case because its predicate would treat "no change" as "move past self".
// Otherwise siblings strictly between the old and new slot move one step
// toward the vacated slot and the record lands exactly on the target.
func (e *Engine) Move(ctx context.Context, tx *sql.Tx, req MoveRequest) (*model.SavedSearch, error) {
	oldPos, err := e.currentPosition(ctx, tx, req.OwnerID, req.SearchID)
	if err != nil {
		return nil, err
	}

	newPos := oldPos
	if req.Position != nil {
		newPos = *req.Position
		var n int
		if err := tx.QueryRowContext(ctx, e.d.Rebind(`
            SELECT COUNT(*) FROM saved_searches WHERE owner_id = ?
        `), req.OwnerID).Scan(&n); err != nil {
			return nil, fmt.Errorf("count siblings: %w", err)
		}
		if newPos < 0 || newPos >= n {
			return nil, fmt.Errorf("%w: %d not in [0, %d]", model.ErrInvalidPosition, newPos, n-1)
		}
	}

	switch {
	case newPos > oldPos:
		// Record moves forward; the interval (oldPos, newPos] slides down.
		if _, err := tx.ExecContext(ctx, e.d.Rebind(`
            UPDATE saved_searches SET position = position - 1
            WHERE owner_id = ? AND position > ? AND position <= ?
        `), req.OwnerID, oldPos, newPos); err != nil {
			return nil, fmt.Errorf("shift forward: %w", err)
		}
	case newPos < oldPos:
		// Record moves backward; the interval [newPos, oldPos) slides up.
		if _, err := tx.ExecContext(ctx, e.d.Rebind(`
            UPDATE saved_searches SET position = position + 1
            WHERE owner_id = ? AND position >= ? AND position < ?
        `), req.OwnerID, newPos, oldPos); err != nil {
			return nil, fmt.Errorf("shift backward: %w", err)
		}
	}

	out := &model.SavedSearch{OwnerID: req.OwnerID, SearchID: req.SearchID}
	row := tx.QueryRowContext(ctx, e.d.Rebind(`
        UPDATE saved_searches
        SET name = COALESCE(?, name), query = COALESCE(?, query), position = ?
        WHERE owner_id = ? AND search_id = ?
        RETURNING name, query, position, creation_time
    `), req.Name, req.Query, newPos, req.OwnerID, req.SearchID)
	if err := row.Scan(&out.Name, &out.Query, &out.Position, &out.CreationTime); err != nil {
		return nil, fmt.Errorf("apply update: %w", err)
	}
	return out, nil
}

func (e *Engine) currentPosition(ctx context.Context, tx *sql.Tx, ownerID, searchID string) (int, error) {
	var pos int
	err := tx.QueryRowContext(ctx, e.d.Rebind(`
        SELECT position FROM saved_searches WHERE owner_id = ? AND search_id = ?
    `), ownerID, searchID).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, model.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}
	return pos, nil
}
