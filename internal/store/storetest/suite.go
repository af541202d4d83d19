// Package storetest holds a conformance suite run against every store driver.
// It exercises the ordering contract: dense positions per owner, append-at-end
// create, gap-closing delete and interval-shifting reposition, including the
// concurrent-create race.
package storetest

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/store"
)

// Run exercises the compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	owner := newUser(t, s, "owner")
	other := newUser(t, s, "other")

	// Append-at-end: each create lands on position n, siblings untouched.
	var created []*model.SavedSearch
	for i := 0; i < 5; i++ {
		before := listPositions(t, s, owner)
		ss, err := s.Searches().Create(ctx, &model.SavedSearch{
			OwnerID: owner, Name: "search", Query: "in:inbox",
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if ss.Position != i {
			t.Fatalf("Create %d: position=%d want %d", i, ss.Position, i)
		}
		after := listPositions(t, s, owner)
		for id, p := range before {
			if after[id] != p {
				t.Fatalf("Create %d moved sibling %s from %d to %d", i, id, p, after[id])
			}
		}
		created = append(created, ss)
	}
	assertDense(t, s, owner)

	// One record for the other owner; it must never move below.
	otherSearch, err := s.Searches().Create(ctx, &model.SavedSearch{
		OwnerID: other, Name: "untouched", Query: "is:starred",
	})
	if err != nil {
		t.Fatalf("Create other: %v", err)
	}

	// ResolveOwner.
	if got, err := s.Searches().ResolveOwner(ctx, created[0].SearchID); err != nil || got != owner {
		t.Fatalf("ResolveOwner: got=%q err=%v", got, err)
	}
	if _, err := s.Searches().ResolveOwner(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("ResolveOwner missing: err=%v want ErrNotFound", err)
	}

	// Reposition forward: 1 -> 3 over [0,1,2,3,4].
	moved, err := s.Searches().Update(ctx, model.UpdateSearchRequest{
		OwnerID: owner, SearchID: created[1].SearchID, Position: intp(3),
	})
	if err != nil {
		t.Fatalf("Update forward: %v", err)
	}
	if moved.Position != 3 {
		t.Fatalf("Update forward: position=%d want 3", moved.Position)
	}
	wantAfterForward := map[string]int{
		created[0].SearchID: 0,
		created[2].SearchID: 1,
		created[3].SearchID: 2,
		created[1].SearchID: 3,
		created[4].SearchID: 4,
	}
	assertPositions(t, s, owner, wantAfterForward)

	// Reposition backward: the record now at 3 goes back to 1.
	if _, err := s.Searches().Update(ctx, model.UpdateSearchRequest{
		OwnerID: owner, SearchID: created[1].SearchID, Position: intp(1),
	}); err != nil {
		t.Fatalf("Update backward: %v", err)
	}
	wantOriginal := map[string]int{
		created[0].SearchID: 0,
		created[1].SearchID: 1,
		created[2].SearchID: 2,
		created[3].SearchID: 3,
		created[4].SearchID: 4,
	}
	assertPositions(t, s, owner, wantOriginal)

	// No-op reposition: same position, fields still applied, nothing moves.
	renamed, err := s.Searches().Update(ctx, model.UpdateSearchRequest{
		OwnerID: owner, SearchID: created[2].SearchID, Position: intp(2), Name: strp("renamed"),
	})
	if err != nil {
		t.Fatalf("Update no-op: %v", err)
	}
	if renamed.Name != "renamed" || renamed.Position != 2 {
		t.Fatalf("Update no-op: got name=%q position=%d", renamed.Name, renamed.Position)
	}
	assertPositions(t, s, owner, wantOriginal)

	// Fields-only update (no position requested).
	if out, err := s.Searches().Update(ctx, model.UpdateSearchRequest{
		OwnerID: owner, SearchID: created[2].SearchID, Query: strp("in:archive"),
	}); err != nil || out.Query != "in:archive" || out.Position != 2 {
		t.Fatalf("Update fields-only: out=%+v err=%v", out, err)
	}

	// Out-of-range reposition: typed error, no writes.
	for _, bad := range []int{-1, 5, 42} {
		if _, err := s.Searches().Update(ctx, model.UpdateSearchRequest{
			OwnerID: owner, SearchID: created[0].SearchID, Position: intp(bad),
		}); !errors.Is(err, model.ErrInvalidPosition) {
			t.Fatalf("Update out-of-range %d: err=%v want ErrInvalidPosition", bad, err)
		}
		assertPositions(t, s, owner, wantOriginal)
	}

	// Wrong-owner mutations observe no record.
	if err := s.Searches().Delete(ctx, other, created[0].SearchID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete wrong owner: err=%v want ErrNotFound", err)
	}
	assertPositions(t, s, owner, wantOriginal)

	// Delete closes the gap: removing position 2 of 5.
	if err := s.Searches().Delete(ctx, owner, created[2].SearchID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertPositions(t, s, owner, map[string]int{
		created[0].SearchID: 0,
		created[1].SearchID: 1,
		created[3].SearchID: 2,
		created[4].SearchID: 3,
	})

	// Other owner's sequence never moved.
	if got, err := s.Searches().GetByID(ctx, other, otherSearch.SearchID); err != nil || got.Position != 0 {
		t.Fatalf("other owner: got=%+v err=%v", got, err)
	}

	// Batch read groups by owner, ordered by position.
	byOwner, err := s.Searches().ListByOwners(ctx, []string{owner, other, "nobody"})
	if err != nil {
		t.Fatalf("ListByOwners: %v", err)
	}
	if len(byOwner[owner]) != 4 || len(byOwner[other]) != 1 || len(byOwner["nobody"]) != 0 {
		t.Fatalf("ListByOwners sizes: owner=%d other=%d", len(byOwner[owner]), len(byOwner[other]))
	}
	for i, ss := range byOwner[owner] {
		if ss.Position != i {
			t.Fatalf("ListByOwners order: index %d has position %d", i, ss.Position)
		}
	}

	t.Run("ConcurrentCreate", func(t *testing.T) { concurrentCreate(t, s) })
	t.Run("RandomOps", func(t *testing.T) { randomOps(t, s) })
}

// concurrentCreate races appends for one owner; afterwards the positions must
// be exactly {0..n-1} with every create either succeeding or failing typed.
func concurrentCreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := newUser(t, s, "race")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Searches().Create(ctx, &model.SavedSearch{
				OwnerID: owner, Name: "racer", Query: "q",
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrConflictRetryExhausted):
			// acceptable: the conflict was detected, nothing corrupted
		default:
			t.Fatalf("create %d: unexpected error %v", i, err)
		}
	}
	if ok == 0 {
		t.Fatalf("no concurrent create succeeded")
	}
	assertDense(t, s, owner)
}

// randomOps runs a random sequence of valid create/delete/reposition calls and
// checks the dense invariant after every step.
func randomOps(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := newUser(t, s, "randomops")
	rng := rand.New(rand.NewSource(1))

	var ids []string
	for step := 0; step < 40; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(ids) == 0:
			ss, err := s.Searches().Create(ctx, &model.SavedSearch{
				OwnerID: owner, Name: "n", Query: "q",
			})
			if err != nil {
				t.Fatalf("step %d create: %v", step, err)
			}
			ids = append(ids, ss.SearchID)
		case op == 1:
			i := rng.Intn(len(ids))
			if err := s.Searches().Delete(ctx, owner, ids[i]); err != nil {
				t.Fatalf("step %d delete: %v", step, err)
			}
			ids = append(ids[:i], ids[i+1:]...)
		default:
			i := rng.Intn(len(ids))
			target := rng.Intn(len(ids))
			if _, err := s.Searches().Update(ctx, model.UpdateSearchRequest{
				OwnerID: owner, SearchID: ids[i], Position: intp(target),
			}); err != nil {
				t.Fatalf("step %d move to %d: %v", step, target, err)
			}
		}
		assertDense(t, s, owner)
	}
}

func newUser(t *testing.T, s store.Store, label string) string {
	t.Helper()
	id := label + "-" + uuid.New().String()
	if _, err := s.Users().Create(context.Background(), &model.User{
		UserID: id, Email: id + "@example.test",
	}); err != nil {
		t.Fatalf("CreateUser %s: %v", label, err)
	}
	return id
}

func listPositions(t *testing.T, s store.Store, ownerID string) map[string]int {
	t.Helper()
	lst, err := s.Searches().ListByOwner(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	out := make(map[string]int, len(lst))
	for _, ss := range lst {
		out[ss.SearchID] = ss.Position
	}
	return out
}

// assertDense verifies positions are exactly {0..n-1} with no duplicates.
func assertDense(t *testing.T, s store.Store, ownerID string) {
	t.Helper()
	lst, err := s.Searches().ListByOwner(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	seen := make(map[int]bool, len(lst))
	for _, ss := range lst {
		if ss.Position < 0 || ss.Position >= len(lst) {
			t.Fatalf("position %d out of range for %d records", ss.Position, len(lst))
		}
		if seen[ss.Position] {
			t.Fatalf("duplicate position %d", ss.Position)
		}
		seen[ss.Position] = true
	}
}

func assertPositions(t *testing.T, s store.Store, ownerID string, want map[string]int) {
	t.Helper()
	got := listPositions(t, s, ownerID)
	if len(got) != len(want) {
		t.Fatalf("record count: got %d want %d", len(got), len(want))
	}
	for id, p := range want {
		if got[id] != p {
			t.Fatalf("search %s: position %d want %d (all: %v)", id, got[id], p, got)
		}
	}
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
