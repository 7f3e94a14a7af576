package ledger

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// lockTable hands out one lock per account id. Weighted semaphores instead
// of plain mutexes so acquisition honors context deadlines: a caller that
// cannot get the lock within its budget fails with ErrUnavailable instead
// of blocking indefinitely.
type lockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*accountLock
}

type accountLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uuid.UUID]*accountLock)}
}

// acquire takes the locks for the given accounts in ascending id order, so
// two transfers moving money in opposite directions between the same pair
// of accounts can never deadlock. The returned release func is idempotent:
// the engine releases eagerly before notification dispatch and again via
// defer for the error paths.
func (t *lockTable) acquire(ctx context.Context, ids ...uuid.UUID) (release func(), err error) {
	ordered := orderIDs(ids)
	held := make([]*accountLock, 0, len(ordered))
	for i, id := range ordered {
		l := t.retain(id)
		if err := l.sem.Acquire(ctx, 1); err != nil {
			t.unref(id)
			for j := i - 1; j >= 0; j-- {
				held[j].sem.Release(1)
				t.unref(ordered[j])
			}
			return nil, err
		}
		held = append(held, l)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(ordered) - 1; i >= 0; i-- {
				held[i].sem.Release(1)
				t.unref(ordered[i])
			}
		})
	}, nil
}

// retain returns the lock for id, creating it on first use.
func (t *lockTable) retain(id uuid.UUID) *accountLock {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[id]
	if !ok {
		l = &accountLock{sem: semaphore.NewWeighted(1)}
		t.locks[id] = l
	}
	l.refs++
	return l
}

// unref drops a reference, deleting the entry once nobody holds or waits on
// it. Keeps the table from growing with every account ever touched.
func (t *lockTable) unref(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l := t.locks[id]
	l.refs--
	if l.refs == 0 {
		delete(t.locks, id)
	}
}

// orderIDs returns the ids deduplicated and sorted ascending by byte order.
func orderIDs(ids []uuid.UUID) []uuid.UUID {
	ordered := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		dup := false
		for _, seen := range ordered {
			if seen == id {
				dup = true
				break
			}
		}
		if !dup {
			ordered = append(ordered, id)
		}
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && bytes.Compare(ordered[j][:], ordered[j-1][:]) < 0; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
