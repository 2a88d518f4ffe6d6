// Package memory holds map-backed repositories. They back DB_DRIVER=memory
// and the service tests, and mirror the postgres repositories' semantics:
// sentinel errors, unique keys, ordering and pagination.
package memory

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

// guard serialises access to one repository. A transaction view shares the
// guard of its parent, which is already held, so it never locks again.
type guard struct {
	mu   *sync.Mutex
	inTx bool
}

func newGuard() guard {
	return guard{mu: &sync.Mutex{}}
}

func (g guard) lock() func() {
	if g.inTx {
		return func() {}
	}
	g.mu.Lock()
	return g.mu.Unlock
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repositories.ErrDuplicate, fmt.Sprintf(format, args...))
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func touch(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// sortItems orders items by compare, then by id so pages are stable.
func sortItems[T any](items []T, opts repositories.ListOptions, compare func(a, b T) int, id func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := compare(a, b)
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		if opts.Desc {
			return -c
		}
		return c
	})
}

// page applies offset and limit, returning the page and the total.
func page[T any](items []T, opts repositories.ListOptions) ([]T, int64) {
	total := int64(len(items))
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Offset >= len(items) {
		return []T{}, total
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items, total
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
