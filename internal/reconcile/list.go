// Package reconcile keeps a cached copy of a server-owned list in step with
// the mutations issued against it.
package reconcile

import (
	"context"
	"log"
	"sync"
)

// PartialError reports that the primary mutation succeeded but a dependent
// step did not. The primary result is kept.
type PartialError struct {
	Step string
	Err  error
}

func (e *PartialError) Error() string {
	return e.Step + " failed: " + e.Err.Error()
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// List is a cached server list keyed by integer id.
//
// Each refetch and mutation takes a sequence number when issued. A refetch
// result is dropped if a change issued after it has already been applied, so
// a slow reload never overwrites newer local state. A first load in that
// position is merged with the local changes instead.
type List[T any] struct {
	mu      sync.Mutex
	fetch   func(ctx context.Context) ([]T, error)
	id      func(T) int
	items   []T
	loaded  bool
	issued  uint64
	applied uint64
	// floor is the first sequence number issued after the last Invalidate.
	floor uint64
	// removed holds ids deleted before the first load finished.
	removed map[int]struct{}
}

func New[T any](fetch func(ctx context.Context) ([]T, error), id func(T) int) *List[T] {
	return &List[T]{fetch: fetch, id: id}
}

func (l *List[T]) next() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Items returns the cached list, loading it on first use.
func (l *List[T]) Items(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	if l.loaded {
		items := l.snapshot()
		l.mu.Unlock()
		return items, nil
	}
	l.mu.Unlock()
	return l.Refetch(ctx)
}

// Snapshot returns a copy of the cached list without loading it.
func (l *List[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *List[T]) snapshot() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Invalidate forgets the cached list; the next Items call reloads it.
func (l *List[T]) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.loaded = false
	l.removed = nil
	l.issued++
	l.applied = l.issued
	l.floor = l.issued
}

// Refetch reloads the list from the server. On failure the cached list is
// left as it was.
func (l *List[T]) Refetch(ctx context.Context) ([]T, error) {
	seq := l.next()
	items, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if items == nil {
		items = []T{}
	}
	if seq < l.applied {
		if !l.loaded && seq >= l.floor {
			l.merge(items)
		}
		return l.snapshot(), nil
	}
	l.items = items
	l.loaded = true
	l.removed = nil
	l.applied = seq
	return l.snapshot(), nil
}

// merge completes a first load that finished after newer mutations were
// applied: the fetched list is kept and the local changes are laid over it.
func (l *List[T]) merge(fetched []T) {
	local := l.items
	l.items = fetched[:0:0]
	for _, it := range fetched {
		if _, gone := l.removed[l.id(it)]; !gone {
			l.items = append(l.items, it)
		}
	}
	for _, it := range local {
		l.upsert(it)
	}
	l.loaded = true
	l.removed = nil
}

// Append runs create and, when the server reports the new id, appends
// build(id) to the cached list without reloading it. A failed create never
// reaches the list; an unreported id triggers a reload instead.
func (l *List[T]) Append(ctx context.Context, create func(ctx context.Context) (int, error), build func(id int) T) (T, error) {
	return l.AppendThen(ctx, create, build, nil)
}

// AppendThen is Append followed by a dependent step on the created id. If
// the step fails the created record is kept, the list is reloaded and a
// *PartialError is returned alongside the record.
func (l *List[T]) AppendThen(ctx context.Context, create func(ctx context.Context) (int, error), build func(id int) T, then func(ctx context.Context, id int) error) (T, error) {
	seq := l.next()
	id, err := create(ctx)
	if err != nil {
		var zero T
		l.reconcile(ctx, err)
		return zero, err
	}

	item := build(id)
	if id == 0 {
		l.reconcile(ctx, nil)
	} else {
		l.mu.Lock()
		l.upsert(item)
		l.markApplied(seq)
		l.mu.Unlock()
	}

	if then == nil {
		return item, nil
	}
	if err := then(ctx, id); err != nil {
		l.reconcile(ctx, err)
		return item, &PartialError{Step: "follow-up", Err: err}
	}
	return item, nil
}

// Replace runs update and swaps the cached record with the same id for item.
func (l *List[T]) Replace(ctx context.Context, item T, update func(ctx context.Context) error) error {
	return l.Modify(ctx, l.id(item), update, func(cur *T) { *cur = item })
}

// Modify runs call and then applies fn to the cached record with the given id.
func (l *List[T]) Modify(ctx context.Context, id int, call func(ctx context.Context) error, fn func(*T)) error {
	seq := l.next()
	if err := call(ctx); err != nil {
		l.reconcile(ctx, err)
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.id(l.items[i]) == id {
			fn(&l.items[i])
			break
		}
	}
	l.markApplied(seq)
	return nil
}

// Remove runs del and drops the record from the cached list.
func (l *List[T]) Remove(ctx context.Context, id int, del func(ctx context.Context) error) error {
	seq := l.next()
	if err := del(ctx); err != nil {
		l.reconcile(ctx, err)
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0:0]
	for _, it := range l.items {
		if l.id(it) != id {
			kept = append(kept, it)
		}
	}
	l.items = kept
	if !l.loaded {
		if l.removed == nil {
			l.removed = make(map[int]struct{})
		}
		l.removed[id] = struct{}{}
	}
	l.markApplied(seq)
	return nil
}

func (l *List[T]) upsert(item T) {
	id := l.id(item)
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items[i] = item
			return
		}
	}
	l.items = append(l.items, item)
}

func (l *List[T]) markApplied(seq uint64) {
	if seq > l.applied {
		l.applied = seq
	}
}

// reconcile discards local speculation by reloading the list. cause is the
// failure that prompted it, if any.
func (l *List[T]) reconcile(ctx context.Context, cause error) {
	if _, err := l.Refetch(ctx); err != nil {
		if cause != nil {
			log.Printf("reconcile: refetch after %v failed: %v", cause, err)
			return
		}
		log.Printf("reconcile: refetch failed: %v", err)
	}
}
