// Package query caches api reads by request fingerprint until a mutation
// invalidates them.
package query

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/client/internal/otel"
	"github.com/Alturino/ordering/internal/constants"
	inOtel "github.com/Alturino/ordering/internal/otel"
)

// Key fingerprints a request by endpoint and its encoded parameters.
type Key struct {
	Endpoint string
	Params   string
}

func NewKey(endpoint string, params url.Values) Key {
	return Key{Endpoint: endpoint, Params: params.Encode()}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Endpoint
	}
	return k.Endpoint + "?" + k.Params
}

// matches reports whether k belongs to prefix, either the endpoint itself or
// one of its sub paths.
func (k Key) matches(prefix string) bool {
	return k.Endpoint == prefix || strings.HasPrefix(k.Endpoint, prefix+"/")
}

type Snapshot struct {
	Value     any
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

type entry struct {
	snapshot   Snapshot
	generation uint64
}

type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	generation uint64
	now        func() time.Time
}

func NewCache() *Cache {
	return &Cache{entries: map[Key]*entry{}, now: time.Now}
}

// Fetch runs fn and stores its outcome under key unless a newer fetch or an
// invalidation happened in the meantime. The caller always gets fn's result.
func (q *Cache) Fetch(c context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	c, span := otel.Tracer.Start(c, "Cache Fetch")
	defer span.End()

	q.mu.Lock()
	q.generation++
	generation := q.generation
	e, ok := q.entries[key]
	if !ok {
		e = &entry{}
		q.entries[key] = e
	}
	e.generation = generation
	e.snapshot.Loading = true
	q.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Cache Fetch").
		Str(constants.KEY_QUERY_KEY, key.String()).
		Uint64(constants.KEY_QUERY_GENERATION, generation).
		Str(constants.KEY_PROCESS, "fetching query").
		Logger()

	logger.Trace().Msg("fetching query")
	value, err := fn(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	current, ok := q.entries[key]
	if !ok || current.generation != generation {
		logger.Debug().Msg("discarded stale query result")
		return value, err
	}
	current.snapshot.Loading = false
	current.snapshot.Err = err
	if err == nil {
		current.snapshot.Value = value
		current.snapshot.UpdatedAt = q.now()
	}
	logger.Trace().Msg("fetched query")
	return value, err
}

// Get returns the snapshot under key. A failed fetch keeps the last value.
func (q *Cache) Get(key Key) (Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot, true
}

// Invalidate drops every entry whose endpoint is prefix or below it. Fetches
// still in flight for those keys will not be stored.
func (q *Cache) Invalidate(prefix string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	removed := 0
	for key := range q.entries {
		if key.matches(prefix) {
			delete(q.entries, key)
			removed++
		}
	}
	return removed
}

func (q *Cache) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// FetchAs is Fetch for a typed fn.
func FetchAs[T any](c context.Context, q *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	value, err := q.Fetch(c, key, func(c context.Context) (any, error) {
		return fn(c)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, _ := value.(T)
	return typed, nil
}
