package crawler

import (
	"slices"
	"sync"
)

// Record is the crawl state of one URL key.
type Record struct {
	// Visited is true once the page behind the key was fetched and processed.
	Visited bool `json:"visited"`

	// Discovered lists the URLs found on the page in extraction order.
	// Duplicates are kept.
	Discovered []string `json:"discovered"`
}

// clone returns a deep copy so callers never alias the store's slices.
func (r *Record) clone() Record {
	return Record{
		Visited:    r.Visited,
		Discovered: slices.Clone(r.Discovered),
	}
}

// Store records which URLs were visited and what each page linked to.
// Missing keys degrade to no-op, false or empty results; nothing fails.
type Store interface {
	// Add creates the record for key if it is missing and appends the
	// discovered URLs, in order, to its discovered list.
	Add(key string, discovered ...string)

	// Visited marks an existing record as visited. Missing keys are ignored.
	Visited(key string)

	// HasVisited reports whether key exists and is marked visited.
	HasVisited(key string) bool

	// Exists reports whether a record exists for key.
	Exists(key string) bool

	// Get returns a copy of the record for key.
	Get(key string) (Record, bool)
}

// Snapshot is a point-in-time copy of a store's contents.
type Snapshot map[string]Record

// Keys returns the snapshot keys in lexical order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Equal reports whether both snapshots hold the same keys, flags and
// discovered lists (order included).
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for k, r := range s {
		o, ok := other[k]
		if !ok || o.Visited != r.Visited || !slices.Equal(o.Discovered, r.Discovered) {
			return false
		}
	}
	return true
}

// Stats summarizes a snapshot.
func (s Snapshot) Stats() SnapshotStats {
	var st SnapshotStats
	for _, r := range s {
		st.Records++
		if r.Visited {
			st.Visited++
		}
		st.Discoveries += len(r.Discovered)
	}
	st.DiscoveredOnly = st.Records - st.Visited
	return st
}

// SnapshotStats contains counts derived from a snapshot.
type SnapshotStats struct {
	// Records is the number of distinct keys.
	Records int

	// Visited is the number of keys whose page was processed.
	Visited int

	// DiscoveredOnly is the number of keys that were never visited.
	DiscoveredOnly int

	// Discoveries is the total number of source to target edges.
	Discoveries int
}

// MemoryStore is the in-memory Store guarded by a single mutex.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*Record),
	}
}

// Add creates the record for key if needed and appends discovered URLs.
func (s *MemoryStore) Add(key string, discovered ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[key]
	if !ok {
		rec = &Record{Discovered: make([]string, 0)}
		s.data[key] = rec
	}
	rec.Discovered = append(rec.Discovered, discovered...)
}

// Visited marks key as visited if it exists.
func (s *MemoryStore) Visited(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.data[key]; ok {
		rec.Visited = true
	}
}

// HasVisited reports whether key is known and visited.
func (s *MemoryStore) HasVisited(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[key]
	return ok && rec.Visited
}

// Exists reports whether key has a record.
func (s *MemoryStore) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data[key]
	return ok
}

// Get returns a copy of the record for key.
func (s *MemoryStore) Get(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[key]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Snapshot copies the whole store.
func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(Snapshot, len(s.data))
	for k, rec := range s.data {
		out[k] = rec.clone()
	}
	return out
}
