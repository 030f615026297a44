// Package dedupe tracks distinct keys for counting and report deduplication.
package dedupe

// Deduper records keys and reports whether they were already seen.
type Deduper interface {
	// SeenAndRecord checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(key string) bool

	// Seen reports whether key was recorded, without recording it.
	Seen(key string) bool

	// Keys returns the recorded keys in first-seen order.
	Keys() []string

	Size() int
}

// orderedSet implements Deduper with a map plus an insertion-ordered slice.
type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

// New creates an empty Deduper.
func New(opts ...Option) Deduper {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &orderedSet{
		seen:  make(map[string]struct{}, cfg.capacity),
		order: make([]string, 0, cfg.capacity),
	}
}

func (s *orderedSet) SeenAndRecord(key string) bool {
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
	return false
}

func (s *orderedSet) Seen(key string) bool {
	_, ok := s.seen[key]
	return ok
}

func (s *orderedSet) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *orderedSet) Size() int { return len(s.order) }

// Counter counts distinct members per group, e.g. distinct processes per entity.
type Counter[G comparable] struct {
	groups map[G]Deduper
	order  []G
}

// NewCounter creates an empty Counter.
func NewCounter[G comparable]() *Counter[G] {
	return &Counter[G]{groups: make(map[G]Deduper)}
}

// Add records member under group. Returns true if the member is new for the group.
func (c *Counter[G]) Add(group G, member string) bool {
	d, ok := c.groups[group]
	if !ok {
		d = New()
		c.groups[group] = d
		c.order = append(c.order, group)
	}
	return !d.SeenAndRecord(member)
}

// Count returns the number of distinct members recorded for group.
func (c *Counter[G]) Count(group G) int {
	if d, ok := c.groups[group]; ok {
		return d.Size()
	}
	return 0
}

// Groups returns the groups in first-seen order.
func (c *Counter[G]) Groups() []G {
	out := make([]G, len(c.order))
	copy(out, c.order)
	return out
}

// Counts returns a snapshot of distinct-member counts per group.
func (c *Counter[G]) Counts() map[G]int {
	out := make(map[G]int, len(c.groups))
	for g, d := range c.groups {
		out[g] = d.Size()
	}
	return out
}
