package insights

import "strings"

// OrderedSet is an insertion-ordered set of strings. The first value
// added under a key wins; later additions are ignored. It backs the
// "first-seen wins" precedence shared by policy, social, and link
// deduplication.
type OrderedSet struct {
	keys   []string
	values map[string]string
}

// NewOrderedSet returns an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{values: make(map[string]string)}
}

// Add records value under key if the key is unseen. It reports whether
// the value was inserted.
func (s *OrderedSet) Add(key, value string) bool {
	if _, ok := s.values[key]; ok {
		return false
	}
	s.keys = append(s.keys, key)
	s.values[key] = value
	return true
}

// Has reports whether key was already added.
func (s *OrderedSet) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Get returns the value stored under key, if any.
func (s *OrderedSet) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Values returns all inserted values in first-seen order.
func (s *OrderedSet) Values() []string {
	out := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.values[k])
	}
	return out
}

// Len returns the number of distinct keys.
func (s *OrderedSet) Len() int { return len(s.keys) }

// DedupStrings removes exact duplicates from in, preserving first-seen
// order.
func DedupStrings(in []string) []string {
	set := NewOrderedSet()
	for _, v := range in {
		set.Add(v, v)
	}
	return set.Values()
}

// DedupStringsFold is DedupStrings with case-insensitive keys.
func DedupStringsFold(in []string) []string {
	set := NewOrderedSet()
	for _, v := range in {
		set.Add(strings.ToLower(v), v)
	}
	return set.Values()
}
