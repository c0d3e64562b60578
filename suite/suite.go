// Package suite turns an ordered set of named test bodies into test case
// descriptors a host framework can list and run one by one.
//
// A Suite keeps entries in insertion order. Adapt emits one TestCase per
// own entry in that order; entries reached only through the prototype of an
// extended suite are inherited and never adapted. Adapt does not run
// anything, and adapting the same suite twice yields equivalent cases.
package suite

// Entry is one named test body.
type Entry struct {
	Name string
	Body any
}

// Suite is an ordered collection of test bodies.
// The zero value is an empty suite ready to use.
type Suite struct {
	entries []Entry
	proto   *Suite
}

// New returns an empty suite.
func New() *Suite {
	return &Suite{}
}

// Add appends an entry and returns the suite for chaining.
// Bodies are validated by Adapt, not here.
func (s *Suite) Add(name string, body any) *Suite {
	s.entries = append(s.entries, Entry{Name: name, Body: body})
	return s
}

// Extend returns an empty child suite whose prototype is s. Entries of s
// stay reachable from the child through Lookup but are not adapted with it.
func (s *Suite) Extend() *Suite {
	return &Suite{proto: s}
}

// Prototype returns the suite s was extended from, or nil.
func (s *Suite) Prototype() *Suite {
	return s.proto
}

// Lookup finds a body by name. Own entries are searched first, latest
// addition winning, then the prototype chain.
func (s *Suite) Lookup(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.proto {
		for i := len(cur.entries) - 1; i >= 0; i-- {
			if cur.entries[i].Name == name {
				return cur.entries[i].Body, true
			}
		}
	}
	return nil, false
}

// Own returns a copy of the suite's own entries in insertion order.
func (s *Suite) Own() []Entry {
	return append([]Entry{}, s.entries...)
}

// Len returns the number of own entries.
func (s *Suite) Len() int {
	return len(s.entries)
}
