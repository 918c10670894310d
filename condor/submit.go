// Package condor renders HTCondor submit descriptors.
package condor

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Submit is an HTCondor submit descriptor: an ordered set of commands
// (key = value pairs) followed by a queue statement. Insertion order is
// preserved when rendering; setting an existing key updates it in place.
type Submit struct {
	keys   []string
	values map[string]string
	// raw holds pass-through lines emitted verbatim after the key/value
	// section, for submit-language constructs that are not key = value.
	raw []string
}

// NewSubmit creates a submit descriptor from an attribute map. Keys are
// inserted in sorted order so that construction from a map is deterministic.
func NewSubmit(attrs map[string]string) *Submit {
	s := &Submit{values: make(map[string]string)}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, attrs[k])
	}
	return s
}

// Set adds or updates a single submit command. A new key is appended after
// all existing keys; an existing key keeps its position.
func (s *Submit) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key and whether it is present.
func (s *Submit) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Merge copies every command from other into s, with other winning on
// conflicting keys. Raw lines from other are appended.
func (s *Submit) Merge(other *Submit) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Set(k, other.values[k])
	}
	s.raw = append(s.raw, other.raw...)
}

// AddRawLine appends a line that is written verbatim after the key/value
// section. Useful for submit-language statements with no key = value shape.
func (s *Submit) AddRawLine(line string) {
	s.raw = append(s.raw, line)
}

// Keys returns the command keys in render order.
func (s *Submit) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of key/value commands in the descriptor.
func (s *Submit) Len() int {
	return len(s.keys)
}

// Render produces the full submit file contents, terminated by a queue
// statement. Values are written as-is: quoting and macro expansion such as
// $(Process) are the submit language's own business.
func (s *Submit) Render() string {
	var b strings.Builder
	for _, k := range s.keys {
		fmt.Fprintf(&b, "%s = %s\n", k, s.values[k])
	}
	for _, line := range s.raw {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("queue\n")
	return b.String()
}

// WriteFile renders the descriptor into the named file.
func (s *Submit) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(s.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write submit file: %w", err)
	}
	return nil
}
