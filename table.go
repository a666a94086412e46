package uploadrules

import (
	"sort"
	"sync"
)

// Names of the built-in rules.
const (
	RuleFileSize   = "filesize"
	RuleExtension  = "extension"
	RuleMIMEType   = "mimetype"
	RuleDimensions = "dimensions"
)

// Table is a set of named rules the hosting application hands to its
// validation pipeline. It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewTable returns a table holding rules under their own names.
func NewTable(rules ...Rule) *Table {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		t.Add(r)
	}
	return t
}

// Add registers rule under rule.Name().
func (t *Table) Add(rule Rule) {
	if rule == nil {
		return
	}
	t.Register(rule.Name(), rule)
}

// Register registers rule under name, replacing any rule already there.
func (t *Table) Register(name string, rule Rule) {
	if rule == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules[name] = rule
}

// Unregister removes the rule registered under name
func (t *Table) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rules, name)
}

// Get returns the rule registered under name.
func (t *Table) Get(name string) (Rule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rules[name]
	return r, ok
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.rules))
	for name := range t.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered rules
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rules)
}

// Clone returns a shallow copy of the table.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := &Table{rules: make(map[string]Rule, len(t.rules))}
	for name, r := range t.rules {
		c.rules[name] = r
	}
	return c
}
