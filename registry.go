package spatula

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// The registry maps page names to factories so external drivers (the
// test harness in particular) can construct a page by name. Page
// packages register themselves from init or main; lookup is
// case-insensitive.

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() *Page)
)

// Register records a page factory under the given name. It panics on an
// empty name, a nil factory, or a duplicate registration, all of which
// are programming errors in the registering package.
func Register(name string, factory func() *Page) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		panic("spatula: Register with empty page name")
	}
	if factory == nil {
		panic(fmt.Sprintf("spatula: Register %q with nil factory", name))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("spatula: Register called twice for page %q", name))
	}
	registry[key] = factory
}

// Lookup returns the factory registered under name.
func Lookup(name string) (func() *Page, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return factory, ok
}

// Names returns all registered page names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
