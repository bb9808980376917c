/*
resource.go - Record kind registration and lookup

PURPOSE:
  Provides a registry for domain packages to register the record kinds
  they expose, together with the REST collection path each kind lives
  under. Gateways, the demo store and the dashboard API all resolve
  kinds through it instead of hard-coding paths.

USAGE:
  // In hostel/types.go
  func init() {
      generic.RegisterKind(generic.KindInfo{Kind: KindRoom, Path: "/rooms", Label: "Room"})
  }

  info, err := generic.LookupKind("rooms")
*/
package generic

import (
	"fmt"
	"sort"
	"sync"
)

// KindInfo describes one record collection.
type KindInfo struct {
	Kind  Kind
	Path  string // REST collection path, e.g. "/maintenance-requests"
	Label string // singular human label, e.g. "Maintenance request"
}

var (
	kindRegistry = make(map[Kind]KindInfo)
	kindMu       sync.RWMutex
)

// RegisterKind adds a kind to the global registry.
// Call this from domain package init() functions.
func RegisterKind(info KindInfo) {
	kindMu.Lock()
	defer kindMu.Unlock()
	kindRegistry[info.Kind] = info
}

// LookupKind finds a registered kind.
func LookupKind(k Kind) (KindInfo, error) {
	kindMu.RLock()
	defer kindMu.RUnlock()
	info, ok := kindRegistry[k]
	if !ok {
		return KindInfo{}, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return info, nil
}

// MustLookupKind finds a registered kind or panics.
// Use in wiring code where the kind is a compile-time constant.
func MustLookupKind(k Kind) KindInfo {
	info, err := LookupKind(k)
	if err != nil {
		panic(err)
	}
	return info
}

// ListKinds returns all registered kinds sorted by name.
func ListKinds() []KindInfo {
	kindMu.RLock()
	defer kindMu.RUnlock()
	out := make([]KindInfo, 0, len(kindRegistry))
	for _, info := range kindRegistry {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
