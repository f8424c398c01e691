package vkreplay

import (
	"errors"
	"fmt"
)

// ErrUnknownHandle is returned when an output handle does not name a live
// object of the expected kind.
var ErrUnknownHandle = errors.New("vkreplay: unknown handle")

// handles issues opaque ids for native objects. Ids are unique across every
// kind and never reused.
type handles struct {
	last uint64
}

func (h *handles) next() uint64 {
	h.last++
	return h.last
}

// put stores v under a fresh handle of kind K.
func put[K ~uint64, V any](h *handles, m map[K]V, v V) K {
	k := K(h.next())
	m[k] = v
	return k
}

// take removes and returns the object behind k.
func take[K ~uint64, V any](m map[K]V, k K) (V, bool) {
	v, ok := m[k]
	if ok {
		delete(m, k)
	}
	return v, ok
}

// get returns the object behind k or an ErrUnknownHandle naming kind.
func get[K ~uint64, V any](m map[K]V, k K, kind string) (V, error) {
	v, ok := m[k]
	if !ok {
		return v, fmt.Errorf("%w: %s %d", ErrUnknownHandle, kind, uint64(k))
	}
	return v, nil
}
