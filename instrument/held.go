package instrument

import "sort"

// HeldSet tracks which trigger keys are physically down and decides
// whether chords layer. Layering is on when explicitly enabled or when more
// than one key is held. The same key held on two devices counts once and
// sounds until both let go.
type HeldSet struct {
	keys map[int]map[string]bool // key -> devices holding it
}

func NewHeldSet() *HeldSet {
	return &HeldSet{keys: make(map[int]map[string]bool)}
}

// Press records key on device and reports whether its chord layers.
func (h *HeldSet) Press(key int, device string, explicit bool) bool {
	devices, ok := h.keys[key]
	if !ok {
		devices = make(map[string]bool)
		h.keys[key] = devices
	}
	devices[device] = true
	return explicit || len(h.keys) > 1
}

// Release removes key for device. layered is taken before the key is
// removed. last reports whether no device holds key anymore; only then
// should its chord stop.
func (h *HeldSet) Release(key int, device string, explicit bool) (layered, last bool) {
	devices, ok := h.keys[key]
	if !ok || !devices[device] {
		return false, false
	}
	layered = explicit || len(h.keys) > 1
	delete(devices, device)
	if len(devices) > 0 {
		return layered, false
	}
	delete(h.keys, key)
	return layered, true
}

// Holds reports whether device has key down.
func (h *HeldSet) Holds(key int, device string) bool {
	return h.keys[key][device]
}

func (h *HeldSet) Len() int {
	return len(h.keys)
}

// Keys returns the held keys in ascending order.
func (h *HeldSet) Keys() []int {
	out := make([]int, 0, len(h.keys))
	for k := range h.keys {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// From returns the held keys pressed on device.
func (h *HeldSet) From(device string) []int {
	var out []int
	for k, devices := range h.keys {
		if devices[device] {
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}

func (h *HeldSet) Clear() {
	h.keys = make(map[int]map[string]bool)
}
