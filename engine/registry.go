package engine

// SoundingChord is a registered chord under the key that triggered it.
// Key is the unquantized trigger pitch.
type SoundingChord struct {
	Key   int
	Notes []int
}

// Registry tracks which chords are sounding, one per trigger key.
// It is not safe for concurrent use; Engine serializes access.
type Registry struct {
	order []int
	notes map[int][]int
}

func NewRegistry() *Registry {
	return &Registry{notes: make(map[int][]int)}
}

// TriggerOn registers notes under key and returns the entries it displaced.
// Without layering every existing entry is displaced; with layering only a
// previous entry for the same key is.
func (r *Registry) TriggerOn(key int, notes []int, layered bool) []SoundingChord {
	var displaced []SoundingChord
	if !layered {
		displaced = r.clear()
	} else if old, ok := r.notes[key]; ok {
		displaced = []SoundingChord{{Key: key, Notes: old}}
	}

	if _, ok := r.notes[key]; !ok {
		r.order = append(r.order, key)
	}
	r.notes[key] = append([]int(nil), notes...)
	return displaced
}

// TriggerOff removes key (layered) or everything (not layered) and returns
// the removed entries.
func (r *Registry) TriggerOff(key int, layered bool) []SoundingChord {
	if !layered {
		return r.clear()
	}
	notes, ok := r.notes[key]
	if !ok {
		return nil
	}
	delete(r.notes, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return []SoundingChord{{Key: key, Notes: notes}}
}

// Panic clears every entry.
func (r *Registry) Panic() []SoundingChord {
	return r.clear()
}

func (r *Registry) clear() []SoundingChord {
	out := r.Entries()
	r.order = nil
	r.notes = make(map[int][]int)
	return out
}

// Lookup returns the notes registered under key.
func (r *Registry) Lookup(key int) ([]int, bool) {
	notes, ok := r.notes[key]
	if !ok {
		return nil, false
	}
	return append([]int(nil), notes...), true
}

// Len is the number of sounding chords.
func (r *Registry) Len() int {
	return len(r.order)
}

// Entries returns the sounding chords in registration order.
func (r *Registry) Entries() []SoundingChord {
	out := make([]SoundingChord, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, SoundingChord{Key: k, Notes: append([]int(nil), r.notes[k]...)})
	}
	return out
}

// Notes returns the union of all sounding notes in registration order,
// each pitch once.
func (r *Registry) Notes() []int {
	seen := make(map[int]bool)
	out := []int{}
	for _, k := range r.order {
		for _, n := range r.notes[k] {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
