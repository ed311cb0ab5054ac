package facet

type slot struct {
	value string
	set   bool
}

// State is the selection vector: one slot per hierarchy level. It never has
// gaps; when slot i is unset every deeper slot is unset too.
type State struct {
	columns []string
	slots   []slot
}

// NewState returns an all-unset state for the given level columns.
func NewState(levelColumns []string) *State {
	return &State{
		columns: append([]string(nil), levelColumns...),
		slots:   make([]slot, len(levelColumns)),
	}
}

// Len returns N.
func (s *State) Len() int {
	return len(s.slots)
}

// SelectAt sets level to value and clears every deeper level. Selecting the
// value a level already holds toggles it off. An empty value is the same as
// ResetFrom(level).
//
// Selecting below the deepest contiguous selection would open a gap, so such
// calls and out-of-range levels leave the state unchanged. The return value
// reports whether the call was applied.
func (s *State) SelectAt(level int, value string) bool {
	if level < 0 || level >= len(s.slots) || level > s.Depth() {
		return false
	}
	if value == "" || (s.slots[level].set && s.slots[level].value == value) {
		s.ResetFrom(level)
		return true
	}
	s.slots[level] = slot{value: value, set: true}
	s.ResetFrom(level + 1)
	return true
}

// ResetFrom unsets every slot at index >= level. A negative level resets all.
func (s *State) ResetFrom(level int) {
	if level < 0 {
		level = 0
	}
	for i := level; i < len(s.slots); i++ {
		s.slots[i] = slot{}
	}
}

// ResetAll unsets every slot.
func (s *State) ResetAll() {
	s.ResetFrom(0)
}

// CurrentFilterSet returns the filters for the set slots in [0, uptoLevel).
func (s *State) CurrentFilterSet(uptoLevel int) FilterSet {
	if uptoLevel > len(s.slots) {
		uptoLevel = len(s.slots)
	}
	fs := FilterSet{}
	for i := 0; i < uptoLevel; i++ {
		if !s.slots[i].set {
			break
		}
		fs = append(fs, Filter{Column: s.columns[i], Value: s.slots[i].value})
	}
	return fs
}

// IsAnySelected reports whether any slot is set.
func (s *State) IsAnySelected() bool {
	return len(s.slots) > 0 && s.slots[0].set
}

// Depth returns the number of contiguous set slots from level 0.
func (s *State) Depth() int {
	for i, sl := range s.slots {
		if !sl.set {
			return i
		}
	}
	return len(s.slots)
}

// Value returns the value held at level.
func (s *State) Value(level int) (string, bool) {
	if level < 0 || level >= len(s.slots) || !s.slots[level].set {
		return "", false
	}
	return s.slots[level].value, true
}

// Values returns the set values, shallowest first.
func (s *State) Values() []string {
	out := make([]string, 0, s.Depth())
	for _, sl := range s.slots {
		if !sl.set {
			break
		}
		out = append(out, sl.value)
	}
	return out
}

// Restore resets the state and then fills slots from fs, level by level,
// stopping at the first level column fs does not constrain.
func (s *State) Restore(fs FilterSet) {
	s.ResetAll()
	for i, col := range s.columns {
		v, ok := fs.Get(col)
		if !ok || v == "" {
			return
		}
		s.slots[i] = slot{value: v, set: true}
	}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{
		columns: append([]string(nil), s.columns...),
		slots:   append([]slot(nil), s.slots...),
	}
}
