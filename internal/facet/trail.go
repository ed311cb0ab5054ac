package facet

// Entry is one re-enterable checkpoint of the navigation trail.
type Entry struct {
	Label   string    `json:"label" yaml:"label"`
	Level   int       `json:"level" yaml:"level"`
	Filters FilterSet `json:"filters" yaml:"filters"`
}

// IsRoot reports whether e is the "no selection" entry.
func (e Entry) IsRoot() bool {
	return e.Level == 0
}

// Trail returns the path from "no selection" to the current state. The root
// entry is always first; one entry follows per contiguous selected level,
// each carrying the cumulative filters through that level.
func Trail(s *State, rootLabel string) []Entry {
	entries := []Entry{{Label: rootLabel, Level: 0, Filters: FilterSet{}}}
	for i := 0; i < s.Len(); i++ {
		v, ok := s.Value(i)
		if !ok {
			break
		}
		entries = append(entries, Entry{
			Label:   v,
			Level:   i + 1,
			Filters: s.CurrentFilterSet(i + 1),
		})
	}
	return entries
}

// Activate re-enters e: every slot at or below e.Level is cleared and the
// entry's filter snapshot is restored into slots [0, e.Level).
func (s *State) Activate(e Entry) {
	level := e.Level
	if level < 0 {
		level = 0
	}
	if level > s.Len() {
		level = s.Len()
	}
	snapshot := make(FilterSet, 0, level)
	for i := 0; i < level; i++ {
		v, ok := e.Filters.Get(s.columns[i])
		if !ok {
			break
		}
		snapshot = append(snapshot, Filter{Column: s.columns[i], Value: v})
	}
	s.Restore(snapshot)
	s.ResetFrom(level)
}
