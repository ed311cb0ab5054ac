package facet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/oakwood-commons/facetnav/internal/tabular"
	"github.com/oakwood-commons/facetnav/pkg/logger"
)

// ErrUnknownValue is returned by Pick when a value is not an option at its level.
var ErrUnknownValue = errors.New("value is not an option at this level")

// View is everything a render surface needs after a transition.
type View struct {
	Trail []Entry
	// NextLevel is the level offering choices, or -1 when every level is selected.
	NextLevel   int
	Options     []OptionCount
	Results     []tabular.Row
	AnySelected bool
}

// NoMatch reports a selection that matches zero rows. It is distinct from
// the nothing-selected case, which also has no results.
func (v View) NoMatch() bool {
	return v.AnySelected && len(v.Results) == 0
}

// Engine owns one session's dataset and selection state. Every intent runs
// synchronously and then notifies subscribers with a fresh View.
type Engine struct {
	schema  Schema
	data    *tabular.Dataset
	state   *State
	subs    map[int]func(View)
	nextSub int
	session string
	log     logr.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(lgr logr.Logger) Option {
	return func(e *Engine) {
		e.log = lgr
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.session = id
	}
}

// NewEngine validates schema and builds an engine over data. A nil dataset
// is treated as empty.
func NewEngine(schema Schema, data *tabular.Dataset, opts ...Option) (*Engine, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if data == nil {
		data = tabular.Empty()
	}
	e := &Engine{
		schema:  schema,
		data:    data,
		state:   NewState(schema.Levels),
		subs:    make(map[int]func(View)),
		session: uuid.NewString(),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithValues(logger.SessionKey, e.session)
	if missing := data.MissingColumns(schema.Levels); len(missing) > 0 && len(data.Header) > 0 {
		e.log.Info("level columns missing from dataset header", "missing", missing)
	}
	return e, nil
}

// SessionID returns the id tagging this engine's log lines.
func (e *Engine) SessionID() string { return e.session }

// Schema returns the engine's schema.
func (e *Engine) Schema() Schema { return e.schema }

// Dataset returns the current dataset.
func (e *Engine) Dataset() *tabular.Dataset { return e.data }

// State returns a copy of the selection state.
func (e *Engine) State() *State { return e.state.Clone() }

// Subscribe registers fn to run after every transition and returns a
// function that removes it.
func (e *Engine) Subscribe(fn func(View)) func() {
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

// SelectAt selects value at level, toggling it off if already selected.
func (e *Engine) SelectAt(level int, value string) {
	applied := e.state.SelectAt(level, value)
	e.log.V(1).Info("select", logger.LevelKey, level, "value", value, "applied", applied, "depth", e.state.Depth())
	e.notify()
}

// ActivateTrailEntry jumps back to the trail entry at level carrying filters.
func (e *Engine) ActivateTrailEntry(level int, filters FilterSet) {
	e.state.Activate(Entry{Level: level, Filters: filters})
	e.log.V(1).Info("trail entry activated", logger.LevelKey, level, "depth", e.state.Depth())
	e.notify()
}

// Back activates the trail entry one level above the current depth. It is
// a no-op when nothing is selected.
func (e *Engine) Back() {
	depth := e.state.Depth()
	if depth == 0 {
		return
	}
	e.ActivateTrailEntry(depth-1, e.state.CurrentFilterSet(depth-1))
}

// ResetAll clears every selection.
func (e *Engine) ResetAll() {
	e.state.ResetAll()
	e.log.V(1).Info("reset")
	e.notify()
}

// Pick starts from an empty selection and selects values[i] at level i,
// checking each against the options available at that point. On error the
// valid prefix stays selected, and subscribers are notified either way.
func (e *Engine) Pick(values ...string) error {
	e.state.ResetAll()
	defer e.notify()
	for level, v := range values {
		if level >= e.schema.Depth() {
			return fmt.Errorf("pick %q: only %d levels are defined: %w", v, e.schema.Depth(), ErrUnknownValue)
		}
		if !slices.Contains(e.Options(level), v) {
			return fmt.Errorf("pick %q at level %d (%s): %w", v, level+1, e.schema.LevelColumn(level), ErrUnknownValue)
		}
		e.state.SelectAt(level, v)
	}
	return nil
}

// Reload replaces the dataset and clears the selection, since earlier
// choices were derived from the old rows.
func (e *Engine) Reload(data *tabular.Dataset) {
	if data == nil {
		data = tabular.Empty()
	}
	e.data = data
	e.state.ResetAll()
	e.log.Info("dataset reloaded", "rows", data.Len())
	e.notify()
}

// Options returns the sorted choices at level under the selections above it.
func (e *Engine) Options(level int) []string {
	return OptionsForLevel(e.data, e.schema, e.state.CurrentFilterSet(level), level)
}

// OptionCounts returns the choices at level with row counts.
func (e *Engine) OptionCounts(level int) []OptionCount {
	return OptionCounts(e.data, e.schema, e.state.CurrentFilterSet(level), level)
}

// NextLevel returns the first unselected level, or -1 when all are selected.
func (e *Engine) NextLevel() int {
	d := e.state.Depth()
	if d >= e.schema.Depth() {
		return -1
	}
	return d
}

// Filters returns the full current filter set.
func (e *Engine) Filters() FilterSet {
	return e.state.CurrentFilterSet(e.schema.Depth())
}

// Results returns the rows matching the full filter set.
func (e *Engine) Results() []tabular.Row {
	return Project(e.data, e.Filters())
}

// Trail returns the navigation trail for the current state.
func (e *Engine) Trail() []Entry {
	return Trail(e.state, e.schema.Root())
}

// AnySelected reports whether any level is selected.
func (e *Engine) AnySelected() bool {
	return e.state.IsAnySelected()
}

// View computes all outputs for the current state.
func (e *Engine) View() View {
	v := View{
		Trail:       e.Trail(),
		NextLevel:   e.NextLevel(),
		Results:     e.Results(),
		AnySelected: e.AnySelected(),
	}
	if v.NextLevel >= 0 {
		v.Options = e.OptionCounts(v.NextLevel)
	}
	return v
}

func (e *Engine) notify() {
	if len(e.subs) == 0 {
		return
	}
	v := e.View()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := e.subs[id]; ok {
			fn(v)
		}
	}
}
