package mediator

import (
	"log"
	"strconv"
	"sync"

	"github.com/viant/afs"

	"github.com/san-kum/stormview/internal/chartspec"
)

// SignalYear is the signal name views receive the shared year under.
const SignalYear = "globalYear"

// Well-known state keys.
const (
	KeyCurrentYear = "currentYear"
	KeyStartYear   = "startYear"
	KeyEndYear     = "endYear"
)

// View is the full contract the mediator needs to drive a chart.
type View interface {
	SetSignal(name string, value int) error
	Render() error
}

// RangeInput is a numeric input control emitting change events, such as
// the dashboard's year slider.
type RangeInput interface {
	SetValue(v int)
	OnChange(fn func(v int))
}

// Display accepts a string to show, such as the dashboard's year readout.
type Display interface {
	SetText(s string)
}

// Mediator synchronizes one shared year across registered chart views.
// It owns the state bag, the view registry and the listener registry;
// views themselves are externally owned and only driven from here.
//
// View fan-out and listener dispatch run outside the lock, so callbacks
// may call back into the mediator.
type Mediator struct {
	mu        sync.RWMutex
	state     map[string]any
	views     map[string]View
	viewOrder []string
	listeners map[string][]subscriber
	nextSub   uint64
	input     RangeInput
	display   Display
	embedder  Embedder
	fs        afs.Service
	logf      func(format string, args ...any)
}

// New builds a mediator with the given inclusive year bounds and initial
// year. Callers hold and pass the reference explicitly; there is no
// package-level instance.
func New(startYear, endYear, currentYear int) *Mediator {
	return &Mediator{
		state: map[string]any{
			KeyCurrentYear: currentYear,
			KeyStartYear:   startYear,
			KeyEndYear:     endYear,
		},
		views:     make(map[string]View),
		listeners: make(map[string][]subscriber),
		fs:        afs.New(),
		logf:      log.Printf,
	}
}

// Bind attaches an optional input control and display element. Either
// may be nil; binding is best-effort and the mediator works without it.
// The control is seeded with the current year and its future changes
// feed UpdateYear.
func (m *Mediator) Bind(input RangeInput, display Display) {
	m.mu.Lock()
	m.input = input
	m.display = display
	year := m.state[KeyCurrentYear].(int)
	m.mu.Unlock()

	if input != nil {
		input.SetValue(year)
		input.OnChange(m.UpdateYear)
	}
	if display != nil {
		display.SetText(strconv.Itoa(year))
	}
	m.logf("mediator: bound year control (input=%v display=%v)", input != nil, display != nil)
}

// SetEmbedder installs the chart-instantiation capability used by
// LoadVisualization.
func (m *Mediator) SetEmbedder(e Embedder) {
	m.mu.Lock()
	m.embedder = e
	m.mu.Unlock()
}

// CurrentYear returns the shared year.
func (m *Mediator) CurrentYear() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state[KeyCurrentYear].(int)
}

// Bounds returns the inclusive year range.
func (m *Mediator) Bounds() (start, end int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state[KeyStartYear].(int), m.state[KeyEndYear].(int)
}

// UpdateYear validates and stores a new shared year, then pushes it out.
// Out-of-range values are silently ignored: no state change, no
// propagation, no listener notification. On success the observable order
// is display update, then view fan-out, then valueChange listeners.
func (m *Mediator) UpdateYear(year int) {
	m.mu.Lock()
	start := m.state[KeyStartYear].(int)
	end := m.state[KeyEndYear].(int)
	if year < start || year > end {
		m.mu.Unlock()
		return
	}
	old := m.state[KeyCurrentYear].(int)
	m.state[KeyCurrentYear] = year
	display := m.display
	views := m.orderedViewsLocked()
	m.mu.Unlock()

	if display != nil {
		display.SetText(strconv.Itoa(year))
	}
	for _, nv := range views {
		m.push(nv.name, nv.view, year)
	}
	m.emit(ValueChange{Old: old, New: year})
}

// RegisterView stores a view under name, replacing any previous view of
// that name (the old handle is simply dropped). The view immediately
// receives the current year and a render. A nil handle is rejected with
// a logged diagnostic; nothing surfaces to the caller.
func (m *Mediator) RegisterView(name string, v View) {
	if v == nil {
		m.logf("mediator: refusing to register %q: handle lacks view capabilities", name)
		return
	}
	m.mu.Lock()
	if _, exists := m.views[name]; !exists {
		m.viewOrder = append(m.viewOrder, name)
	}
	m.views[name] = v
	year := m.state[KeyCurrentYear].(int)
	m.mu.Unlock()

	m.push(name, v, year)
}

// UnregisterView removes the named view. Unknown names are a no-op.
func (m *Mediator) UnregisterView(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.views[name]; !ok {
		return
	}
	delete(m.views, name)
	for i, n := range m.viewOrder {
		if n == name {
			m.viewOrder = append(m.viewOrder[:i], m.viewOrder[i+1:]...)
			break
		}
	}
}

// UpdateAllViews pushes the current year into every registered view, in
// registration order. A failing view is logged and skipped; it never
// blocks the remaining views.
func (m *Mediator) UpdateAllViews() {
	m.mu.RLock()
	year := m.state[KeyCurrentYear].(int)
	views := m.orderedViewsLocked()
	m.mu.RUnlock()

	for _, nv := range views {
		m.push(nv.name, nv.view, year)
	}
}

// State returns an independent snapshot of the state bag.
func (m *Mediator) State() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]any, len(m.state))
	for k, v := range m.state {
		snap[k] = v
	}
	return snap
}

// Value returns the current value for key.
func (m *Mediator) Value(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.state[key]
	return v, ok
}

// SetValue writes key unconditionally, skipping the range validation and
// the display update that UpdateYear performs. Writes to the current
// year still fan out to views. Every write emits a stateChange event.
//
// The three year keys are normalized to int before storing, truncating
// float writes, so CurrentYear and Bounds stay type safe. A non-numeric
// value for a year key is logged and not stored; the event still fires.
func (m *Mediator) SetValue(key string, value any) {
	m.mu.Lock()
	old := m.state[key]
	stored := value
	if isYearKey(key) {
		year, ok := asYear(value)
		if !ok {
			m.mu.Unlock()
			m.logf("mediator: %s set to non-numeric %v, keeping %v", key, value, old)
			m.emit(StateChange{Key: key, Old: old, New: value})
			return
		}
		stored = year
	}
	m.state[key] = stored
	var views []namedView
	if key == KeyCurrentYear {
		views = m.orderedViewsLocked()
	}
	m.mu.Unlock()

	if views != nil {
		year := stored.(int)
		for _, nv := range views {
			m.push(nv.name, nv.view, year)
		}
	}
	m.emit(StateChange{Key: key, Old: old, New: stored})
}

// PrepareSpec returns a deep copy of s with the shared year injected as
// the globalYear parameter: an existing entry is updated in place, a
// missing one is inserted at the front. The input is never mutated.
func (m *Mediator) PrepareSpec(s *chartspec.Spec) *chartspec.Spec {
	if s == nil {
		return nil
	}
	prepared := s.Clone()
	prepared.SetParam(SignalYear, m.CurrentYear())
	return prepared
}

// AddEventListener appends fn to the listener list for event. Duplicate
// registrations are allowed and fire once per occurrence. The returned
// subscription removes this specific registration.
func (m *Mediator) AddEventListener(event string, fn ListenerFunc) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSub++
	m.listeners[event] = append(m.listeners[event], subscriber{id: m.nextSub, fn: fn})
	return Subscription{event: event, id: m.nextSub}
}

// RemoveEventListener drops the subscribed listener. Unknown
// subscriptions are a no-op.
func (m *Mediator) RemoveEventListener(sub Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.listeners[sub.event]
	for i, s := range subs {
		if s.id == sub.id {
			m.listeners[sub.event] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

type namedView struct {
	name string
	view View
}

func (m *Mediator) orderedViewsLocked() []namedView {
	out := make([]namedView, 0, len(m.viewOrder))
	for _, name := range m.viewOrder {
		out = append(out, namedView{name: name, view: m.views[name]})
	}
	return out
}

// push delivers the year to one view. Failures, including panics from
// the view's render, are logged with the view name and absorbed.
func (m *Mediator) push(name string, v View, year int) {
	defer func() {
		if r := recover(); r != nil {
			m.logf("mediator: view %q panicked during update: %v", name, r)
		}
	}()
	if err := v.SetSignal(SignalYear, year); err != nil {
		m.logf("mediator: view %q rejected signal: %v", name, err)
		return
	}
	if err := v.Render(); err != nil {
		m.logf("mediator: view %q failed to render: %v", name, err)
	}
}

// emit delivers e to every listener registered for its event name, in
// registration order. A panicking callback is logged and the remaining
// callbacks still run.
func (m *Mediator) emit(e Event) {
	m.mu.RLock()
	subs := make([]subscriber, len(m.listeners[e.Name()]))
	copy(subs, m.listeners[e.Name()])
	m.mu.RUnlock()

	for _, s := range subs {
		m.invoke(s, e)
	}
}

func (m *Mediator) invoke(s subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logf("mediator: %s listener panicked: %v", e.Name(), r)
		}
	}()
	s.fn(e)
}

func isYearKey(key string) bool {
	return key == KeyCurrentYear || key == KeyStartYear || key == KeyEndYear
}

func asYear(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
