package mediator_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stormview/internal/chartspec"
	"github.com/san-kum/stormview/internal/mediator"
)

// signalCall records one SetSignal delivery.
type signalCall struct {
	name  string
	value int
}

// fakeView records the calls the mediator makes on it.
type fakeView struct {
	signals     []signalCall
	renders     int
	signalErr   error
	renderPanic bool
}

func (f *fakeView) SetSignal(name string, value int) error {
	if f.signalErr != nil {
		return f.signalErr
	}
	f.signals = append(f.signals, signalCall{name: name, value: value})
	return nil
}

func (f *fakeView) Render() error {
	if f.renderPanic {
		panic("render blew up")
	}
	f.renders++
	return nil
}

// fakeDisplay records text updates.
type fakeDisplay struct {
	texts []string
}

func (d *fakeDisplay) SetText(s string) { d.texts = append(d.texts, s) }

// fakeInput is a minimal range control.
type fakeInput struct {
	value    int
	onChange func(int)
}

func (i *fakeInput) SetValue(v int)        { i.value = v }
func (i *fakeInput) OnChange(fn func(int)) { i.onChange = fn }
func (i *fakeInput) change(v int)          { i.onChange(v) }

var _ = Describe("Mediator", func() {
	var m *mediator.Mediator

	BeforeEach(func() {
		m = mediator.New(2005, 2025, 2010)
	})

	Describe("UpdateYear", func() {
		It("stores an in-range year and fans it out", func() {
			v := &fakeView{}
			m.RegisterView("v1", v)

			m.UpdateYear(2015)

			Expect(m.CurrentYear()).To(Equal(2015))
			Expect(v.signals).To(HaveLen(2)) // registration push + update
			Expect(v.signals[1]).To(Equal(signalCall{name: "globalYear", value: 2015}))
			Expect(v.renders).To(Equal(2))
		})

		It("silently ignores an out-of-range year", func() {
			v := &fakeView{}
			m.RegisterView("v1", v)
			fired := false
			m.AddEventListener(mediator.EventValueChange, func(mediator.Event) { fired = true })

			m.UpdateYear(2030)

			Expect(m.CurrentYear()).To(Equal(2010))
			Expect(v.signals).To(HaveLen(1)) // only the registration push
			Expect(fired).To(BeFalse())
		})

		It("accepts the bounds themselves", func() {
			m.UpdateYear(2005)
			Expect(m.CurrentYear()).To(Equal(2005))
			m.UpdateYear(2025)
			Expect(m.CurrentYear()).To(Equal(2025))
		})

		It("updates the display before views and listeners", func() {
			var order []string
			d := &fakeDisplay{}
			m.Bind(nil, d)
			m.RegisterView("v1", viewFunc(func() { order = append(order, "view") }))
			m.AddEventListener(mediator.EventValueChange, func(mediator.Event) {
				order = append(order, fmt.Sprintf("listener after display=%d", len(d.texts)))
			})
			order = nil // drop the registration render

			m.UpdateYear(2012)

			Expect(d.texts).To(ContainElement("2012"))
			Expect(order).To(Equal([]string{"view", "listener after display=2"}))
		})

		It("notifies valueChange listeners exactly once with the transition", func() {
			var events []mediator.ValueChange
			m.AddEventListener(mediator.EventValueChange, func(e mediator.Event) {
				events = append(events, e.(mediator.ValueChange))
			})

			m.UpdateYear(2015)

			Expect(events).To(Equal([]mediator.ValueChange{{Old: 2010, New: 2015}}))
		})
	})

	Describe("RegisterView", func() {
		It("immediately pushes the current year and renders", func() {
			m.UpdateYear(2012)
			v := &fakeView{}

			m.RegisterView("v1", v)

			Expect(v.signals).To(Equal([]signalCall{{name: "globalYear", value: 2012}}))
			Expect(v.renders).To(Equal(1))
		})

		It("rejects a nil handle without raising", func() {
			Expect(func() { m.RegisterView("bad", nil) }).NotTo(Panic())

			v := &fakeView{}
			m.RegisterView("good", v)
			m.UpdateYear(2011)
			// only the valid view is in the registry
			Expect(v.signals).To(HaveLen(2))
		})

		It("replaces an existing view under the same name", func() {
			v1 := &fakeView{}
			v2 := &fakeView{}
			m.RegisterView("v", v1)
			m.RegisterView("v", v2)

			m.UpdateYear(2014)

			Expect(v1.signals).To(HaveLen(1)) // dropped after replacement
			Expect(v2.signals).To(HaveLen(2))
		})
	})

	Describe("UnregisterView", func() {
		It("is a no-op on a missing name", func() {
			Expect(func() { m.UnregisterView("nope") }).NotTo(Panic())
		})

		It("stops updates to the removed view", func() {
			v := &fakeView{}
			m.RegisterView("v", v)
			m.UnregisterView("v")

			m.UpdateYear(2018)

			Expect(v.signals).To(HaveLen(1))
		})
	})

	Describe("fan-out isolation", func() {
		It("continues past a panicking view", func() {
			broken := &fakeView{renderPanic: true}
			healthy := &fakeView{}
			m.RegisterView("broken", broken)
			m.RegisterView("healthy", healthy)

			m.UpdateYear(2016)

			Expect(healthy.signals).To(HaveLen(2))
			Expect(healthy.signals[1].value).To(Equal(2016))
		})

		It("continues past a view that rejects the signal", func() {
			rejecting := &fakeView{signalErr: fmt.Errorf("nope")}
			healthy := &fakeView{}
			m.RegisterView("rejecting", rejecting)
			m.RegisterView("healthy", healthy)

			m.UpdateAllViews()

			Expect(healthy.signals).To(HaveLen(2))
		})

		It("continues past a panicking listener", func() {
			second := false
			m.AddEventListener(mediator.EventValueChange, func(mediator.Event) { panic("boom") })
			m.AddEventListener(mediator.EventValueChange, func(mediator.Event) { second = true })

			m.UpdateYear(2013)

			Expect(second).To(BeTrue())
		})
	})

	Describe("listener registry", func() {
		It("invokes duplicates once per registration, in order", func() {
			var calls []int
			fn := func(mediator.Event) { calls = append(calls, len(calls)) }
			m.AddEventListener(mediator.EventValueChange, fn)
			m.AddEventListener(mediator.EventValueChange, fn)

			m.UpdateYear(2015)

			Expect(calls).To(Equal([]int{0, 1}))
		})

		It("removes exactly the subscribed instance", func() {
			calls := 0
			fn := func(mediator.Event) { calls++ }
			sub := m.AddEventListener(mediator.EventValueChange, fn)
			m.AddEventListener(mediator.EventValueChange, fn)
			m.RemoveEventListener(sub)

			m.UpdateYear(2015)

			Expect(calls).To(Equal(1))
		})
	})

	Describe("state bag", func() {
		It("returns an independent snapshot", func() {
			snap := m.State()
			snap["currentYear"] = 1999

			Expect(m.CurrentYear()).To(Equal(2010))
		})

		It("reports unknown keys", func() {
			_, ok := m.Value("nope")
			Expect(ok).To(BeFalse())
		})

		It("SetValue skips validation and the display, but fans out", func() {
			d := &fakeDisplay{}
			m.Bind(nil, d)
			seeded := len(d.texts)
			v := &fakeView{}
			m.RegisterView("v", v)

			m.SetValue("currentYear", 1990) // out of range on purpose

			Expect(m.CurrentYear()).To(Equal(1990))
			Expect(d.texts).To(HaveLen(seeded)) // display untouched
			Expect(v.signals[len(v.signals)-1].value).To(Equal(1990))
		})

		It("SetValue truncates a float year so typed reads keep working", func() {
			m.SetValue("currentYear", 2015.7)

			Expect(m.CurrentYear()).To(Equal(2015))
			m.UpdateYear(2016)
			Expect(m.CurrentYear()).To(Equal(2016))
		})

		It("SetValue keeps the stored year on a non-numeric write", func() {
			var events []mediator.StateChange
			m.AddEventListener(mediator.EventStateChange, func(e mediator.Event) {
				events = append(events, e.(mediator.StateChange))
			})

			m.SetValue("currentYear", "later")

			Expect(m.CurrentYear()).To(Equal(2010))
			Expect(events).To(Equal([]mediator.StateChange{
				{Key: "currentYear", Old: 2010, New: "later"},
			}))
		})

		It("SetValue always emits stateChange", func() {
			var events []mediator.StateChange
			m.AddEventListener(mediator.EventStateChange, func(e mediator.Event) {
				events = append(events, e.(mediator.StateChange))
			})

			m.SetValue("basin", "NA")

			Expect(events).To(Equal([]mediator.StateChange{{Key: "basin", Old: nil, New: "NA"}}))
		})
	})

	Describe("Bind", func() {
		It("seeds the control and routes its changes to UpdateYear", func() {
			in := &fakeInput{}
			d := &fakeDisplay{}
			m.Bind(in, d)

			Expect(in.value).To(Equal(2010))
			Expect(d.texts).To(Equal([]string{"2010"}))

			in.change(2020)
			Expect(m.CurrentYear()).To(Equal(2020))
		})
	})

	Describe("PrepareSpec", func() {
		It("injects globalYear without touching the input", func() {
			m.UpdateYear(2020)
			in := &chartspec.Spec{
				Mark:   chartspec.MarkLine,
				Params: []chartspec.Param{{Name: "other", Value: 1}},
				Data:   chartspec.Data{Source: "counts"},
			}

			out := m.PrepareSpec(in)

			Expect(out.Params).To(Equal([]chartspec.Param{
				{Name: "globalYear", Value: 2020},
				{Name: "other", Value: 1},
			}))
			Expect(in.Params).To(Equal([]chartspec.Param{{Name: "other", Value: 1}}))
		})

		It("updates an existing globalYear entry in place", func() {
			in := &chartspec.Spec{
				Params: []chartspec.Param{
					{Name: "other", Value: 1},
					{Name: "globalYear", Value: 1900},
				},
			}

			out := m.PrepareSpec(in)

			Expect(out.Params).To(Equal([]chartspec.Param{
				{Name: "other", Value: 1},
				{Name: "globalYear", Value: 2010},
			}))
		})
	})
})

// viewFunc adapts a plain func to the View contract for ordering tests.
type viewFunc func()

func (f viewFunc) SetSignal(string, int) error { return nil }
func (f viewFunc) Render() error               { f(); return nil }
