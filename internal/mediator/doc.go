// Package mediator keeps multiple chart views in lockstep on one shared
// year parameter.
//
// A [Mediator] holds the shared state bag, a named registry of [View]
// handles and a listener registry. Moving the year through [Mediator.UpdateYear]
// pushes the new value into every registered view as the "globalYear"
// signal and then notifies listeners:
//
//	m := mediator.New(2005, 2025, 2010)
//	m.RegisterView("counts", countsChart)
//	m.AddEventListener(mediator.EventValueChange, func(e mediator.Event) { ... })
//	m.UpdateYear(2015)
//
// Fan-out is best-effort: one failing view or listener is logged and
// never blocks the others. Out-of-range years are ignored outright.
// The one operation whose errors reach the caller is
// [Mediator.LoadVisualization], which fetches a chart spec document,
// injects the year via [Mediator.PrepareSpec] and instantiates the chart
// through an [Embedder].
package mediator
