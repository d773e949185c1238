package charts

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stormview/internal/mediator"
	"github.com/san-kum/stormview/internal/store"
)

// DataSource is what a chart view reads from. *store.Store satisfies it.
type DataSource interface {
	CountsBySeason() ([]store.SeasonCount, error)
	PointsForSeason(season int) ([]store.Point, error)
	MaxWindBySeason() ([]store.SeasonWind, error)
}

// base carries what every chart view shares: the signal slot for the
// shared year and the last rendered frame.
type base struct {
	title  string
	width  int
	height int
	year   int
	frame  string
}

func (b *base) Title() string { return b.title }

// Frame returns the last rendered text frame.
func (b *base) Frame() string { return b.frame }

func (b *base) setSignal(name string, value int) error {
	if name != mediator.SignalYear {
		return fmt.Errorf("unknown signal %q", name)
	}
	b.year = value
	return nil
}

// CountsChart plots storm counts per season with the shared year marked.
type CountsChart struct {
	base
	source DataSource
}

func NewCountsChart(src DataSource, title string, width, height int) *CountsChart {
	return &CountsChart{base: base{title: title, width: width, height: height}, source: src}
}

func (c *CountsChart) SetSignal(name string, value int) error { return c.setSignal(name, value) }

func (c *CountsChart) Render() error {
	counts, err := c.source.CountsBySeason()
	if err != nil {
		return fmt.Errorf("counts chart: %w", err)
	}
	if len(counts) == 0 {
		c.frame = "no data"
		return nil
	}

	series := make([]float64, len(counts))
	current := 0
	for i, sc := range counts {
		series[i] = float64(sc.Count)
		if sc.Season == c.year {
			current = sc.Count
		}
	}

	c.frame = asciigraph.Plot(series,
		asciigraph.Height(c.height),
		asciigraph.Width(c.width),
		asciigraph.Caption(fmt.Sprintf("%d: %d storms", c.year, current)),
	)
	return nil
}

// TrackMap scatters genesis positions of the shared year's storms on a
// Braille lat/lon viewport.
type TrackMap struct {
	base
	source DataSource
	canvas *Canvas
}

func NewTrackMap(src DataSource, title string, width, height int) *TrackMap {
	return &TrackMap{
		base:   base{title: title, width: width, height: height},
		source: src,
		canvas: NewCanvas(width, height),
	}
}

func (t *TrackMap) SetSignal(name string, value int) error { return t.setSignal(name, value) }

// fixed world viewport so the map stays stable across years
const (
	viewLonMin, viewLonMax = -180.0, 180.0
	viewLatMin, viewLatMax = -70.0, 70.0
)

// PlotGenesis rasterizes genesis positions onto the canvas, one dot per
// storm, widened for hurricane-force winds. Longitudes above 180 wrap
// to the western hemisphere.
func PlotGenesis(c *Canvas, points []store.Point) {
	pw := c.Width * 2
	ph := c.Height * 4
	for _, p := range points {
		lon := p.Lon
		if lon > 180 {
			lon -= 360
		}
		x := int((lon - viewLonMin) / (viewLonMax - viewLonMin) * float64(pw-1))
		y := int((viewLatMax - p.Lat) / (viewLatMax - viewLatMin) * float64(ph-1))
		c.Set(x, y)
		if !math.IsNaN(p.Wind) && p.Wind >= 64 {
			c.Set(x+1, y)
			c.Set(x, y+1)
			c.Set(x-1, y)
		}
	}
}

func (t *TrackMap) Render() error {
	points, err := t.source.PointsForSeason(t.year)
	if err != nil {
		return fmt.Errorf("track map: %w", err)
	}

	t.canvas.Clear()
	PlotGenesis(t.canvas, points)

	// dotted equator
	pw := t.canvas.Width * 2
	ph := t.canvas.Height * 4
	eq := int(viewLatMax / (viewLatMax - viewLatMin) * float64(ph-1))
	for x := 0; x < pw; x += 4 {
		t.canvas.Set(x, eq)
	}

	t.frame = t.canvas.String() + fmt.Sprintf("%d genesis points in %d", len(points), t.year)
	return nil
}

// WindChart plots the strongest first-fix wind per season, up to and
// including the shared year.
type WindChart struct {
	base
	source DataSource
}

func NewWindChart(src DataSource, title string, width, height int) *WindChart {
	return &WindChart{base: base{title: title, width: width, height: height}, source: src}
}

func (w *WindChart) SetSignal(name string, value int) error { return w.setSignal(name, value) }

func (w *WindChart) Render() error {
	winds, err := w.source.MaxWindBySeason()
	if err != nil {
		return fmt.Errorf("wind chart: %w", err)
	}

	var series []float64
	last := 0.0
	for _, sw := range winds {
		if sw.Season > w.year {
			break
		}
		series = append(series, sw.Wind)
		last = sw.Wind
	}
	if len(series) < 2 {
		w.frame = fmt.Sprintf("no wind data through %d", w.year)
		return nil
	}

	w.frame = asciigraph.Plot(series,
		asciigraph.Height(w.height),
		asciigraph.Width(w.width),
		asciigraph.Caption(fmt.Sprintf("max wind through %d: %.0f kt", w.year, last)),
	)
	return nil
}
