package charts

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/stormview/internal/chartspec"
	"github.com/san-kum/stormview/internal/mediator"
	"github.com/san-kum/stormview/internal/store"
)

type fakeSource struct{}

func (fakeSource) CountsBySeason() ([]store.SeasonCount, error) {
	return []store.SeasonCount{
		{Season: 2010, Count: 12},
		{Season: 2011, Count: 18},
		{Season: 2012, Count: 9},
	}, nil
}

func (fakeSource) PointsForSeason(season int) ([]store.Point, error) {
	if season != 2011 {
		return nil, nil
	}
	return []store.Point{
		{Name: "ALEX", Lat: 15.5, Lon: -81.0, Wind: 25},
		{Name: "IRENE", Lat: 21.0, Lon: 290.0, Wind: 70},
	}, nil
}

func (fakeSource) MaxWindBySeason() ([]store.SeasonWind, error) {
	return []store.SeasonWind{
		{Season: 2010, Wind: 85},
		{Season: 2011, Wind: 120},
		{Season: 2012, Wind: 95},
	}, nil
}

func TestCountsChart(t *testing.T) {
	c := NewCountsChart(fakeSource{}, "counts", 40, 6)

	if err := c.SetSignal(mediator.SignalYear, 2011); err != nil {
		t.Fatalf("set signal failed: %v", err)
	}
	if err := c.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(c.Frame(), "2011: 18 storms") {
		t.Errorf("caption should name the current year's count, got:\n%s", c.Frame())
	}
}

func TestChartRejectsUnknownSignal(t *testing.T) {
	c := NewCountsChart(fakeSource{}, "counts", 40, 6)
	if err := c.SetSignal("volume", 5); err == nil {
		t.Error("expected error for unknown signal")
	}
}

func TestTrackMap(t *testing.T) {
	m := NewTrackMap(fakeSource{}, "genesis", 40, 10)

	if err := m.SetSignal(mediator.SignalYear, 2011); err != nil {
		t.Fatalf("set signal failed: %v", err)
	}
	if err := m.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(m.Frame(), "2 genesis points in 2011") {
		t.Errorf("expected point count in frame, got:\n%s", m.Frame())
	}

	// empty season still renders
	if err := m.SetSignal(mediator.SignalYear, 2012); err != nil {
		t.Fatalf("set signal failed: %v", err)
	}
	if err := m.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(m.Frame(), "0 genesis points in 2012") {
		t.Errorf("expected empty season frame, got:\n%s", m.Frame())
	}
}

func TestWindChartStopsAtYear(t *testing.T) {
	w := NewWindChart(fakeSource{}, "wind", 40, 6)

	if err := w.SetSignal(mediator.SignalYear, 2011); err != nil {
		t.Fatalf("set signal failed: %v", err)
	}
	if err := w.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(w.Frame(), "max wind through 2011: 120 kt") {
		t.Errorf("expected caption through 2011, got:\n%s", w.Frame())
	}
}

func TestEmbedder(t *testing.T) {
	e := NewEmbedder(fakeSource{})
	ctx := context.Background()

	s := &chartspec.Spec{
		Title:  "storms per season",
		Mark:   chartspec.MarkLine,
		Params: []chartspec.Param{{Name: mediator.SignalYear, Value: 2012}},
		Data:   chartspec.Data{Source: "counts"},
	}

	res, err := e.Embed(ctx, "pane1", s)
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	c, ok := res.View.(*CountsChart)
	if !ok {
		t.Fatalf("expected *CountsChart, got %T", res.View)
	}
	if c.Title() != "storms per season" {
		t.Errorf("unexpected title %q", c.Title())
	}
	if !strings.Contains(c.Frame(), "2012: 9 storms") {
		t.Errorf("globalYear param should seed the initial year, got:\n%s", c.Frame())
	}

	if _, err := e.Embed(ctx, "pane1", &chartspec.Spec{Mark: "pie"}); err == nil {
		t.Error("expected error for unsupported mark")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] == 0x2800 {
		t.Error("expected pixel to be set")
	}
	c.Set(-1, -1) // out of bounds is ignored
	c.DrawLine(0, 0, 7, 7)
	out := c.String()
	if len(strings.Split(strings.TrimRight(out, "\n"), "\n")) != 2 {
		t.Errorf("expected 2 rows, got:\n%s", out)
	}
	dots := 0
	c.Dots(func(int, int) { dots++ })
	if dots != 8 {
		t.Errorf("expected the 8 diagonal dots, got %d", dots)
	}
	c.Clear()
	if c.Grid[0][0] != 0x2800 {
		t.Error("expected canvas to be cleared")
	}
}
