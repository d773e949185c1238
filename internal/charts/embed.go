package charts

import (
	"context"
	"fmt"

	"github.com/san-kum/stormview/internal/chartspec"
	"github.com/san-kum/stormview/internal/mediator"
)

const (
	defaultWidth  = 64
	defaultHeight = 10
)

// Embedder instantiates chart views from prepared spec documents. It is
// the mediator's chart-instantiation capability.
type Embedder struct {
	source DataSource
}

func NewEmbedder(src DataSource) *Embedder {
	return &Embedder{source: src}
}

// Embed builds the view the spec's mark asks for. The containerID names
// the dashboard pane the view renders into; the injected globalYear
// param, when present, seeds the view's initial year.
func (e *Embedder) Embed(ctx context.Context, containerID string, s *chartspec.Spec) (*mediator.EmbedResult, error) {
	if s == nil {
		return nil, fmt.Errorf("embed %s: nil spec", containerID)
	}
	width, height := s.Width, s.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	var v mediator.View
	switch s.Mark {
	case chartspec.MarkLine:
		v = NewCountsChart(e.source, s.Title, width, height)
	case chartspec.MarkMap:
		v = NewTrackMap(e.source, s.Title, width, height)
	case chartspec.MarkBars:
		v = NewWindChart(e.source, s.Title, width, height)
	default:
		return nil, fmt.Errorf("embed %s: unsupported mark %q", containerID, s.Mark)
	}

	if year, ok := s.Param(mediator.SignalYear); ok {
		if err := v.SetSignal(mediator.SignalYear, year); err != nil {
			return nil, fmt.Errorf("embed %s: %w", containerID, err)
		}
	}
	if err := v.Render(); err != nil {
		return nil, fmt.Errorf("embed %s: %w", containerID, err)
	}
	return &mediator.EmbedResult{View: v}, nil
}
