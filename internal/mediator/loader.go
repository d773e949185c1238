package mediator

import (
	"context"
	"fmt"

	"github.com/san-kum/stormview/internal/chartspec"
)

// EmbedResult is what chart instantiation produces. The contained view
// is what the mediator drives after registration.
type EmbedResult struct {
	View View
}

// Embedder instantiates a chart from a prepared spec into a named
// container of the host surface.
type Embedder interface {
	Embed(ctx context.Context, containerID string, s *chartspec.Spec) (*EmbedResult, error)
}

// LoadVisualization fetches a chart spec document from specURL, injects
// the shared year, instantiates the chart into containerID and registers
// the resulting view under viewName.
//
// Unlike the rest of the mediator's operations, failures here propagate:
// the caller gets the fetch, decode or embed error back, in addition to
// the logged diagnostic. specURL accepts anything the storage layer
// resolves, including plain file paths and http(s) URLs.
func (m *Mediator) LoadVisualization(ctx context.Context, containerID, specURL, viewName string) (*EmbedResult, error) {
	m.mu.RLock()
	embedder := m.embedder
	m.mu.RUnlock()
	if embedder == nil {
		return nil, fmt.Errorf("load %s: no embedder installed", viewName)
	}

	data, err := m.fs.DownloadWithURL(ctx, specURL)
	if err != nil {
		m.logf("mediator: view %q: fetch spec %s: %v", viewName, specURL, err)
		return nil, fmt.Errorf("fetch spec for %s: %w", viewName, err)
	}

	s, err := chartspec.Parse(data)
	if err != nil {
		m.logf("mediator: view %q: %v", viewName, err)
		return nil, fmt.Errorf("parse spec for %s: %w", viewName, err)
	}

	res, err := embedder.Embed(ctx, containerID, m.PrepareSpec(s))
	if err != nil {
		m.logf("mediator: view %q: embed in %s: %v", viewName, containerID, err)
		return nil, fmt.Errorf("embed %s: %w", viewName, err)
	}

	m.RegisterView(viewName, res.View)
	return res, nil
}
