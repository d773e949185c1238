package mediator_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stormview/internal/chartspec"
	"github.com/san-kum/stormview/internal/mediator"
)

// fakeEmbedder hands back a canned view and records what it embedded.
type fakeEmbedder struct {
	view      *fakeView
	container string
	spec      *chartspec.Spec
	err       error
}

func (e *fakeEmbedder) Embed(ctx context.Context, containerID string, s *chartspec.Spec) (*mediator.EmbedResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.container = containerID
	e.spec = s
	return &mediator.EmbedResult{View: e.view}, nil
}

var _ = Describe("LoadVisualization", func() {
	var (
		m        *mediator.Mediator
		embedder *fakeEmbedder
		specPath string
	)

	BeforeEach(func() {
		m = mediator.New(2005, 2025, 2012)
		embedder = &fakeEmbedder{view: &fakeView{}}
		m.SetEmbedder(embedder)

		dir, err := os.MkdirTemp("", "stormview")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		specPath = filepath.Join(dir, "counts.json")
		doc := `{"title":"storms per season","mark":"line","data":{"source":"counts"}}`
		Expect(os.WriteFile(specPath, []byte(doc), 0644)).To(Succeed())
	})

	It("fetches, prepares, embeds and registers the view", func() {
		res, err := m.LoadVisualization(context.Background(), "pane1", specPath, "counts")

		Expect(err).NotTo(HaveOccurred())
		Expect(res.View).To(BeIdenticalTo(mediator.View(embedder.view)))
		Expect(embedder.container).To(Equal("pane1"))

		year, ok := embedder.spec.Param(mediator.SignalYear)
		Expect(ok).To(BeTrue())
		Expect(year).To(Equal(2012))

		// registration pushed the current year into the view
		Expect(embedder.view.signals).To(Equal([]signalCall{{name: "globalYear", value: 2012}}))
	})

	It("propagates fetch failures to the caller", func() {
		_, err := m.LoadVisualization(context.Background(), "pane1", filepath.Join("nope", "missing.json"), "counts")
		Expect(err).To(HaveOccurred())
	})

	It("propagates spec decode failures to the caller", func() {
		Expect(os.WriteFile(specPath, []byte("{not json"), 0644)).To(Succeed())
		_, err := m.LoadVisualization(context.Background(), "pane1", specPath, "counts")
		Expect(err).To(MatchError(ContainSubstring("parse spec")))
	})

	It("propagates embed failures and registers nothing", func() {
		embedder.err = fmt.Errorf("container busy")

		_, err := m.LoadVisualization(context.Background(), "pane1", specPath, "counts")

		Expect(err).To(MatchError(ContainSubstring("container busy")))
		m.UpdateYear(2013)
		Expect(embedder.view.signals).To(BeEmpty())
	})

	It("fails when no embedder is installed", func() {
		bare := mediator.New(2005, 2025, 2012)
		_, err := bare.LoadVisualization(context.Background(), "pane1", specPath, "counts")
		Expect(err).To(MatchError(ContainSubstring("no embedder")))
	})
})
