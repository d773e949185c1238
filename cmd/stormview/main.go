package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/stormview/internal/charts"
	"github.com/san-kum/stormview/internal/chartspec"
	"github.com/san-kum/stormview/internal/config"
	"github.com/san-kum/stormview/internal/export"
	"github.com/san-kum/stormview/internal/ibtracs"
	"github.com/san-kum/stormview/internal/mediator"
	"github.com/san-kum/stormview/internal/store"
	"github.com/san-kum/stormview/internal/tui"
)

var (
	dbPath     string
	startYear  int
	endYear    int
	outPath    string
	doImport   bool
	limit      int
	svgWidth   int
	svgHeight  int
	svgBraille bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stormview",
		Short: "synchronized hurricane chart dashboard",
		RunE:  runDashboard,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default from config)")

	prepCmd := &cobra.Command{
		Use:   "prep [ibtracs.csv]",
		Short: "reduce an IBTrACS export to first storm locations",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrep,
	}
	prepCmd.Flags().IntVar(&startYear, "start", ibtracs.DefaultStartYear, "first season to keep")
	prepCmd.Flags().IntVar(&endYear, "end", ibtracs.DefaultEndYear, "last season to keep")
	prepCmd.Flags().StringVar(&outPath, "out", "", "write prepared CSV here")
	prepCmd.Flags().BoolVar(&doImport, "import", false, "also import into the database")

	importCmd := &cobra.Command{
		Use:   "import [prepared.csv]",
		Short: "load a prepared CSV into the database",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	yearsCmd := &cobra.Command{
		Use:   "years",
		Short: "storm counts per season",
		RunE:  runYears,
	}

	findCmd := &cobra.Command{
		Use:   "find [name]",
		Short: "fuzzy search storms by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runFind,
	}
	findCmd.Flags().IntVar(&limit, "limit", 10, "max matches")

	plotCmd := &cobra.Command{
		Use:   "plot [season]",
		Short: "print the season's charts to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}

	specsCmd := &cobra.Command{
		Use:   "specs",
		Short: "list built-in chart presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range chartspec.ListPresets() {
				s := chartspec.Presets[name]
				fmt.Printf("  %-10s %-6s %s\n", name, s.Mark, s.Title)
			}
			return nil
		},
	}

	svgCmd := &cobra.Command{
		Use:   "export-svg [season]",
		Short: "export the season's genesis map as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportSVG,
	}
	svgCmd.Flags().StringVar(&outPath, "out", "genesis.svg", "output file")
	svgCmd.Flags().IntVar(&svgWidth, "width", 720, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 280, "image height")
	svgCmd.Flags().BoolVar(&svgBraille, "braille", false, "rasterize through the Braille canvas")

	rootCmd.AddCommand(prepCmd, importCmd, yearsCmd, findCmd, plotCmd, specsCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore() (*store.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, config.Config{}, err
	}
	return st, cfg, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Specs.Presets != "" {
		if err := chartspec.LoadPresetsFile(cfg.Specs.Presets); err != nil {
			return fmt.Errorf("load chart presets: %w", err)
		}
	}

	med := mediator.New(cfg.Years.Start, cfg.Years.End, cfg.Years.Initial)
	embedder := charts.NewEmbedder(st)
	med.SetEmbedder(embedder)

	ctx := context.Background()
	var panes []tui.Pane

	if cfg.Specs.Dir != "" {
		entries, err := os.ReadDir(cfg.Specs.Dir)
		if err != nil {
			return fmt.Errorf("read spec dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".json")
			res, err := med.LoadVisualization(ctx, name, filepath.Join(cfg.Specs.Dir, e.Name()), name)
			if err != nil {
				return err
			}
			panes = append(panes, tui.Pane{ID: name, Chart: res.View.(tui.Chart)})
		}
	} else {
		for _, name := range chartspec.ListPresets() {
			res, err := embedder.Embed(ctx, name, med.PrepareSpec(chartspec.GetPreset(name)))
			if err != nil {
				return err
			}
			med.RegisterView(name, res.View)
			panes = append(panes, tui.Pane{ID: name, Chart: res.View.(tui.Chart)})
		}
	}

	return tui.Run(med, panes)
}

func runPrep(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	recs, stats, err := ibtracs.Prep(f, startYear, endYear)
	if err != nil {
		return err
	}

	if outPath != "" {
		out, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := ibtracs.WriteCSV(out, recs); err != nil {
			return err
		}
		fmt.Printf("saved %d first storm locations from %d-%d to %s\n",
			len(recs), startYear, endYear, outPath)
	}

	if doImport {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		importID, err := st.Import(recs, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("imported %d storms (batch %s)\n", len(recs), importID)
	}

	fmt.Printf("original dataset had %d records\n", stats.Original)
	fmt.Printf("after cleaning invalid SID values: %d records\n", stats.Cleaned)
	fmt.Printf("after filtering to %d-%d: %d records\n", startYear, endYear, stats.Filtered)
	fmt.Printf("final first locations: %d records\n", stats.FirstFixes)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	recs, err := ibtracs.ReadPrepared(f)
	if err != nil {
		return err
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	importID, err := st.Import(recs, filepath.Base(args[0]))
	if err != nil {
		return err
	}
	fmt.Printf("imported %d storms (batch %s)\n", len(recs), importID)
	return nil
}

func runYears(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	counts, err := st.CountsBySeason()
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("no storms found, run prep/import first")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEASON\tSTORMS")
	for _, c := range counts {
		fmt.Fprintf(w, "%d\t%d\n", c.Season, c.Count)
	}
	return w.Flush()
}

func runFind(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	matches, err := st.SearchStorms(args[0], limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no named storms in database")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SID\tNAME\tSEASON\tBASIN")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", m.SID, m.Name, m.Season, m.Basin)
	}
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad season %q: %w", args[0], err)
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	embedder := charts.NewEmbedder(st)
	ctx := context.Background()
	for _, name := range chartspec.ListPresets() {
		s := chartspec.GetPreset(name)
		s.SetParam(mediator.SignalYear, season)
		res, err := embedder.Embed(ctx, name, s)
		if err != nil {
			return err
		}
		chart := res.View.(tui.Chart)
		fmt.Printf("%s\n%s\n\n", chart.Title(), chart.Frame())
	}
	return nil
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad season %q: %w", args[0], err)
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	points, err := st.PointsForSeason(season)
	if err != nil {
		return err
	}

	var svg string
	if svgBraille {
		// one canvas cell covers 2x4 sub-pixels at 8px each
		svg = export.GenesisToBrailleSVG(points, svgWidth/16, svgHeight/32, 8)
	} else {
		svg = export.GenesisToSVG(points, svgWidth, svgHeight)
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d genesis points for %d to %s\n", len(points), season, outPath)
	return nil
}
