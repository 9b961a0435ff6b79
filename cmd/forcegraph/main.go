package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/tfrere/joshua-exhibition-graph/internal/config"
	"github.com/tfrere/joshua-exhibition-graph/internal/export"
	"github.com/tfrere/joshua-exhibition-graph/internal/force"
	"github.com/tfrere/joshua-exhibition-graph/internal/graph"
	"github.com/tfrere/joshua-exhibition-graph/internal/layout"
	"github.com/tfrere/joshua-exhibition-graph/internal/metrics"
	"github.com/tfrere/joshua-exhibition-graph/internal/storage"
	"github.com/tfrere/joshua-exhibition-graph/internal/viz"
)

var (
	dataDir       string
	graphFile     string
	configFile    string
	preset        string
	maxDistance   float64
	velocityDecay float64
	steps         int
	converge      float64
	workers       int
	// generator flags
	genKind     string
	genNodes    int
	genLinks    int
	genClusters int
	genRadius   float64
	genSpread   float64
	genSeed     int64
	// export flags
	format     string
	outputFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "forcegraph",
		Short: "3d force-directed graph layout",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forcegraph", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a layout and save the result",
		RunE:  runLayout,
	}
	addLayoutFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's displacement series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run's layout (svg or json)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "svg", "output format: svg or json")
	exportCmd.Flags().StringVar(&outputFile, "out", "", "output file (defaults to <run_id>.<format>)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the layout settle in the terminal",
		RunE:  runLive,
	}
	addLayoutFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps per second",
		RunE:  benchLayout,
	}
	addLayoutFlags(benchCmd)

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, benchCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&graphFile, "graph", "", "graph json file")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as family/name (e.g. ring/small)")
	cmd.Flags().Float64Var(&maxDistance, "max-distance", config.DefaultMaxDistance, "repulsion cutoff radius")
	cmd.Flags().Float64Var(&velocityDecay, "decay", config.DefaultVelocityDecay, "per-step velocity damping")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "maximum iterations")
	cmd.Flags().Float64Var(&converge, "converge", 0, "stop once mean displacement drops below this")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers for the repulsion phase")
	cmd.Flags().StringVar(&genKind, "gen", "ring", "generator when no graph file: ring, clusters, random")
	cmd.Flags().IntVar(&genNodes, "nodes", 24, "generated node count (per cluster for clusters)")
	cmd.Flags().IntVar(&genLinks, "links", 36, "generated link count (random)")
	cmd.Flags().IntVar(&genClusters, "clusters", 4, "cluster count (clusters)")
	cmd.Flags().Float64Var(&genRadius, "radius", 40, "ring radius / random cube side")
	cmd.Flags().Float64Var(&genSpread, "spread", 10, "cluster spread")
	cmd.Flags().Int64Var(&genSeed, "seed", time.Now().UnixNano(), "generator seed")
}

// resolveConfig merges preset < config file < explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		family, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be family/name, got %q", preset)
		}
		p, found := config.Preset(family, name)
		if !found {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("graph") {
		cfg.Graph = graphFile
	}
	if cmd.Flags().Changed("max-distance") {
		cfg.MaxDistance = maxDistance
	}
	if cmd.Flags().Changed("decay") {
		cfg.VelocityDecay = velocityDecay
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("converge") {
		cfg.Converge = converge
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("gen") {
		cfg.Generate.Kind = genKind
	}
	if cmd.Flags().Changed("nodes") {
		cfg.Generate.Nodes = genNodes
	}
	if cmd.Flags().Changed("links") {
		cfg.Generate.Links = genLinks
	}
	if cmd.Flags().Changed("clusters") {
		cfg.Generate.Clusters = genClusters
	}
	if cmd.Flags().Changed("radius") {
		cfg.Generate.Radius = genRadius
	}
	if cmd.Flags().Changed("spread") {
		cfg.Generate.Spread = genSpread
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generate.Seed = genSeed
	}

	return cfg, nil
}

// buildGraph loads the configured file, or generates a graph when no
// file is set. The returned label names the source for run metadata.
func buildGraph(cfg *config.Config) (*graph.Graph, string, error) {
	if cfg.Graph != "" {
		g, err := graph.Load(cfg.Graph)
		if err != nil {
			return nil, "", err
		}
		return g, cfg.Graph, nil
	}

	gen := cfg.Generate
	switch gen.Kind {
	case "ring":
		return graph.Ring(gen.Nodes, gen.Radius), fmt.Sprintf("ring(%d)", gen.Nodes), nil
	case "clusters":
		g := graph.Clusters(gen.Clusters, gen.Nodes, gen.Spread, gen.Seed)
		return g, fmt.Sprintf("clusters(%dx%d)", gen.Clusters, gen.Nodes), nil
	case "random":
		g := graph.Random(gen.Nodes, gen.Links, gen.Radius, gen.Seed)
		return g, fmt.Sprintf("random(%d/%d)", gen.Nodes, gen.Links), nil
	default:
		return nil, "", fmt.Errorf("unknown generator %q", gen.Kind)
	}
}

func newEngine(cfg *config.Config) *force.Engine {
	e := force.New(cfg.MaxDistance, cfg.VelocityDecay)
	e.Workers = cfg.Workers
	return e
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	g, label, err := buildGraph(cfg)
	if err != nil {
		return err
	}

	e := newEngine(cfg)
	g.Apply(e)

	runner := layout.New(e)
	runner.AddMetric(metrics.NewDisplacement())
	runner.AddMetric(metrics.NewKinetic())
	runner.AddMetric(metrics.NewSpread())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	layoutCfg := layout.Config{Steps: cfg.Steps, Converge: cfg.Converge, ValidateState: true}

	start := time.Now()
	result, err := runner.Run(ctx, layoutCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(label, g.IDs, cfg.MaxDistance, cfg.VelocityDecay, g.Links, result)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d nodes, %d links, %d steps in %s\n",
		runID, len(result.Nodes), len(g.Links), result.StepsTaken, elapsed.Round(time.Millisecond))
	if result.Converged {
		fmt.Println("converged")
	}
	for name, v := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, v)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGRAPH\tNODES\tLINKS\tSTEPS\tCONVERGED\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%t\t%s\n",
			r.ID, r.Graph, r.Nodes, r.Links, r.StepsTaken, r.Converged,
			r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("run %s has no displacement series", args[0])
	}

	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption("mean displacement per step")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ids, nodes, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}

	out := outputFile
	switch format {
	case "svg":
		if out == "" {
			out = args[0] + ".svg"
		}
		links, err := st.LoadLinks(args[0])
		if err != nil {
			return err
		}
		if err := export.WriteLayoutSVG(out, nodes, links, 800, 600); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = args[0] + ".json"
		}
		if err := export.PositionsJSON(out, ids, nodes); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	g, label, err := buildGraph(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(g, newEngine(cfg), label))
	_, err = p.Run()
	return err
}

func benchLayout(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	g, label, err := buildGraph(cfg)
	if err != nil {
		return err
	}

	e := newEngine(cfg)
	g.Apply(e)

	start := time.Now()
	for i := 0; i < cfg.Steps; i++ {
		if err := e.Step(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "graph\t%s\n", label)
	fmt.Fprintf(w, "nodes\t%d\n", e.NodeCount())
	fmt.Fprintf(w, "links\t%d\n", e.LinkCount())
	fmt.Fprintf(w, "workers\t%d\n", cfg.Workers)
	fmt.Fprintf(w, "steps\t%d\n", cfg.Steps)
	fmt.Fprintf(w, "elapsed\t%s\n", elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "steps/sec\t%.1f\n", float64(cfg.Steps)/elapsed.Seconds())
	return w.Flush()
}
