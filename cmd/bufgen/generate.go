package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bufgen/internal/backend"
	"bufgen/internal/buffergen"
)

type generateOptions struct {
	bundle     string
	manifest   string
	primitives []string
	emit       string
	filelist   bool
	lint       string
	lintArgs   []string
	jobs       int
}

func newGenerateCmd(g *globalOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate CONFIG...",
		Short: "Generate the modules of every configured buffer",
		Long: `Generate reads buffer configurations and writes, per buffer, ` +
			`memcores_<name>.v, buffer_<name>.v, relay_memcores_<name>.v and ` +
			`relay_buffer_<name>.v, plus laneswitches_<name>.v for ` +
			`single-section buffers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, o, args)
		},
	}
	flags := cmd.Flags()
	flags.StringP("output", "o", ".", "output directory; defaults to $"+envOutputDir)
	flags.Int("latency", buffergen.DefaultLatency, "default LEVEL of the relay modules; defaults to $"+envLatency)
	flags.StringVar(&o.bundle, "bundle", "", "write every file into this txtar archive instead of the output directory")
	flags.StringVar(&o.manifest, "manifest", "", "record written files in this SQLite database")
	flags.StringSliceVar(&o.primitives, "primitives", nil, "primitive library sources copied next to the output")
	flags.StringVar(&o.emit, "emit", "verilog", "output format (verilog|ir)")
	flags.BoolVar(&o.filelist, "filelist", false, "write <name>.f listing the files of each buffer")
	flags.StringVar(&o.lint, "lint", "", "linter run over the written Verilog (optional)")
	flags.StringSliceVar(&o.lintArgs, "lint-arg", nil, "argument passed to the linter before the files")
	flags.IntVarP(&o.jobs, "jobs", "j", 0, "buffers generated in parallel (0 uses every CPU)")
	return cmd
}

func runGenerate(cmd *cobra.Command, g *globalOptions, o *generateOptions, args []string) error {
	format := backend.Verilog
	switch o.emit {
	case "verilog":
	case "ir":
		format = backend.IRDump
	default:
		return fmt.Errorf("unknown emit format: %s", o.emit)
	}
	if o.lint != "" && (format != backend.Verilog || o.bundle != "") {
		return fmt.Errorf("--lint requires Verilog output to a directory")
	}
	latency, err := intDefault(cmd, "latency", envLatency)
	if err != nil {
		return err
	}
	if latency < 0 {
		return fmt.Errorf("latency must not be negative, got %d", latency)
	}
	logger, err := g.logger()
	if err != nil {
		return err
	}

	reporter := g.reporter()
	bufs, err := g.loadBuffers(args, reporter)
	if err != nil {
		return err
	}

	var (
		sink   backend.Sink
		bundle *backend.BundleSink
	)
	if o.bundle != "" {
		bundle = backend.NewBundleSink(o.bundle)
		sink = bundle
	} else {
		sink = backend.DirSink{Dir: stringDefault(cmd, "output", envOutputDir)}
	}

	ctx := buffergen.NewContext(sink)
	ctx.Logger = logger
	ctx.Reporter = reporter
	ctx.Latency = latency
	ctx.Format = format
	ctx.Workers = o.jobs
	if o.manifest != "" {
		rec, err := openManifest(o.manifest)
		if err != nil {
			return err
		}
		defer rec.Close()
		ctx.Recorder = rec
		logger.Info("recording manifest", "path", rec.Filename())
	}

	reqs := make([]buffergen.Request, 0, len(bufs))
	for _, b := range bufs {
		reqs = append(reqs, buffergen.Request{Name: b.Name, Config: b.Config})
	}
	results, err := buffergen.New(ctx).GenerateAll(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	aux, err := backend.CopyPrimitives(sink, o.primitives)
	if err != nil {
		return err
	}

	files := append([]string(nil), aux...)
	for _, res := range results {
		files = append(files, res.Files...)
		if o.filelist {
			data, err := renderFilelist(filelistData{Buffer: res.Name, Primitives: aux, Files: res.Files})
			if err != nil {
				return err
			}
			if err := sink.Write(res.Name+".f", data); err != nil {
				return fmt.Errorf("write filelist: %w", err)
			}
		}
	}
	lint := backend.LintOptions{Path: o.lint, Args: o.lintArgs}
	if err := backend.Lint(sink, lint, files); err != nil {
		return err
	}
	if bundle != nil {
		if err := bundle.Close(); err != nil {
			return err
		}
	}

	fmt.Fprintf(g.stdout, "generated %d buffer(s), %d file(s)\n", len(results), len(files))
	return nil
}
