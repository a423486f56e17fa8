package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"bufgen/internal/buffergen"
	"bufgen/internal/diag"
	"bufgen/internal/frontend"
	"bufgen/internal/manifest"
	"bufgen/internal/validate"
)

// Environment variables supplying flag defaults.
const (
	envOutputDir = "BUFGEN_OUTPUT_DIR"
	envLatency   = "BUFGEN_LATENCY"
	envLogLevel  = "BUFGEN_LOG_LEVEL"
)

// openManifest is replaced in tests.
var openManifest = func(path string) (manifestRecorder, error) {
	return manifest.New(path)
}

type manifestRecorder interface {
	buffergen.Recorder
	Filename() string
	Close() error
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	diagFormat string
	logLevel   string
	envFile    string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "bufgen",
		Short: "Generates partitioned double-buffer hardware modules.",
		Long: `bufgen reads buffer channel configurations and generates the ` +
			`memory banks, lane switch, ping-pong buffer and pipelined relay ` +
			`modules of every buffer as Verilog source.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.loadEnv(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&g.diagFormat, "diag-format", "text", "diagnostic output format (text|json)")
	flags.StringVar(&g.logLevel, "log-level", "info", "log level (debug|info|warn|error); defaults to $"+envLogLevel)
	flags.StringVar(&g.envFile, "env-file", ".env", "file supplying environment defaults; ignored when missing")

	root.AddCommand(newGenerateCmd(g), newGeometryCmd(g), newPortsCmd(g))
	return root
}

// loadEnv reads the env file and applies the log level from the
// environment unless the flag was given.
func (g *globalOptions) loadEnv(cmd *cobra.Command) error {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", g.envFile, err)
		}
	}
	if !cmd.Flags().Changed("log-level") {
		if v := os.Getenv(envLogLevel); v != "" {
			g.logLevel = v
		}
	}
	return nil
}

func (g *globalOptions) reporter() *diag.Reporter {
	return diag.NewReporter(g.stderr, g.diagFormat)
}

func (g *globalOptions) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", g.logLevel)
	}
	return slog.New(slog.NewTextHandler(g.stderr, &slog.HandlerOptions{Level: level})), nil
}

// loadBuffers reads and validates the configuration files.
func (g *globalOptions) loadBuffers(sources []string, reporter *diag.Reporter) ([]frontend.Buffer, error) {
	bufs, err := frontend.LoadBuffers(frontend.LoadConfig{Sources: sources}, reporter)
	if err != nil {
		return nil, err
	}
	if err := validate.CheckBuffers(bufs, reporter); err != nil {
		return nil, err
	}
	return bufs, nil
}

// stringDefault returns the flag value, the environment value or the
// built-in default, in that order.
func stringDefault(cmd *cobra.Command, flag, env string) string {
	v, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return v
	}
	if e := os.Getenv(env); e != "" {
		return e
	}
	return v
}

func intDefault(cmd *cobra.Command, flag, env string) (int, error) {
	v, _ := cmd.Flags().GetInt(flag)
	if cmd.Flags().Changed(flag) {
		return v, nil
	}
	if e := strings.TrimSpace(os.Getenv(env)); e != "" {
		n, err := strconv.Atoi(e)
		if err != nil {
			return 0, fmt.Errorf("$%s: %w", env, err)
		}
		return n, nil
	}
	return v, nil
}
