// Package buffergen generates every module of a buffer channel from its
// configuration and writes the resulting files.
package buffergen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bufgen/internal/backend"
	"bufgen/internal/config"
	"bufgen/internal/diag"
	"bufgen/internal/gen"
	"bufgen/internal/ir"
	"bufgen/internal/passes"
)

// DefaultLatency is the default number of relay stages of the pipelined
// variants.
const DefaultLatency = 2

// Recorder is told about every file written. config is the canonical key of
// the configuration the file was generated from.
type Recorder interface {
	Record(buffer, config, module, path string, data []byte) error
}

// Context carries everything a generation run needs. Build one with
// NewContext and override fields as required.
type Context struct {
	Logger   *slog.Logger
	Reporter *diag.Reporter
	// Latency is the default LEVEL of the relay variants.
	Latency  int
	Sink     backend.Sink
	Format   backend.Format
	Recorder Recorder
	// Workers bounds GenerateAll; zero or less means GOMAXPROCS.
	Workers int
}

// NewContext returns a context writing to sink with the default latency, a
// discarding logger and a reporter that records without printing.
func NewContext(sink backend.Sink) Context {
	return Context{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Reporter: diag.NewReporter(nil, "text"),
		Latency:  DefaultLatency,
		Sink:     sink,
	}
}

// Bundle is everything generated for one buffer before it is written.
type Bundle struct {
	Name      string
	Config    config.BufferConfig
	Geometry  config.Geometry
	Names     gen.Names
	Design    *ir.Design
	Artifacts []backend.Artifact
}

// Build generates and verifies the modules of the buffer called name. The
// configuration is validated first; structural problems found in the
// generated design are reported through reporter and fail the build.
func Build(name string, cfg config.BufferConfig, latency int, reporter *diag.Reporter) (*Bundle, error) {
	if name == "" {
		return nil, fmt.Errorf("buffergen: buffer name is empty")
	}
	if latency < 0 {
		return nil, fmt.Errorf("buffergen: buffer %s: latency %d is negative", name, latency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("buffergen: buffer %s: %w", name, err)
	}

	names := gen.NamesFor(name)
	memcores := gen.Memcores(names.Memcores, cfg)
	buffer := gen.DoubleBuffer(names, cfg)
	relayTop, relayReg := gen.RelayMemcores(names, cfg, latency)
	relayBuffer := gen.RelayBuffer(names, cfg, latency)

	design := &ir.Design{TopLevel: buffer}
	artifacts := []backend.Artifact{single(memcores)}
	design.Modules = append(design.Modules, memcores)
	if cfg.Hybrid() {
		laneswitches := gen.Laneswitches(names.Laneswitches, cfg)
		design.Modules = append(design.Modules, laneswitches)
		artifacts = append(artifacts, single(laneswitches))
	}
	design.Modules = append(design.Modules, buffer, relayTop, relayReg, relayBuffer)
	artifacts = append(artifacts,
		single(buffer),
		// The relay top and its register stage are emitted into one file.
		backend.Artifact{Name: names.RelayMemcores, Modules: []*ir.Module{relayTop, relayReg}, Keep: true},
		single(relayBuffer),
	)

	pm := passes.NewManager()
	pm.Add(passes.NewNetCheck(reporter, gen.Primitives...))
	if err := pm.Run(design); err != nil {
		return nil, fmt.Errorf("buffergen: buffer %s: %w", name, err)
	}

	return &Bundle{
		Name:      name,
		Config:    cfg.Clone(),
		Geometry:  cfg.Geometry(),
		Names:     names,
		Design:    design,
		Artifacts: artifacts,
	}, nil
}

func single(m *ir.Module) backend.Artifact {
	return backend.Artifact{Name: m.Name, Modules: []*ir.Module{m}}
}

// Request names one buffer to generate.
type Request struct {
	Name   string
	Config config.BufferConfig
}

// Result lists the files written for one buffer.
type Result struct {
	Name     string
	Geometry config.Geometry
	Files    []string
}

// Generator writes buffers through the sink of its context.
type Generator struct {
	ctx Context
}

// New returns a generator for ctx.
func New(ctx Context) *Generator {
	if ctx.Logger == nil {
		ctx.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{ctx: ctx}
}

// Generate builds the buffer called name and writes its files.
func (g *Generator) Generate(name string, cfg config.BufferConfig) (Result, error) {
	if g.ctx.Sink == nil {
		return Result{}, fmt.Errorf("buffergen: no sink configured")
	}
	b, err := Build(name, cfg, g.ctx.Latency, g.ctx.Reporter)
	if err != nil {
		return Result{}, err
	}
	log := g.ctx.Logger.With("buffer", name)
	for _, m := range b.Design.Modules {
		log.Debug("generated module", "module", m.Name, "banks", b.Geometry.BankCount, "ports", len(m.Ports))
	}

	key := b.Config.Key()
	files, err := backend.EmitVerilog(b.Artifacts, g.ctx.Sink, backend.Options{
		Format: g.ctx.Format,
		OnWrite: func(a backend.Artifact, file string, data []byte) error {
			log.Info("wrote artifact", "file", file, "bytes", len(data))
			if g.ctx.Recorder == nil {
				return nil
			}
			if err := g.ctx.Recorder.Record(name, key, a.Name, g.pathOf(file), data); err != nil {
				return fmt.Errorf("record %s: %w", file, err)
			}
			return nil
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("buffergen: buffer %s: %w", name, err)
	}
	return Result{Name: name, Geometry: b.Geometry, Files: files}, nil
}

func (g *Generator) pathOf(file string) string {
	if s, ok := g.ctx.Sink.(interface{ Path(string) string }); ok {
		return s.Path(file)
	}
	return file
}

// GenerateAll generates independent buffers in parallel. Every buffer is
// attempted even when another fails; the results of failed buffers are
// zero and the first error is returned. Cancelling ctx skips buffers that
// have not started.
func (g *Generator) GenerateAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	var eg errgroup.Group
	workers := g.ctx.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(workers)
	for i, req := range reqs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.Generate(req.Name, req.Config)
			if err != nil {
				g.ctx.Logger.Error("buffer generation failed", "buffer", req.Name, "error", err)
				return err
			}
			results[i] = res
			return nil
		})
	}
	return results, eg.Wait()
}
