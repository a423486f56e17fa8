// Package backend turns generated modules into output files. It renders
// artifacts through a Sink, copies primitive library sources and runs an
// optional external linter over what was written.
package backend

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"bufgen/internal/ir"
	"bufgen/internal/verilog"
)

// Artifact is one output file holding one or more modules.
type Artifact struct {
	// Name is the file name without extension.
	Name    string
	Modules []*ir.Module
	// Keep applies the preserve-attribute post-pass after rendering.
	Keep bool
}

// FileName is the name the artifact is written under.
func (a Artifact) FileName() string {
	return a.Name + ".v"
}

const (
	nettypeNone = "`default_nettype none\n"
	nettypeWire = "`default_nettype wire\n"
)

// Render returns the file contents of the artifact: the rendered modules
// between directives disabling and restoring implicit nets.
func Render(a Artifact) []byte {
	body := verilog.Render(a.Modules...)
	if a.Keep {
		body = AddKeepAttributes(body)
	}
	var b strings.Builder
	b.Grow(len(nettypeNone) + len(body) + len(nettypeWire))
	b.WriteString(nettypeNone)
	b.WriteString(body)
	b.WriteString(nettypeWire)
	return []byte(b.String())
}

// Format selects what is written for each artifact.
type Format int

const (
	// Verilog renders hardware source files.
	Verilog Format = iota
	// IRDump writes the human-readable IR of every module.
	IRDump
)

// Options configures artifact emission.
type Options struct {
	Format Format
	// OnWrite is called after each artifact has been written.
	OnWrite func(a Artifact, file string, data []byte) error
}

// EmitVerilog renders every artifact in the requested format and writes it
// to sink. It returns the written file names in artifact order.
func EmitVerilog(artifacts []Artifact, sink Sink, opts Options) ([]string, error) {
	if sink == nil {
		return nil, fmt.Errorf("backend: sink is nil")
	}
	files := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if len(a.Modules) == 0 {
			return nil, fmt.Errorf("backend: artifact %s has no modules", a.Name)
		}
		file, data := renderAs(a, opts.Format)
		if err := sink.Write(file, data); err != nil {
			return nil, fmt.Errorf("backend: write %s: %w", file, err)
		}
		if opts.OnWrite != nil {
			if err := opts.OnWrite(a, file, data); err != nil {
				return nil, err
			}
		}
		files = append(files, file)
	}
	return files, nil
}

func renderAs(a Artifact, format Format) (string, []byte) {
	if format == IRDump {
		var buf bytes.Buffer
		ir.Dump(&ir.Design{Modules: a.Modules, TopLevel: a.Modules[0]}, &buf)
		return a.Name + ".ir", buf.Bytes()
	}
	return a.FileName(), Render(a)
}

// CopyPrimitives copies library sources into sink under their base names.
// A base name is copied once even when listed several times.
func CopyPrimitives(sink Sink, sources []string) ([]string, error) {
	var written []string
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		name := filepath.Base(src)
		if seen[name] {
			continue
		}
		seen[name] = true
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("backend: read primitive source: %w", err)
		}
		if err := sink.Write(name, data); err != nil {
			return nil, fmt.Errorf("backend: write primitive source %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

// LintOptions names an external linter run over written files.
type LintOptions struct {
	// Path is the linter binary, looked up on PATH when it has no separator.
	Path string
	// Args are passed to the linter before the file list.
	Args []string
}

// Lint runs the linter named by opts over files previously written to sink.
// It does nothing when no linter is configured.
func Lint(sink Sink, opts LintOptions, files []string) error {
	if opts.Path == "" {
		return nil
	}
	disk, ok := sink.(interface{ Path(string) string })
	if !ok {
		return fmt.Errorf("backend: lint requires a directory sink")
	}
	linter, err := resolveBinary(opts.Path)
	if err != nil {
		return fmt.Errorf("backend: resolve linter: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, name := range files {
		paths = append(paths, disk.Path(name))
	}
	return runLint(linter, opts.Args, paths)
}

func runLint(binary string, args, files []string) error {
	cmd := exec.Command(binary, append(append([]string(nil), args...), files...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("backend: lint failed: %w", err)
	}
	return nil
}

func resolveBinary(explicit string) (string, error) {
	if strings.ContainsRune(explicit, filepath.Separator) {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}
	return exec.LookPath(explicit)
}
