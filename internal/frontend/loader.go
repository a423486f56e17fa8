// Package frontend reads buffer configuration files.
package frontend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"gopkg.in/yaml.v3"

	"bufgen/internal/config"
	"bufgen/internal/diag"
)

// LoadConfig lists the configuration files to read. Files are YAML; JSON
// files are read by the same decoder.
type LoadConfig struct {
	Sources []string
}

// Buffer is one named configuration read from a file.
type Buffer struct {
	Name   string
	Source string
	Config config.BufferConfig
	// MemcoreType is the memcore_type text as written, kept for diagnostics.
	MemcoreType string
	// Generated reports whether Name was made up because the entry had none.
	Generated bool
}

// Location identifies the buffer in diagnostics.
func (b Buffer) Location() string {
	return b.Source + ":" + b.Name
}

type document struct {
	Buffers []bufferEntry `yaml:"buffers"`
}

type bufferEntry struct {
	Name        string           `yaml:"name"`
	Width       int              `yaml:"width"`
	Type        string           `yaml:"type"`
	Dims        []int            `yaml:"dims"`
	NSections   int              `yaml:"n_sections"`
	Partitions  []partitionEntry `yaml:"partitions"`
	MemcoreType string           `yaml:"memcore_type"`
}

type partitionEntry struct {
	Type   string `yaml:"type"`
	Factor int    `yaml:"factor"`
}

// LoadBuffers reads every source in order. Problems are reported through
// reporter; if any were found the returned error is non-nil and no buffers
// are returned.
func LoadBuffers(cfg LoadConfig, reporter *diag.Reporter) ([]Buffer, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no configuration files were provided")
	}

	var (
		out       []Buffer
		hadErrors bool
	)
	for _, src := range cfg.Sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read configuration: %w", err)
		}
		bufs, ok := decode(src, data, reporter)
		if !ok {
			hadErrors = true
		}
		out = append(out, bufs...)
	}

	if hadErrors {
		return nil, fmt.Errorf("configuration loading failed")
	}
	return out, nil
}

func decode(src string, data []byte, reporter *diag.Reporter) ([]Buffer, bool) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			reporter.Warnf(src, "file declares no buffers")
			return nil, true
		}
		reporter.Errorf(src, "%v", err)
		return nil, false
	}
	if len(doc.Buffers) == 0 {
		reporter.Warnf(src, "file declares no buffers")
	}

	ok := true
	bufs := make([]Buffer, 0, len(doc.Buffers))
	for _, e := range doc.Buffers {
		b := Buffer{
			Name:        e.Name,
			Source:      src,
			MemcoreType: e.MemcoreType,
			Config: config.BufferConfig{
				Width:     e.Width,
				Type:      e.Type,
				Dims:      e.Dims,
				NSections: e.NSections,
				Memcore:   config.ParseMemcoreKind(e.MemcoreType),
			},
		}
		if b.Name == "" {
			b.Name = "buf_" + xid.New().String()
			b.Generated = true
		}
		for i, p := range e.Partitions {
			dim, err := config.ParsePartition(p.Type, p.Factor)
			if err != nil {
				reporter.Errorf(b.Location(), "partition %d: %v", i, err)
				ok = false
				continue
			}
			b.Config.Partitions = append(b.Config.Partitions, dim)
		}
		bufs = append(bufs, b)
	}
	return bufs, ok
}
