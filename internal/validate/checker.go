// Package validate checks loaded buffer configurations before any module is
// generated.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"bufgen/internal/config"
	"bufgen/internal/diag"
	"bufgen/internal/frontend"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CheckBuffers validates the shape of every configuration and the buffer
// names, which become part of module names. Errors and warnings go to
// reporter; the returned error is non-nil when any error was found.
func CheckBuffers(bufs []frontend.Buffer, reporter *diag.Reporter) error {
	if reporter == nil {
		return fmt.Errorf("no reporter provided for validation")
	}
	c := &checker{reporter: reporter, seen: make(map[string]string, len(bufs))}
	for _, b := range bufs {
		c.checkBuffer(b)
	}
	if c.errCount > 0 {
		return fmt.Errorf("validation failed with %d issue(s)", c.errCount)
	}
	return nil
}

type checker struct {
	reporter *diag.Reporter
	errCount int
	seen     map[string]string
}

func (c *checker) errorf(loc, format string, args ...any) {
	c.errCount++
	c.reporter.Errorf(loc, format, args...)
}

func (c *checker) checkBuffer(b frontend.Buffer) {
	loc := b.Location()
	if !identifier.MatchString(b.Name) {
		c.errorf(loc, "buffer name %q is not a valid identifier", b.Name)
	}
	if prev, ok := c.seen[b.Name]; ok {
		c.errorf(loc, "buffer %q already declared in %s", b.Name, prev)
	} else {
		c.seen[b.Name] = b.Source
	}

	if err := b.Config.Validate(); err != nil {
		for _, msg := range strings.Split(err.Error(), "\n") {
			c.errorf(loc, "%s", msg)
		}
		return
	}
	c.checkMemcore(loc, b.MemcoreType)
	c.checkFactors(loc, b.Config)
}

func (c *checker) checkMemcore(loc, typ string) {
	if typ == "" || strings.EqualFold(typ, "URAM") || strings.EqualFold(typ, "BRAM") {
		return
	}
	c.reporter.Warnf(loc, "unknown memcore_type %q, using BRAM", typ)
}

// checkFactors warns about partitions whose banks end up padded or empty.
func (c *checker) checkFactors(loc string, cfg config.BufferConfig) {
	for i, p := range cfg.Partitions {
		if p.Kind != config.Factor {
			continue
		}
		extent := cfg.Dims[i]
		switch {
		case p.Factor > extent:
			c.reporter.Warnf(loc, "dimension %d: factor %d exceeds extent %d", i, p.Factor, extent)
		case extent%p.Factor != 0:
			c.reporter.Warnf(loc, "dimension %d: extent %d is not a multiple of factor %d, banks are padded", i, extent, p.Factor)
		}
	}
}
