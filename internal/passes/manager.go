// Package passes runs verification passes over a generated design before it
// is rendered.
package passes

import (
	"fmt"

	"bufgen/internal/ir"
)

// Pass is one analysis over a design.
type Pass interface {
	Name() string
	Run(design *ir.Design) error
}

// Manager runs passes in registration order and stops at the first failure.
type Manager struct {
	passes []Pass
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends a pass.
func (m *Manager) Add(p Pass) {
	m.passes = append(m.passes, p)
}

// Run executes every pass.
func (m *Manager) Run(design *ir.Design) error {
	for _, p := range m.passes {
		if err := p.Run(design); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}
