package mcp

import (
	"slices"
	"sync"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
)

// Presenter holds what is currently on screen. suggest_show replaces it,
// suggest_hide clears it and suggest_current reads it.
type Presenter struct {
	mu      sync.Mutex
	visible bool
	query   string
	items   []command.Record
}

// Show records a suggestion result. Invisible results clear the display.
func (p *Presenter) Show(out *ops.SuggestOutput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !out.Visible {
		p.visible, p.query, p.items = false, "", nil
		return
	}
	p.visible, p.query, p.items = true, out.Query, slices.Clone(out.Items)
}

// Hide clears the display.
func (p *Presenter) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible, p.query, p.items = false, "", nil
}

// Current returns a copy of what is displayed.
func (p *Presenter) Current() ops.SuggestOutput {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := slices.Clone(p.items)
	if items == nil {
		items = []command.Record{}
	}
	return ops.SuggestOutput{Visible: p.visible, Query: p.query, Items: items}
}
