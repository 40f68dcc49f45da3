package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sasha-s/go-deadlock"

	"nostrcard/engine/library"
	"nostrcard/state/disclosure"
	"nostrcard/state/views"
)

const collapsedWidth = 60

type card struct {
	title    string
	kind     library.Kind
	key      views.Key
	rows     disclosure.State
	sub      *views.Subscription
	current  views.View
	received bool
}

type dashboard struct {
	store  *views.Store
	out    io.Writer
	mu     deadlock.Mutex
	cards  []*card
	active int
	redraw chan struct{}
}

func newDashboard(store *views.Store) *dashboard {
	return &dashboard{
		store:  store,
		out:    os.Stdout,
		redraw: make(chan struct{}, 1),
	}
}

func (d *dashboard) add(c *card) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c.sub = d.store.Subscribe(c.key)
	d.cards = append(d.cards, c)
	go func() {
		for v := range c.sub.Updates() {
			d.mu.Lock()
			c.current = v
			c.received = true
			d.mu.Unlock()
			d.requestRedraw()
		}
	}()
}

func (d *dashboard) requestRedraw() {
	select {
	case d.redraw <- struct{}{}:
	default:
	}
}

func (d *dashboard) run(terminate chan struct{}) {
	d.requestRedraw()
	for {
		select {
		case <-d.redraw:
			d.mu.Lock()
			fmt.Fprint(d.out, "\033[H\033[2J")
			for i, c := range d.cards {
				fmt.Fprint(d.out, c.render(i == d.active))
			}
			fmt.Fprintln(d.out, "tab: next card  1-9: expand row  d: dump views  q: quit")
			d.mu.Unlock()
		case <-terminate:
			d.mu.Lock()
			for _, c := range d.cards {
				c.sub.Close()
			}
			d.mu.Unlock()
			return
		}
	}
}

func (d *dashboard) nextCard() {
	d.mu.Lock()
	if len(d.cards) > 0 {
		d.active = (d.active + 1) % len(d.cards)
	}
	d.mu.Unlock()
	d.requestRedraw()
}

// toggleRow opens or closes row n (1 based) of the active card.
func (d *dashboard) toggleRow(n int) {
	d.mu.Lock()
	if d.active < len(d.cards) {
		c := d.cards[d.active]
		fields := c.current.Fields()
		if n >= 1 && n <= len(fields) {
			c.rows.Toggle(fields[n-1].Name)
		}
	}
	d.mu.Unlock()
	d.requestRedraw()
}

func (d *dashboard) dump() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	for _, c := range d.cards {
		b.WriteString(spew.Sdump(c.current))
	}
	return b.String()
}

func (c *card) render(active bool) string {
	var b strings.Builder
	marker := " "
	if active {
		marker = ">"
	}
	fmt.Fprintf(&b, "%s %s\n", marker, c.title)
	if !c.received {
		b.WriteString("    waiting for relays...\n\n")
		return b.String()
	}
	for i, f := range c.current.Fields() {
		open := c.rows.IsOpen(f.Name)
		fmt.Fprintf(&b, "  %d %-16s %s\n", i+1, f.Name, renderValue(f, open))
	}
	fmt.Fprintf(&b, "    from %s\n\n", c.current.Relay)
	return b.String()
}

func renderValue(f library.Field, open bool) string {
	v := f.Value
	var text string
	switch v.Type {
	case library.Image:
		text = "[image] " + v.Text
	case library.List:
		if open {
			return "\n" + indent(strings.Join(v.Items, "\n"))
		}
		text = strings.Join(v.Items, ", ")
	default:
		text = v.Text
	}
	if !open {
		return truncate(strings.ReplaceAll(text, "\n", " "))
	}
	switch f.Name {
	case "lud16":
		if lud06, ok := library.Lud16ToLud06(v.Text); ok {
			text += "\n" + indent("lnurl: "+lud06)
		}
	case "lud06":
		if url, ok := library.DecodeLud06(v.Text); ok {
			text += "\n" + indent("url: "+url)
		}
	}
	return text
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= collapsedWidth {
		return s
	}
	return string(r[:collapsedWidth-1]) + "…"
}

func indent(s string) string {
	return "                     " + strings.ReplaceAll(s, "\n", "\n                     ")
}
