package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
)

// fragment is one piece of the overview that re-derives its text from the
// panel state whenever the broadcaster fires. It only listens while mounted.
type fragment struct {
	name  string
	style lipgloss.Style
	// head, when set, styles the first line separately.
	head   *lipgloss.Style
	render func() string
	// decorative fragments (skill bars) are left out of the plain-text copy.
	decorative bool

	text  string
	unsub broadcast.Unsubscribe
	// fault receives a panic recovered from the mount-time render.
	fault func(err error)
}

func logFault(err error) { log.Printf("tui: %v", err) }

func newFragment(name string, style lipgloss.Style, render func() string) *fragment {
	return &fragment{name: name, style: style, render: render, fault: logFault}
}

func newBlockFragment(name string, head lipgloss.Style, render func() string) *fragment {
	return &fragment{name: name, style: blockTextStyle, head: &head, render: render, fault: logFault}
}

// mount renders once and subscribes. A render that panics here leaves the
// fragment blank until the next emit, the same as a panic inside Emit.
func (f *fragment) mount(bus *broadcast.Broadcaster) {
	if f.unsub != nil {
		return
	}
	f.guardedRefresh()
	f.unsub = bus.Subscribe(f.refresh)
}

func (f *fragment) guardedRefresh() {
	defer func() {
		if r := recover(); r != nil {
			f.text = ""
			f.fault(fmt.Errorf("fragment %s panicked: %v", f.name, r))
		}
	}()
	f.refresh()
}

func (f *fragment) unmount() {
	if f.unsub == nil {
		return
	}
	f.unsub()
	f.unsub = nil
	f.text = ""
}

func (f *fragment) mounted() bool { return f.unsub != nil }

func (f *fragment) refresh() { f.text = f.render() }

func (f *fragment) view() string {
	if f.text == "" {
		return ""
	}
	if f.decorative {
		return f.text
	}
	if f.head != nil {
		head, rest, _ := strings.Cut(f.text, "\n")
		out := f.head.Render(head)
		if rest != "" {
			out += "\n" + f.style.Render(rest)
		}
		return out
	}
	return f.style.Render(f.text)
}

// slot pairs a fragment with the condition under which it is mounted.
type slot struct {
	frag *fragment
	when func() bool
}

func (s slot) wanted() bool {
	return s.when == nil || s.when()
}
