// Package dom is an in-memory host document. It backs headless hosts and the
// tests of everything that drives checkout buttons and duration selectors.
//
// Structure and attributes live on golang.org/x/net/html nodes so CSS
// selectors resolve with cascadia. The state the SDK mutates (text, loading,
// disabled and click listeners) sits on the Element beside its node.
package dom

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sline-io/sline-go/internal/checkout/ports"
)

type listener struct {
	key string
	fn  ports.ClickListener
}

// Element is a node of the in-memory document.
type Element struct {
	node *html.Node

	mu        sync.Mutex
	text      string
	loading   bool
	disabled  bool
	listeners []listener

	parent   *Element
	children []*Element
}

// NewElement creates a detached element; attach it with AppendChild.
func NewElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return &Element{node: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

func (e *Element) WithID(id string) *Element {
	e.setAttr("id", id)
	return e
}

func (e *Element) WithClass(classes ...string) *Element {
	all := append(e.classes(), classes...)
	e.setAttr("class", strings.Join(all, " "))
	return e
}

func (e *Element) WithAttr(name, value string) *Element {
	e.setAttr(strings.ToLower(name), value)
	return e
}

func (e *Element) WithText(text string) *Element {
	e.text = text
	return e
}

// AppendChild attaches child under e and returns child.
func (e *Element) AppendChild(child *Element) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()

	child.parent = e
	e.children = append(e.children, child)
	e.node.AppendChild(child.node)
	return child
}

func (e *Element) ID() string {
	id, _ := e.Attribute("id")
	return id
}

func (e *Element) Tag() string {
	return e.node.Data
}

func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes(), class)
}

func (e *Element) Attribute(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range e.node.Attr {
		if a.Key != name {
			continue
		}
		if name == "id" {
			return a.Val, a.Val != ""
		}
		return a.Val, true
	}
	return "", false
}

func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	e.loading = false
}

func (e *Element) ShowLoading() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = ""
	e.loading = true
}

// Loading reports whether the loading indicator replaced the content.
func (e *Element) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

func (e *Element) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = true
}

func (e *Element) Enable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = false
}

func (e *Element) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

func (e *Element) OnClick(key string, fn ports.ClickListener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.key == key {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			break
		}
	}
	e.listeners = append(e.listeners, listener{key: key, fn: fn})
}

// ListenerCount returns the number of click listeners attached to e.
func (e *Element) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Click dispatches a click on e, bubbling through its ancestors until a
// listener stops propagation.
func (e *Element) Click(ctx context.Context) *ports.ClickEvent {
	ev := &ports.ClickEvent{Target: e}
	for node := e; node != nil; node = node.parentNode() {
		for _, l := range node.snapshotListeners() {
			l.fn(ctx, ev)
		}
		if ev.PropagationStopped() {
			break
		}
	}
	return ev
}

func (e *Element) setAttr(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: value})
}

func (e *Element) classes() []string {
	class, _ := e.Attribute("class")
	return strings.Fields(class)
}

func (e *Element) parentNode() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parent
}

func (e *Element) childNodes() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) snapshotListeners() []listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]listener, len(e.listeners))
	copy(out, e.listeners)
	return out
}
