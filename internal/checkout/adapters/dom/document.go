package dom

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sline-io/sline-go/internal/checkout/ports"
)

// Document is an in-memory page rooted at a body element.
type Document struct {
	body *Element

	mu          sync.Mutex
	handlers    map[string][]func()
	dispatched  []string
	navigations []string
}

func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	page := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	root.AppendChild(page)

	body := NewElement("body")
	page.AppendChild(body.node)

	return &Document{
		body:     body,
		handlers: make(map[string][]func()),
	}
}

func (d *Document) Body() *Element {
	return d.body
}

// ElementByID returns the first element in document order with the given id.
func (d *Document) ElementByID(id string) (ports.Element, bool) {
	if el := d.Find(id); el != nil {
		return el, true
	}
	return nil, false
}

// Find is ElementByID returning the concrete element, or nil.
func (d *Document) Find(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	walk(d.body, func(el *Element) bool {
		if el.ID() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns the elements matching a CSS selector group, in
// document order. Selectors that do not parse are reported as errors.
func (d *Document) QuerySelectorAll(selector string) ([]ports.Element, error) {
	matches, err := d.Query(selector)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Element, 0, len(matches))
	for _, el := range matches {
		out = append(out, el)
	}
	return out, nil
}

// Query is QuerySelectorAll returning concrete elements.
func (d *Document) Query(selector string) ([]*Element, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, errors.New("empty selector")
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var out []*Element
	walk(d.body, func(el *Element) bool {
		if group.Match(el.node) {
			out = append(out, el)
		}
		return true
	})
	return out, nil
}

// MustQuery is Query for selectors known to be valid. It panics otherwise.
func (d *Document) MustQuery(selector string) []*Element {
	out, err := d.Query(selector)
	if err != nil {
		panic(err)
	}
	return out
}

// AddEventListener registers a host-page listener for a custom event.
func (d *Document) AddEventListener(event string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], fn)
}

func (d *Document) Dispatch(event string) {
	d.mu.Lock()
	d.dispatched = append(d.dispatched, event)
	handlers := append([]func(){}, d.handlers[event]...)
	d.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Dispatched returns every custom event fired so far.
func (d *Document) Dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dispatched...)
}

func (d *Document) Navigate(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigations = append(d.navigations, url)
}

// Location returns the last URL navigated to.
func (d *Document) Location() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.navigations) == 0 {
		return ""
	}
	return d.navigations[len(d.navigations)-1]
}

func (d *Document) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// walk visits el and its descendants depth-first until visit returns false.
func walk(el *Element, visit func(*Element) bool) bool {
	if !visit(el) {
		return false
	}
	for _, child := range el.childNodes() {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}
