package ports

import "context"

// PricesReadyEvent is dispatched on the document after a successful pricing fetch.
const PricesReadyEvent = "SlinePricesReady"

// ClickEvent is delivered to click listeners. Target is the element that was
// clicked, which may be a descendant of the element the listener is attached to.
type ClickEvent struct {
	Target Element

	defaultPrevented bool
	stopped          bool
}

func (e *ClickEvent) PreventDefault() {
	e.defaultPrevented = true
}

func (e *ClickEvent) StopPropagation() {
	e.stopped = true
}

func (e *ClickEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

func (e *ClickEvent) PropagationStopped() bool {
	return e.stopped
}

// ClickListener handles a click.
type ClickListener func(ctx context.Context, ev *ClickEvent)

// Element is the subset of a DOM node the SDK drives.
type Element interface {
	ID() string
	Attribute(name string) (string, bool)
	Text() string
	SetText(text string)
	// ShowLoading replaces the element content with a loading indicator.
	ShowLoading()
	Disable()
	Enable()
	Disabled() bool
	// OnClick registers fn under key, replacing any listener already
	// registered with the same key.
	OnClick(key string, fn ClickListener)
}

// Document is the host page.
type Document interface {
	ElementByID(id string) (Element, bool)
	// QuerySelectorAll resolves a CSS selector group in document order.
	QuerySelectorAll(selector string) ([]Element, error)
	// Dispatch fires a bubbling custom event for host-page listeners.
	Dispatch(event string)
	Navigate(url string)
}

// EventPublisher notifies host-page observers of SDK state changes.
type EventPublisher interface {
	PublishPricesReady(ctx context.Context) error
}
