package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sline-io/sline-go/internal/checkout/adapters/dom"
	"github.com/sline-io/sline-go/internal/checkout/domain"
)

type item struct {
	sku      string
	quantity int
}

// parseItems reads SKU=QTY arguments; a bare SKU means quantity 1.
func parseItems(args []string) ([]item, error) {
	items := make([]item, 0, len(args))
	for _, arg := range args {
		sku, qty, found := strings.Cut(arg, "=")
		sku = strings.TrimSpace(sku)
		if sku == "" {
			return nil, fmt.Errorf("invalid item %q: missing sku", arg)
		}
		quantity := 1
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil {
				return nil, fmt.Errorf("invalid quantity in %q: %w", arg, err)
			}
			quantity = n
		}
		items = append(items, item{sku: sku, quantity: quantity})
	}
	return items, nil
}

var combinators = strings.NewReplacer(">", " ", "+", " ", "~", " ")

// buildPage creates a document the settings resolve against: the id button,
// or one class-path button per item, plus the duration selector.
func buildPage(settings domain.Settings, items []item) *dom.Document {
	doc := dom.NewDocument()
	body := doc.Body()
	button := settings.Button()

	if button.ByID() {
		body.AppendChild(dom.NewElement("button").WithID(button.ID).WithText("Buy"))
	} else {
		path := strings.Fields(combinators.Replace(strings.Split(button.ClassPath, ",")[0]))
		if len(path) == 0 {
			path = []string{"button"}
		}
		parent := body
		for _, token := range path[:len(path)-1] {
			parent = parent.AppendChild(elementFor(token, "div"))
		}
		for _, it := range items {
			parent.AppendChild(elementFor(path[len(path)-1], "button").
				WithAttr("data-sku", it.sku).
				WithText("Buy " + it.sku))
		}
	}

	if id := settings.DurationSelectorID(); id != "" {
		body.AppendChild(dom.NewElement("fieldset").WithID(id))
	}
	return doc
}

// elementFor builds an element matching the tag, id and class parts of a
// compound selector such as "button.sline-btn" or "#cart". Attribute parts
// are dropped.
func elementFor(token, defaultTag string) *dom.Element {
	token, _, _ = strings.Cut(token, "[")
	tag := defaultTag
	if i := strings.IndexAny(token, ".#"); i > 0 {
		tag, token = token[:i], token[i:]
	} else if i < 0 {
		tag, token = token, ""
	}

	el := dom.NewElement(tag)
	for token != "" {
		marker := token[0]
		token = token[1:]
		end := strings.IndexAny(token, ".#")
		if end < 0 {
			end = len(token)
		}
		name := token[:end]
		token = token[end:]
		if marker == '#' {
			el.WithID(name)
		} else {
			el.WithClass(name)
		}
	}
	return el
}
