package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy kinds, covering the page shapes the pipeline knows how to
// read a price out of.
const (
	// KindCSS reads the first node matching Selector, optionally
	// filtered to nodes whose text contains Contains.
	KindCSS = "css"
	// KindAfterMarker finds the node matching Selector whose text
	// contains Marker, then returns the first following Selector node
	// whose text contains Contains. Mirrors "the span after the
	// 'other buying options' label" style layouts.
	KindAfterMarker = "after_marker"
	// KindScoped narrows to the container matching ContainerSelector
	// whose text contains ContainerContains, then reads Selector
	// inside it.
	KindScoped = "scoped"
)

// Strategy is one ordered attempt at locating a price inside a scope.
// Strategies are configuration, not code: profiles list them per page
// shape (item card, detail page, offer listing).
type Strategy struct {
	Name              string `yaml:"name"`
	Kind              string `yaml:"kind"`
	Selector          string `yaml:"selector"`
	Attr              string `yaml:"attr,omitempty"`
	Contains          string `yaml:"contains,omitempty"`
	Marker            string `yaml:"marker,omitempty"`
	ContainerSelector string `yaml:"container_selector,omitempty"`
	ContainerContains string `yaml:"container_contains,omitempty"`
}

func (s Strategy) validate() error {
	switch s.Kind {
	case KindCSS:
		if s.Selector == "" {
			return fmt.Errorf("strategy %q: css kind requires selector", s.Name)
		}
	case KindAfterMarker:
		if s.Selector == "" || s.Marker == "" {
			return fmt.Errorf("strategy %q: after_marker kind requires selector and marker", s.Name)
		}
	case KindScoped:
		if s.Selector == "" || s.ContainerSelector == "" {
			return fmt.Errorf("strategy %q: scoped kind requires selector and container_selector", s.Name)
		}
	default:
		return fmt.Errorf("strategy %q: unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// Extract attempts to read the text node this strategy targets. A
// miss is a normal outcome reported as ok=false.
func (s Strategy) Extract(scope *goquery.Selection) (string, bool) {
	switch s.Kind {
	case KindCSS:
		return s.extractCSS(scope)
	case KindAfterMarker:
		return s.extractAfterMarker(scope)
	case KindScoped:
		return s.extractScoped(scope)
	}
	return "", false
}

func (s Strategy) extractCSS(scope *goquery.Selection) (string, bool) {
	nodes := scope.Find(s.Selector)
	if s.Contains != "" {
		nodes = nodes.FilterFunction(func(_ int, node *goquery.Selection) bool {
			return strings.Contains(node.Text(), s.Contains)
		})
	}
	return s.read(nodes.First())
}

func (s Strategy) extractAfterMarker(scope *goquery.Selection) (string, bool) {
	var out string
	found := false
	seenMarker := false
	scope.Find(s.Selector).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		text := node.Text()
		if !seenMarker {
			if strings.Contains(text, s.Marker) {
				seenMarker = true
			}
			return true
		}
		if s.Contains != "" && !strings.Contains(text, s.Contains) {
			return true
		}
		out, found = s.read(node)
		return !found
	})
	return out, found
}

func (s Strategy) extractScoped(scope *goquery.Selection) (string, bool) {
	containers := scope.Find(s.ContainerSelector)
	if s.ContainerContains != "" {
		containers = containers.FilterFunction(func(_ int, node *goquery.Selection) bool {
			return strings.Contains(node.Text(), s.ContainerContains)
		})
	}
	return s.read(containers.First().Find(s.Selector).First())
}

func (s Strategy) read(node *goquery.Selection) (string, bool) {
	if node.Length() == 0 {
		return "", false
	}
	if s.Attr != "" {
		value, ok := node.Attr(s.Attr)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}
	text := strings.TrimSpace(node.Text())
	return text, text != ""
}
