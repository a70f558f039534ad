// Package browser hides the browser automation backend behind the small set
// of page operations the exam runner needs.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"examsolver/internal/constants"
)

var (
	// ErrDriverUnavailable means the selected backend could not be started on this machine.
	ErrDriverUnavailable = errors.New("browser driver not available")
	ErrElementNotFound   = errors.New("element not found")
	ErrNoPage            = errors.New("no page loaded")
)

type Element interface {
	Text() (string, error)
	Attribute(name string) (string, bool, error)
	Click() error
}

type Browser interface {
	Navigate(ctx context.Context, url string) error
	FindElements(ctx context.Context, selector string) ([]Element, error)
	FindElementByID(ctx context.Context, id string) (Element, error)
	// ExecuteScript evaluates a JavaScript function expression with arg as its only parameter.
	ExecuteScript(ctx context.Context, script string, arg any) error
	// WaitFor waits up to timeout for selector. A timeout is reported as
	// found == false with a nil error.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (el Element, found bool, err error)
	Close() error
}

type Kind string

const (
	KindChrome  Kind = "chrome"
	KindEdge    Kind = "edge"
	KindFirefox Kind = "firefox"
	KindSafari  Kind = "safari"
	KindRod     Kind = "rod"
	KindStatic  Kind = "static"
)

type Options struct {
	Headless bool
	Timeout  time.Duration
}

type factory func(ctx context.Context, opts Options) (Browser, error)

type backend struct {
	kind  Kind
	label string
	open  factory
}

// Listed in menu order.
var backends = []backend{
	{KindChrome, "Google Chrome", openPlaywright("chromium", "chrome")},
	{KindEdge, "Microsoft Edge", openPlaywright("chromium", "msedge")},
	{KindFirefox, "Mozilla Firefox", openPlaywright("firefox", "")},
	{KindSafari, "Safari (WebKit)", openPlaywright("webkit", "")},
	{KindRod, "Chromium (rod)", openRod},
	{KindStatic, "Saved page (no browser)", openStatic},
}

// Kinds returns the selectable backends in menu order.
func Kinds() []Kind {
	kinds := make([]Kind, len(backends))
	for i, b := range backends {
		kinds[i] = b.kind
	}
	return kinds
}

func ParseKind(raw string) (Kind, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	for _, b := range backends {
		if string(b.kind) == raw {
			return b.kind, nil
		}
	}
	return "", fmt.Errorf("unknown browser %q (available: %s)", raw, joinKinds())
}

func (k Kind) Label() string {
	for _, b := range backends {
		if b.kind == k {
			return b.label
		}
	}
	return string(k)
}

// Open starts the backend for kind. Failures to start it wrap ErrDriverUnavailable.
func Open(ctx context.Context, kind Kind, opts Options) (Browser, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.NavigationTimeout
	}
	for _, b := range backends {
		if b.kind == kind {
			debugf("opening %s backend (headless=%t)", kind, opts.Headless)
			return b.open(ctx, opts)
		}
	}
	return nil, fmt.Errorf("%w: unknown browser %q", ErrDriverUnavailable, kind)
}

func joinKinds() string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = string(b.kind)
	}
	return strings.Join(names, ", ")
}
