package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

func openRod(ctx context.Context, opts Options) (Browser, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-dev-shm-usage")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch chromium: %v", ErrDriverUnavailable, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("%w: connect to chromium: %v", ErrDriverUnavailable, err)
	}

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("%w: create page: %v", ErrDriverUnavailable, err)
	}

	return &rodBrowser{launcher: l, browser: b, page: page, timeout: opts.Timeout}, nil
}

func (r *rodBrowser) Navigate(ctx context.Context, url string) error {
	page := r.page.Context(ctx).Timeout(r.timeout)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s to load: %w", url, err)
	}
	return nil
}

func (r *rodBrowser) FindElements(ctx context.Context, selector string) ([]Element, error) {
	found, err := r.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}

	elements := make([]Element, len(found))
	for i, el := range found {
		elements[i] = rodElement{el: el}
	}
	return elements, nil
}

func (r *rodBrowser) FindElementByID(ctx context.Context, id string) (Element, error) {
	has, el, err := r.page.Context(ctx).Has("#" + id)
	if err != nil {
		return nil, fmt.Errorf("find #%s: %w", id, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return rodElement{el: el}, nil
}

func (r *rodBrowser) ExecuteScript(ctx context.Context, script string, arg any) error {
	if _, err := r.page.Context(ctx).Eval(script, arg); err != nil {
		return fmt.Errorf("execute script: %w", err)
	}
	return nil
}

func (r *rodBrowser) WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, bool, error) {
	timed := r.page.Context(ctx).Timeout(timeout)
	defer timed.CancelTimeout()

	el, err := timed.Element(selector)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("wait for %s: %w", selector, err)
	}
	return rodElement{el: el.Context(ctx)}, true, nil
}

func (r *rodBrowser) Close() error {
	err := r.browser.Close()
	r.launcher.Cleanup()
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e rodElement) Attribute(name string) (string, bool, error) {
	value, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (e rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
