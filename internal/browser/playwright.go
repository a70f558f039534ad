package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func openPlaywright(engine, channel string) factory {
	return func(ctx context.Context, opts Options) (Browser, error) {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("%w: start playwright: %v", ErrDriverUnavailable, err)
		}

		var browserType playwright.BrowserType
		switch engine {
		case "firefox":
			browserType = pw.Firefox
		case "webkit":
			browserType = pw.WebKit
		default:
			browserType = pw.Chromium
		}

		launch := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
		}
		if channel != "" {
			launch.Channel = playwright.String(channel)
		}

		b, err := browserType.Launch(launch)
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("%w: launch %s: %v", ErrDriverUnavailable, engine, err)
		}

		page, err := b.NewPage()
		if err != nil {
			_ = b.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("%w: create page: %v", ErrDriverUnavailable, err)
		}
		page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

		return &playwrightBrowser{pw: pw, browser: b, page: page}, nil
	}
}

func (p *playwrightBrowser) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *playwrightBrowser) FindElements(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}

	elements := make([]Element, len(locators))
	for i, loc := range locators {
		elements[i] = playwrightElement{loc: loc}
	}
	return elements, nil
}

func (p *playwrightBrowser) FindElementByID(ctx context.Context, id string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := p.page.Locator("#" + id)
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("find #%s: %w", id, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return playwrightElement{loc: loc.First()}, nil
}

func (p *playwrightBrowser) ExecuteScript(ctx context.Context, script string, arg any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Evaluate(script, arg); err != nil {
		return fmt.Errorf("execute script: %w", err)
	}
	return nil
}

func (p *playwrightBrowser) WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	loc := p.page.Locator(selector).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("wait for %s: %w", selector, err)
	}
	return playwrightElement{loc: loc}, true, nil
}

func (p *playwrightBrowser) Close() error {
	closeErr := p.browser.Close()
	if err := p.pw.Stop(); err != nil && closeErr == nil {
		closeErr = err
	}
	return closeErr
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e playwrightElement) Text() (string, error) {
	return e.loc.InnerText()
}

const getAttributeScript = `(el, name) => el.getAttribute(name)`

// Attribute evaluates getAttribute in the page so a missing attribute (null)
// is told apart from an empty one.
func (e playwrightElement) Attribute(name string) (string, bool, error) {
	value, err := e.loc.Evaluate(getAttributeScript, name)
	if err != nil {
		return "", false, err
	}
	return attributeValue(value)
}

func attributeValue(raw any) (string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	default:
		return "", false, fmt.Errorf("attribute value has type %T", raw)
	}
}

func (e playwrightElement) Click() error {
	return e.loc.Click()
}
