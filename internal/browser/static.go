package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"examsolver/internal/constants"
	"examsolver/internal/fetch"
	"examsolver/internal/utils"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnsupportedScript is returned by Static for scripts it cannot emulate.
var ErrUnsupportedScript = errors.New("script not supported without a browser")

// Static serves a saved or fetched copy of the exam page without running a
// browser. Only the answer-checking script is emulated: it sets the checked
// attribute in the in-memory document.
type Static struct {
	client  *http.Client
	doc     *goquery.Document
	checked []string
}

func NewStatic(client *http.Client) *Static {
	if client == nil {
		client = fetch.NewHTTPClient()
	}
	return &Static{client: client}
}

func openStatic(_ context.Context, _ Options) (Browser, error) {
	return NewStatic(nil), nil
}

func (s *Static) Navigate(ctx context.Context, url string) error {
	doc, err := fetch.ParseHTML(ctx, url, s.client)
	if err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}
	s.doc = doc
	s.checked = nil
	return nil
}

func (s *Static) FindElements(_ context.Context, selector string) ([]Element, error) {
	if s.doc == nil {
		return nil, ErrNoPage
	}

	var elements []Element
	s.doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		elements = append(elements, staticElement{sel: sel})
	})
	return elements, nil
}

func (s *Static) FindElementByID(_ context.Context, id string) (Element, error) {
	sel, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	return staticElement{sel: sel}, nil
}

func (s *Static) ExecuteScript(_ context.Context, script string, arg any) error {
	if s.doc == nil {
		return ErrNoPage
	}
	if script != constants.CheckAnswerScript {
		return ErrUnsupportedScript
	}

	id, ok := arg.(string)
	if !ok {
		return fmt.Errorf("check script expects an element id, got %T", arg)
	}
	sel, err := s.byID(id)
	if err != nil {
		return err
	}
	sel.SetAttr("checked", "checked")
	s.checked = append(s.checked, id)
	return nil
}

// WaitFor never waits: a static document does not change.
func (s *Static) WaitFor(_ context.Context, selector string, _ time.Duration) (Element, bool, error) {
	if s.doc == nil {
		return nil, false, ErrNoPage
	}
	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false, nil
	}
	return staticElement{sel: sel}, true, nil
}

func (s *Static) Close() error {
	s.doc = nil
	return nil
}

// Checked lists the element ids the check script was run for, in order.
func (s *Static) Checked() []string {
	return append([]string(nil), s.checked...)
}

// Document exposes the current page, including attributes set by scripts.
func (s *Static) Document() *goquery.Document {
	return s.doc
}

func (s *Static) byID(id string) (*goquery.Selection, error) {
	if s.doc == nil {
		return nil, ErrNoPage
	}
	sel := s.doc.Find("#" + id).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return sel, nil
}

type staticElement struct {
	sel *goquery.Selection
}

func (e staticElement) Text() (string, error) {
	return utils.VisibleText(e.sel.Text()), nil
}

func (e staticElement) Attribute(name string) (string, bool, error) {
	value, ok := e.sel.Attr(name)
	return value, ok, nil
}

func (e staticElement) Click() error {
	e.sel.SetAttr("data-clicked", "true")
	return nil
}
