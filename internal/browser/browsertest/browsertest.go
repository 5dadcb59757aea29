// Package browsertest provides a scriptable in-memory browser for tests.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/clock"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// Page scripts how one URL path behaves. The zero Page loads instantly with
// an empty body and no products.
type Page struct {
	// LoadDelay is how long the body takes to appear. It advances the manual
	// clock; a delay beyond the wait timeout ends in ErrNavigationTimeout.
	LoadDelay time.Duration

	NavigateErr error
	WaitErr     error
	FindErr     error
	TextErr     error

	// Body is the rendered text of every element.
	Body string

	// Products is how many elements FindElements returns.
	Products int

	// PanicWith makes Navigate panic with the given value when non-nil.
	PanicWith any
}

// Unreachable is a Page whose navigation fails like a refused connection.
func Unreachable() Page {
	return Page{NavigateErr: fmt.Errorf("net::ERR_CONNECTION_REFUSED: %w", probeerrors.ErrTargetUnreachable)}
}

// Hanging is a Page that never renders.
func Hanging() Page {
	return Page{LoadDelay: time.Hour}
}

// Driver is a browser.Driver backed by scripted pages.
type Driver struct {
	mu      sync.Mutex
	clock   *clock.Manual
	pages   map[string]Page
	current Page
	visits  []string
	closes  int
}

// NewDriver creates a Driver. clk may be nil when timing does not matter.
func NewDriver(clk *clock.Manual) *Driver {
	return &Driver{clock: clk, pages: make(map[string]Page)}
}

// SetPage scripts the page served at path.
func (d *Driver) SetPage(path string, page Page) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[path] = page
}

// SetAll scripts every path in paths with the same page.
func (d *Driver) SetAll(page Page, paths ...string) {
	for _, p := range paths {
		d.SetPage(p, page)
	}
}

// Visits returns every URL passed to Navigate.
func (d *Driver) Visits() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.visits))
	copy(out, d.visits)
	return out
}

// Closes returns how many times Close was called.
func (d *Driver) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// Navigate implements browser.Driver.
func (d *Driver) Navigate(_ context.Context, rawURL string) error {
	d.mu.Lock()
	d.visits = append(d.visits, rawURL)
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	page := d.pages[path]
	d.current = page
	d.mu.Unlock()

	if page.PanicWith != nil {
		panic(page.PanicWith)
	}
	return page.NavigateErr
}

// WaitForPresence implements browser.Driver.
func (d *Driver) WaitForPresence(_ context.Context, selector string, timeout time.Duration) (browser.Element, error) {
	page := d.page()

	if page.LoadDelay > timeout {
		d.advance(timeout)
		return nil, fmt.Errorf("wait for %q: %w", selector, probeerrors.ErrNavigationTimeout)
	}
	d.advance(page.LoadDelay)

	if page.WaitErr != nil {
		return nil, page.WaitErr
	}
	return element{text: page.Body, err: page.TextErr}, nil
}

// FindElements implements browser.Driver.
func (d *Driver) FindElements(_ context.Context, _ string) ([]browser.Element, error) {
	page := d.page()
	if page.FindErr != nil {
		return nil, page.FindErr
	}
	out := make([]browser.Element, page.Products)
	for i := range out {
		out[i] = element{text: fmt.Sprintf("product %d", i+1)}
	}
	return out, nil
}

// Close implements browser.Driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return nil
}

func (d *Driver) page() Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Driver) advance(by time.Duration) {
	if d.clock != nil && by > 0 {
		d.clock.Advance(by)
	}
}

type element struct {
	text string
	err  error
}

func (e element) Text() (string, error) {
	return e.text, e.err
}

// Launcher is a browser.Launcher that always hands out the same Driver,
// or fails with Err.
type Launcher struct {
	Driver *Driver
	Err    error

	mu       sync.Mutex
	launches int
}

// Launch implements browser.Launcher.
func (l *Launcher) Launch(_ context.Context) (browser.Driver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Driver, nil
}

// Launches returns how many times Launch was called.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

var (
	_ browser.Driver   = (*Driver)(nil)
	_ browser.Launcher = (*Launcher)(nil)
)
