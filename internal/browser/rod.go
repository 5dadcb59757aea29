package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// Options configures a RodLauncher.
type Options struct {
	// Headless runs the browser without a window.
	Headless bool

	// WindowWidth and WindowHeight fix the viewport size.
	WindowWidth  int
	WindowHeight int

	// Candidates are browser binaries tried in order before the system default.
	Candidates []string
}

// RodLauncher starts Chrome or Chromium through go-rod.
// It never downloads a browser: a missing binary is ErrBrowserUnavailable.
type RodLauncher struct {
	opts     Options
	lookPath LookPathFunc
}

// NewRodLauncher creates a launcher for opts.
func NewRodLauncher(opts Options) *RodLauncher {
	if len(opts.Candidates) == 0 {
		opts.Candidates = DefaultCandidates()
	}
	return &RodLauncher{opts: opts, lookPath: launcher.LookPath}
}

// Launch implements Launcher.
func (l *RodLauncher) Launch(ctx context.Context) (Driver, error) {
	bin, err := FindBinary(l.opts.Candidates, l.lookPath)
	if err != nil {
		return nil, err
	}

	proc := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(l.opts.Headless).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("window-size", strconv.Itoa(l.opts.WindowWidth)+","+strconv.Itoa(l.opts.WindowHeight))

	controlURL, err := proc.Launch()
	if err != nil {
		proc.Kill()
		return nil, fmt.Errorf("launch %s: %w: %w", bin, probeerrors.ErrBrowserUnavailable, err)
	}

	driver := &rodDriver{proc: proc, browser: rod.New().ControlURL(controlURL)}
	if err := driver.browser.Connect(); err != nil {
		// Not connected, so only the process needs to go.
		proc.Kill()
		proc.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w: %w", probeerrors.ErrBrowserUnavailable, err)
	}

	page, err := driver.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return driver, fmt.Errorf("open tab: %w: %w", probeerrors.ErrBrowserUnavailable, err)
	}
	driver.page = page

	return driver, nil
}

type rodDriver struct {
	proc    *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	err := d.page.Context(ctx).Navigate(url)
	if err == nil {
		return nil
	}

	var navErr *rod.NavigationError
	switch {
	case errors.As(err, &navErr):
		return fmt.Errorf("navigate to %s: %w: %s", url, probeerrors.ErrTargetUnreachable, navErr.Reason)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("navigate to %s: %w", url, probeerrors.ErrNavigationTimeout)
	default:
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
}

func (d *rodDriver) WaitForPresence(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	el, err := d.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("wait for %q after %s: %w", selector, timeout, probeerrors.ErrNavigationTimeout)
		}
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	return rodElement{el: el}, nil
}

func (d *rodDriver) FindElements(ctx context.Context, selector string) ([]Element, error) {
	found, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w: %w", selector, probeerrors.ErrElementNotFound, err)
	}

	elements := make([]Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, rodElement{el: el})
	}
	return elements, nil
}

func (d *rodDriver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.proc != nil {
		d.proc.Kill()
		d.proc.Cleanup()
	}
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) Text() (string, error) {
	return e.el.Text()
}
