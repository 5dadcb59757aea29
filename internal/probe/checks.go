package probe

import (
	"context"
	"errors"
	"strings"

	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

const bodySelector = constants.SelectorBody

type checkSpec struct {
	name domain.CheckName
	fn   func(r *Runner, ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome
	// fail builds the outcome and alert for a failure of this check.
	fail func(run *checkRun, err error) domain.Outcome
}

//nolint:gochecknoglobals // fixed check table
var checks = map[domain.CheckName]checkSpec{
	domain.CheckAvailability: {domain.CheckAvailability, (*Runner).availability, failAvailability},
	domain.CheckSearch:       {domain.CheckSearch, (*Runner).search, failSearch},
	domain.CheckCart:         {domain.CheckCart, (*Runner).cart, failCart},
	domain.CheckCheckout:     {domain.CheckCheckout, (*Runner).checkout, failCheckout},
	domain.CheckHealth:       {domain.CheckHealth, (*Runner).health, failHealth},
}

func (r *Runner) url(path string) string {
	return strings.TrimRight(r.opts.BaseURL, "/") + path
}

// availability loads the home page. A page that never renders is DOWN.
func (r *Runner) availability(ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome {
	_, elapsed, err := r.load(ctx, d, constants.PathHome)
	if err != nil {
		return failAvailability(run, err)
	}

	if r.slow(elapsed) {
		run.alert(domain.LevelWarning, constants.MetricLoadTime, elapsed.Seconds(),
			"Slow home page load: %.2fs", elapsed.Seconds())
	}
	return domain.OK(map[string]any{constants.DetailURL: r.url(constants.PathHome)}).WithLoadTime(elapsed)
}

func failAvailability(run *checkRun, err error) domain.Outcome {
	if probeerrors.IsNavigationFailure(err) {
		run.alert(domain.LevelCritical, constants.MetricAvailability, 0,
			"Site not responding: %v", err)
		return domain.Down(err)
	}
	run.alert(domain.LevelError, constants.MetricAvailability, 0,
		"Availability check failed: %v", err)
	return domain.Failed(err)
}

// search loads the catalog and counts the product entries.
func (r *Runner) search(ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome {
	_, elapsed, err := r.load(ctx, d, constants.PathProducts)
	if err != nil {
		return failSearch(run, err)
	}

	products, err := d.FindElements(ctx, constants.SelectorProduct)
	if err != nil {
		if !errors.Is(err, probeerrors.ErrElementNotFound) {
			err = errors.Join(probeerrors.ErrElementNotFound, err)
		}
		run.alert(domain.LevelError, constants.MetricProducts, 0,
			"Product list not found: %v", err)
		return domain.Failed(err).WithLoadTime(elapsed)
	}

	detail := map[string]any{
		constants.DetailURL:        r.url(constants.PathProducts),
		constants.DetailItemsFound: len(products),
	}
	if len(products) == 0 {
		run.alert(domain.LevelWarning, constants.MetricProducts, 0, "Product catalog is empty")
		return domain.Warning(detail, "no products listed").WithLoadTime(elapsed)
	}
	return domain.OK(detail).WithLoadTime(elapsed)
}

func failSearch(run *checkRun, err error) domain.Outcome {
	run.alert(domain.LevelError, constants.MetricSearch, 0, "Search failed: %v", err)
	return domain.Failed(err)
}

// cart loads the cart page.
func (r *Runner) cart(ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome {
	_, elapsed, err := r.load(ctx, d, constants.PathCart)
	if err != nil {
		return failCart(run, err)
	}

	if r.slow(elapsed) {
		run.alert(domain.LevelWarning, constants.MetricCartLoadTime, elapsed.Seconds(),
			"Slow cart: %.2fs", elapsed.Seconds())
	}
	return domain.OK(map[string]any{constants.DetailURL: r.url(constants.PathCart)}).WithLoadTime(elapsed)
}

func failCart(run *checkRun, err error) domain.Outcome {
	run.alert(domain.LevelError, constants.MetricCartFunction, 0, "Cart failed: %v", err)
	return domain.Failed(err)
}

// checkout loads the checkout page. Slow is a warning; broken is critical
// because it costs sales.
func (r *Runner) checkout(ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome {
	_, elapsed, err := r.load(ctx, d, constants.PathCheckout)
	if err != nil {
		return failCheckout(run, err)
	}

	if r.slow(elapsed) {
		run.alert(domain.LevelWarning, constants.MetricCheckoutLoadTime, elapsed.Seconds(),
			"Checkout slow: %.2fs, conversions at risk", elapsed.Seconds())
	}
	return domain.OK(map[string]any{constants.DetailURL: r.url(constants.PathCheckout)}).WithLoadTime(elapsed)
}

func failCheckout(run *checkRun, err error) domain.Outcome {
	run.alert(domain.LevelCritical, constants.MetricCheckoutFunction, 0,
		"Checkout broken, sales are being lost: %v", err)
	return domain.Failed(err)
}

// health reads the health endpoint body. It never records a load time and
// never escalates past ERROR.
func (r *Runner) health(ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome {
	body, _, err := r.load(ctx, d, constants.PathHealth)
	if err != nil {
		return failHealth(run, err)
	}

	text, err := body.Text()
	if err != nil {
		return failHealth(run, err)
	}

	detail := map[string]any{constants.DetailResponseBody: text}
	if !strings.Contains(text, constants.HealthyMarker) {
		run.alert(domain.LevelWarning, constants.MetricHealth, 0, "Health check reports the system unhealthy")
		return domain.Warning(detail, "health endpoint did not report healthy")
	}
	return domain.OK(detail)
}

func failHealth(run *checkRun, err error) domain.Outcome {
	run.alert(domain.LevelError, constants.MetricHealth, 0, "Health endpoint not reachable: %v", err)
	return domain.Failed(err)
}
