// Package crawler discovers property pages with a headless Chrome session
// and pulls the name and address off each one.
package crawler

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dost0092/hotel-mapped-url/internal/model"
	"github.com/dost0092/hotel-mapped-url/internal/resilience"
)

// linkCollectScript gathers property links from a location page in document
// order. Duplicates are dropped on the Go side to keep first-seen order.
const linkCollectScript = `Array.from(document.querySelectorAll("a[href*='/en/hotels/']"), a => a.href)`

// blockedResourcePatterns stops Chrome from fetching media the extraction
// scripts never read.
var blockedResourcePatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.woff", "*.woff2", "*.ttf", "*.mp4",
}

// detailExtractScript pulls the property name and address off a detail page.
// The address node differs between page layouts, hence the selector pair, and
// either field may legitimately come back empty.
const detailExtractScript = `(() => {
	const name = document.querySelector("h1")?.innerText?.trim() ?? "";
	const addr = document.querySelector("a[href*='google.com/maps'] span, div[data-testid='hotel-address']")?.innerText?.trim() ?? "";
	return { name: name, address: addr };
})()`

// Config tunes the headless browser and per-page behavior.
type Config struct {
	Headless   bool
	NavTimeout time.Duration
	RetryLimit int
	RetryDelay time.Duration
	RateLimit  rate.Limit // page navigations per second
	Burst      int
	ChromePath string // explicit browser binary; auto-detected when empty
}

// Crawler launches browser sessions and shares one navigation rate limiter
// across all of them.
type Crawler struct {
	cfg     Config
	limiter *rate.Limiter
}

// New creates a Crawler, filling unset config fields with defaults.
func New(cfg Config) *Crawler {
	if cfg.NavTimeout == 0 {
		cfg.NavTimeout = 25 * time.Second
	}
	if cfg.RetryLimit == 0 {
		cfg.RetryLimit = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1
	}
	if cfg.Burst == 0 {
		cfg.Burst = 1
	}
	if cfg.ChromePath == "" {
		cfg.ChromePath = detectChromePath()
	}
	return &Crawler{cfg: cfg, limiter: rate.NewLimiter(cfg.RateLimit, cfg.Burst)}
}

// Session is one live browser tab shared by every location of a run. Closing
// it tears down the tab and the Chrome process.
type Session struct {
	crawler *Crawler
	tabCtx  context.Context
	cancels []context.CancelFunc
}

// Acquire launches headless Chrome under ctx and opens the shared tab. The
// caller owns the session and must Close it.
func (c *Crawler) Acquire(ctx context.Context) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if c.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing binary fails here rather than
	// on the first navigation, and block media downloads while at it.
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetBlockedURLS(blockedResourcePatterns),
	); err != nil {
		tabCancel()
		allocCancel()
		return nil, eris.Wrap(err, "crawler: launch browser")
	}

	return &Session{
		crawler: c,
		tabCtx:  tabCtx,
		cancels: []context.CancelFunc{tabCancel, allocCancel},
	}, nil
}

// Close tears down the browser.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Collect opens the location page, gathers the property links it references,
// and visits each one for its name and address. A failed property page is
// logged and skipped; a failed location page aborts the whole location.
func (s *Session) Collect(ctx context.Context, loc model.Location) ([]model.DiscoveredRecord, error) {
	log := zap.L().With(
		zap.String("component", "crawler"),
		zap.String("location", loc.Name),
	)

	links, err := s.propertyLinks(ctx, loc.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "crawler: collect links for %s", loc.URL)
	}
	log.Info("collected property links", zap.Int("count", len(links)))

	records := make([]model.DiscoveredRecord, 0, len(links))
	for _, link := range links {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		rec, err := s.propertyDetails(ctx, link)
		if err != nil {
			log.Warn("property page failed, skipping",
				zap.String("url", link),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Session) propertyLinks(ctx context.Context, pageURL string) ([]string, error) {
	raw, err := resilience.DoVal(ctx, s.retryConfig("collect links"), func(ctx context.Context) ([]string, error) {
		var hrefs []string
		if err := s.navigate(ctx, pageURL, chromedp.Evaluate(linkCollectScript, &hrefs)); err != nil {
			return nil, err
		}
		return hrefs, nil
	})
	if err != nil {
		return nil, err
	}
	return dedupeLinks(raw), nil
}

// pageDetails mirrors the object literal returned by detailExtractScript.
type pageDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (s *Session) propertyDetails(ctx context.Context, pageURL string) (model.DiscoveredRecord, error) {
	details, err := resilience.DoVal(ctx, s.retryConfig("property page"), func(ctx context.Context) (pageDetails, error) {
		var d pageDetails
		if err := s.navigate(ctx, pageURL, chromedp.Evaluate(detailExtractScript, &d)); err != nil {
			return pageDetails{}, err
		}
		return d, nil
	})
	if err != nil {
		return model.DiscoveredRecord{}, err
	}

	// A page without a visible name still yields a record; resolution drops
	// it later if the address is unusable too.
	return model.DiscoveredRecord{
		Name:    details.Name,
		Address: details.Address,
		URL:     pageURL,
	}, nil
}

// navigate rate-limits, then runs the actions against the shared tab with
// the per-page timeout applied.
func (s *Session) navigate(ctx context.Context, pageURL string, actions ...chromedp.Action) error {
	if err := s.crawler.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "crawler: rate limiter wait")
	}

	runCtx, cancel := context.WithTimeout(s.tabCtx, s.crawler.cfg.NavTimeout)
	defer cancel()

	run := append([]chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}, actions...)
	return chromedp.Run(runCtx, run...)
}

func (s *Session) retryConfig(operation string) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts: s.crawler.cfg.RetryLimit,
		Delay:       s.crawler.cfg.RetryDelay,
		OnRetry:     resilience.RetryLogger("crawler", operation),
	}
}

// dedupeLinks keeps the first occurrence of each link in document order.
func dedupeLinks(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
