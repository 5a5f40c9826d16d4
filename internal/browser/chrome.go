package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
)

// stealthJS runs before any page script and removes the most common
// headless fingerprints checked by bot-detection snippets.
const stealthJS = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = { runtime: {} };
`

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Chrome drives a shared headless browser. Each Fetch runs in a fresh
// tab; session state (cookies, stealth overrides) lives at the browser
// level and is managed with ClearSessionState and ReassertStealth.
type Chrome struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	timeout    time.Duration
	proxy      config.ProxyConfig
	userAgents []string

	mu   sync.Mutex
	next int
}

// New prepares a headless Chrome allocator from the browser config. The
// browser process itself starts lazily on the first fetch.
func New(cfg config.BrowserConfig) (*Chrome, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	agents := cfg.UserAgents
	if len(agents) == 0 {
		agents = []string{defaultUserAgent}
	}

	if cfg.Proxy.Enabled && cfg.Proxy.Server == "" {
		return nil, eris.New("browser: proxy enabled without a server")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.Proxy.Enabled {
		opts = append(opts, chromedp.ProxyServer(cfg.Proxy.Server))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return &Chrome{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       timeout,
		proxy:         cfg.Proxy,
		userAgents:    agents,
	}, nil
}

// Fetch navigates a new tab to url and returns the rendered page HTML.
// The page-load timeout applies per call; a timeout surfaces as a
// transient fetch error.
func (c *Chrome) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	if c.proxy.Enabled && c.proxy.Username != "" {
		c.handleProxyAuth(tabCtx)
	}

	ua := c.nextUserAgent()

	var html string
	err := chromedp.Run(tabCtx,
		emulation.SetUserAgentOverride(ua),
		installStealth(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", eris.Wrapf(err, "browser: fetch %s", url)
	}

	zap.L().Debug("page fetched",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
	)
	return html, nil
}

// ClearSessionState drops all browser cookies, giving the next fetch a
// clean session.
func (c *Chrome) ClearSessionState(ctx context.Context) error {
	err := chromedp.Run(c.browserCtx, network.ClearBrowserCookies())
	if err != nil {
		return eris.Wrap(err, "browser: clear cookies")
	}
	return nil
}

// ReassertStealth reinstalls the fingerprint overrides at the browser
// level so documents opened after a session reset stay covered.
func (c *Chrome) ReassertStealth(ctx context.Context) error {
	if err := chromedp.Run(c.browserCtx, installStealth()); err != nil {
		return eris.Wrap(err, "browser: reassert stealth")
	}
	return nil
}

// Close shuts down the browser process and its allocator.
func (c *Chrome) Close() {
	c.browserCancel()
	c.allocCancel()
}

func (c *Chrome) nextUserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ua := c.userAgents[c.next%len(c.userAgents)]
	c.next++
	return ua
}

// handleProxyAuth answers the proxy's auth challenge for requests in the
// given tab and lets every other paused request continue untouched.
func (c *Chrome) handleProxyAuth(tabCtx context.Context) {
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *fetch.EventAuthRequired:
			go func() {
				resp := &fetch.AuthChallengeResponse{
					Response: fetch.AuthChallengeResponseResponseProvideCredentials,
					Username: c.proxy.Username,
					Password: c.proxy.Password,
				}
				err := chromedp.Run(tabCtx, fetch.ContinueWithAuth(ev.RequestID, resp))
				if err != nil {
					zap.L().Warn("proxy auth response failed", zap.Error(err))
				}
			}()
		case *fetch.EventRequestPaused:
			go func() {
				_ = chromedp.Run(tabCtx, fetch.ContinueRequest(ev.RequestID))
			}()
		}
	})

	err := chromedp.Run(tabCtx, fetch.Enable().WithHandleAuthRequests(true))
	if err != nil {
		zap.L().Warn("enabling proxy auth interception failed", zap.Error(err))
	}
}

func installStealth() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthJS).Do(ctx)
		return err
	})
}
