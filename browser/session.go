package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	navigateTimeout = 30 * time.Second
	evaluateTimeout = 30 * time.Second
	snapshotTimeout = 15 * time.Second
)

// Session manages a single chromedp browser context. One session owns one
// Chrome instance and one page for the duration of a run.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession launches a browser. The session must be closed by the caller;
// cancelling the parent ctx also tears the browser down.
func NewSession(ctx context.Context, headless bool) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	session := &Session{
		ctx:    browserCtx,
		cancel: func() { cancelBrowser(); cancelAlloc() },
	}

	// Start the browser up front so a missing Chrome binary fails here
	// instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return session, nil
}

// Navigate loads url and waits until waitSelector is visible, or just for the
// document body when waitSelector is empty.
func (s *Session) Navigate(url, waitSelector string) error {
	ctx, cancel := context.WithTimeout(s.ctx, navigateTimeout)
	defer cancel()

	tasks := []chromedp.Action{chromedp.Navigate(url)}
	if waitSelector != "" {
		tasks = append(tasks, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
	} else {
		tasks = append(tasks, chromedp.WaitReady("body"))
	}

	if err := chromedp.Run(ctx, tasks...); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Evaluate runs JavaScript in the page and unmarshals the result into res.
func (s *Session) Evaluate(js string, res interface{}) error {
	ctx, cancel := context.WithTimeout(s.ctx, evaluateTimeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.Evaluate(js, res))
}

// PageHTML returns the full rendered page markup.
func (s *Session) PageHTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, snapshotTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html))
	return html, err
}

// ScrollToBottom advances the page to trigger lazy loading of more results.
func (s *Session) ScrollToBottom() error {
	return s.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil)
}

// settle pauses for d so the page can catch up, returning early with the
// session's context error on cancellation.
func (s *Session) settle(d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// WaitVisible blocks until selector is visible on the current page.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Click dispatches a click on the first element matching selector.
func (s *Session) Click(selector string) error {
	ctx, cancel := context.WithTimeout(s.ctx, evaluateTimeout)
	defer cancel()

	return chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

// UploadFile attaches a local file to the file input matching selector.
func (s *Session) UploadFile(selector, path string) error {
	ctx, cancel := context.WithTimeout(s.ctx, evaluateTimeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery))
}

// Screenshot captures the full page as PNG bytes.
func (s *Session) Screenshot() ([]byte, error) {
	ctx, cancel := context.WithTimeout(s.ctx, snapshotTimeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		b, err := page.CaptureScreenshot().WithCaptureBeyondViewport(true).Do(ctx)
		if err != nil {
			return err
		}
		buf = b
		return nil
	}))
	return buf, err
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
