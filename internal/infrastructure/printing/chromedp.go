// Package printing renders issued invoices to PDF through headless Chrome.
package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 30 * time.Second
	defaultPaperWidth    = 8.27  // A4 inches
	defaultPaperHeight   = 11.69 // A4 inches
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// ChromePath points at a Chrome/Chromium binary; empty means auto-detect
	ChromePath string
	// Timeout bounds a single render
	Timeout time.Duration
	// PaperWidth and PaperHeight are in inches; zero means A4
	PaperWidth  float64
	PaperHeight float64
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using the Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config ChromedpConfig) *ChromedpRenderer {
	if config.Timeout == 0 {
		config.Timeout = defaultRenderTimeout
	}
	if config.PaperWidth == 0 {
		config.PaperWidth = defaultPaperWidth
	}
	if config.PaperHeight == 0 {
		config.PaperHeight = defaultPaperHeight
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	renderer.initAllocator()

	return renderer
}

func (r *ChromedpRenderer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if r.config.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ChromePath))
	}
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// RenderHTML converts an HTML document to PDF bytes
func (r *ChromedpRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("html content is empty")
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	var pdfData []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(r.config.PaperWidth).
				WithPaperHeight(r.config.PaperHeight).
				WithMarginTop(0.4).
				WithMarginRight(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pdf rendering timed out after %v: %w", r.config.Timeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	if len(pdfData) == 0 {
		return nil, fmt.Errorf("generated PDF is empty")
	}

	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(startTime)))

	return pdfData, nil
}

// Close releases the Chrome allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
