package certificate

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// RodRenderer captures HTML with a headless Chrome driven by go-rod. Every
// call launches its own browser and tears it down afterwards.
type RodRenderer struct {
	// Bin is the Chrome executable; empty lets the launcher find or download one.
	Bin string
}

var _ Renderer = (*RodRenderer)(nil)

// PDF prints html on A4 portrait with backgrounds.
func (r *RodRenderer) PDF(ctx context.Context, html string) ([]byte, error) {
	return r.withPage(ctx, html, func(p *rod.Page) ([]byte, error) {
		stream, err := p.PDF(&proto.PagePrintToPDF{
			PaperWidth:        gson.Num(a4Width),
			PaperHeight:       gson.Num(a4Height),
			PrintBackground:   true,
			PreferCSSPageSize: true,
		})
		if err != nil {
			return nil, fmt.Errorf("print pdf: %w", err)
		}
		b, err := io.ReadAll(stream)
		if err != nil {
			return nil, fmt.Errorf("read pdf stream: %w", err)
		}
		return b, nil
	})
}

// PNG takes a full-page screenshot of html.
func (r *RodRenderer) PNG(ctx context.Context, html string) ([]byte, error) {
	return r.withPage(ctx, html, func(p *rod.Page) ([]byte, error) {
		b, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, fmt.Errorf("screenshot: %w", err)
		}
		return b, nil
	})
}

func (r *RodRenderer) withPage(ctx context.Context, html string, fn func(*rod.Page) ([]byte, error)) ([]byte, error) {
	l := launcher.New().Context(ctx).Headless(true)
	if r.Bin != "" {
		l = l.Bin(r.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	return fn(page)
}
