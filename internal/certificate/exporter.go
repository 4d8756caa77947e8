package certificate

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/and161185/veriuser/internal/errs"
)

// Format is a certificate output format.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatPNG   Format = "png"
	FormatHTML  Format = "html"
	FormatPrint Format = "print"
)

// Formats lists every supported format.
func Formats() []Format { return []Format{FormatPDF, FormatPNG, FormatHTML, FormatPrint} }

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("validation: unknown format %q", s)
	}
	return f, nil
}

// Renderer turns a self-contained HTML page into binary documents.
type Renderer interface {
	PDF(ctx context.Context, html string) ([]byte, error)
	PNG(ctx context.Context, html string) ([]byte, error)
}

// Document is a rendered certificate ready to be written out.
type Document struct {
	Name   string
	Format Format
	Data   []byte
}

// FileName returns certificate_{username}_{id}.{ext}; the print view gets a
// _print.html suffix. Characters other than letters, digits and "-_.@" are
// replaced with "_", so the result is always a single path element.
func FileName(username, id string, f Format) string {
	base := "certificate_" + safeName(username) + "_" + safeName(id)
	switch f {
	case FormatPrint:
		return base + "_print.html"
	default:
		return base + "." + string(f)
	}
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '-', r == '_', r == '.', r == '@':
			return r
		default:
			return '_'
		}
	}, s)
}

// Exporter renders views to documents. Concurrent exports of the same view
// and format share one rendering.
type Exporter struct {
	renderer Renderer
	timeout  time.Duration
	log      *zap.Logger
	group    singleflight.Group
}

// NewExporter constructs an Exporter. A zero timeout disables the deadline;
// renderer may be nil when only HTML formats are used.
func NewExporter(renderer Renderer, timeout time.Duration, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{renderer: renderer, timeout: timeout, log: log}
}

// Export renders v in format f. Failures wrap errs.ErrExport and are not retried.
func (e *Exporter) Export(ctx context.Context, v View, f Format) (Document, error) {
	key, err := flightKey(v, f)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", errs.ErrExport, err)
	}
	ch := e.group.DoChan(key, func() (any, error) {
		return e.render(context.WithoutCancel(ctx), v, f)
	})
	select {
	case <-ctx.Done():
		return Document{}, fmt.Errorf("%w: %w", errs.ErrExport, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Document{}, res.Err
		}
		doc := res.Val.(Document)
		if res.Shared {
			e.log.Debug("certificate export shared", zap.String("key", key))
		}
		return doc, nil
	}
}

// flightKey identifies a rendering by format, record id and view content, so
// an export started after an edit never joins one of the old data.
func flightKey(v View, f Format) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode view: %w", err)
	}
	return fmt.Sprintf("%s:%s:%016x", f, v.Record.ID, xxhash.Sum64(b)), nil
}

// ExportAll renders v in every listed format concurrently, keeping the order
// of formats in the result.
func (e *Exporter) ExportAll(ctx context.Context, v View, formats ...Format) ([]Document, error) {
	docs := make([]Document, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			doc, err := e.Export(gctx, v, f)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (e *Exporter) render(ctx context.Context, v View, f Format) (Document, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	start := time.Now()
	data, err := e.renderBytes(ctx, v, f)
	if err != nil {
		e.log.Warn("certificate export failed",
			zap.String("id", v.Record.ID),
			zap.String("format", string(f)),
			zap.Error(err),
		)
		return Document{}, fmt.Errorf("%w: %w", errs.ErrExport, err)
	}
	e.log.Info("certificate exported",
		zap.String("id", v.Record.ID),
		zap.String("format", string(f)),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)
	return Document{Name: FileName(v.Record.Username, v.Record.ID, f), Format: f, Data: data}, nil
}

func (e *Exporter) renderBytes(ctx context.Context, v View, f Format) ([]byte, error) {
	switch f {
	case FormatHTML:
		s, err := renderString("document", v)
		return []byte(s), err
	case FormatPrint:
		s, err := renderString("print", v)
		return []byte(s), err
	case FormatPDF, FormatPNG:
		if e.renderer == nil {
			return nil, fmt.Errorf("no renderer configured for %s", f)
		}
		page, err := renderString("print", v)
		if err != nil {
			return nil, err
		}
		if f == FormatPDF {
			return e.renderer.PDF(ctx, page)
		}
		return e.renderer.PNG(ctx, page)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}
