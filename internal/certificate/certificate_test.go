package certificate

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/veriuser/internal/errs"
	"github.com/and161185/veriuser/internal/lifecycle"
	"github.com/and161185/veriuser/internal/model"
)

type colorMap map[string]string

func (c colorMap) ResolveColor(name string) string {
	if v, ok := c[name]; ok {
		return v
	}
	return "#4CAF50"
}

func calcAt(t time.Time) lifecycle.Calculator {
	return lifecycle.NewCalculator(lifecycle.ClockFunc(func() time.Time { return t }))
}

func sampleRecord() model.Record {
	return model.Record{
		ID:               "123456",
		Owner:            "Ivan <Ivanov>",
		Username:         "ivan",
		ChannelOrProfile: "t.me/ivan",
		Status:           "Scammer",
		Reason:           "Public figure",
		Patents: []model.PatentClaim{
			{ID: "a", Text: "owns @ivan"},
			{ID: "b", Text: "owns ivan.tv"},
		},
		CreatedAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewView(t *testing.T) {
	t.Parallel()
	r := sampleRecord()

	v := NewView(r, colorMap{"Scammer": "#F44336"}, calcAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "#F44336", v.StatusColor)
	require.Equal(t, "31.01.2024", v.IssueDate)
	require.Equal(t, "02.03.2024", v.ExpiryDate)
	require.Equal(t, 30, v.DaysLeft)
	require.Equal(t, lifecycle.Valid, v.Validity)
	require.Equal(t, "#2E7D32", v.Palette.Foreground)

	late := NewView(r, colorMap{}, calcAt(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "#4CAF50", late.StatusColor)
	require.Equal(t, 3, late.DaysLeft)
	require.Equal(t, lifecycle.Expiring, late.Validity)
	require.Equal(t, "#FFF3E0", late.Palette.Background)

	// the view owns its claims
	r.Patents[0].Text = "changed"
	require.Equal(t, "owns @ivan", v.Record.Patents[0].Text)
}

func TestValidityText(t *testing.T) {
	t.Parallel()
	require.Equal(t, "valid for 12 more days", ValidityText(12))
	require.Equal(t, "needs re-verification", ValidityText(0))
	require.Equal(t, "needs re-verification", ValidityText(-4))
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()
	v := NewView(sampleRecord(), colorMap{"Scammer": "#F44336"}, calcAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, v))
	out := buf.String()

	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, "@media print")
	require.Contains(t, out, "Ivan &lt;Ivanov&gt;")
	require.NotContains(t, out, "Ivan <Ivanov>")
	require.Contains(t, out, "@ivan")
	require.Contains(t, out, "#F44336")
	require.Contains(t, out, "valid for 30 more days")
	require.Contains(t, out, "31.01.2024")
	require.Contains(t, out, "02.03.2024")
	require.Contains(t, out, "<b>#1</b>owns @ivan")
	require.Contains(t, out, "<b>#2</b>owns ivan.tv")
	require.Contains(t, out, "Not specified")
}

func TestRenderPrint(t *testing.T) {
	t.Parallel()
	r := sampleRecord()
	r.Patents = nil
	v := NewView(r, colorMap{}, calcAt(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, RenderPrint(&buf, v))
	out := buf.String()

	require.Contains(t, out, `id="certificate"`)
	require.NotContains(t, out, "toolbar")
	require.NotContains(t, out, "Confirmed ownership rights")
	require.Contains(t, out, "needs re-verification")
}

func TestFileName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "certificate_ivan_123456.pdf", FileName("ivan", "123456", FormatPDF))
	require.Equal(t, "certificate_ivan_123456.png", FileName("ivan", "123456", FormatPNG))
	require.Equal(t, "certificate_ivan_123456.html", FileName("ivan", "123456", FormatHTML))
	require.Equal(t, "certificate_ivan_123456_print.html", FileName("ivan", "123456", FormatPrint))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	require.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	require.Error(t, err)
}

type fakeRenderer struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
	once    sync.Once
}

func (f *fakeRenderer) do(ctx context.Context, prefix, html string) ([]byte, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte(prefix + html), nil
}

func (f *fakeRenderer) PDF(ctx context.Context, html string) ([]byte, error) {
	return f.do(ctx, "PDF:", html)
}

func (f *fakeRenderer) PNG(ctx context.Context, html string) ([]byte, error) {
	return f.do(ctx, "PNG:", html)
}

func testView() View {
	return NewView(sampleRecord(), colorMap{}, calcAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestExporter_Formats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fr := &fakeRenderer{}
	e := NewExporter(fr, 0, nil)

	pdf, err := e.Export(ctx, testView(), FormatPDF)
	require.NoError(t, err)
	require.Equal(t, "certificate_ivan_123456.pdf", pdf.Name)
	require.True(t, strings.HasPrefix(string(pdf.Data), "PDF:<!DOCTYPE html>"))

	png, err := e.Export(ctx, testView(), FormatPNG)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(png.Data), "PNG:"))

	html, err := e.Export(ctx, testView(), FormatHTML)
	require.NoError(t, err)
	require.Contains(t, string(html.Data), "toolbar")
	require.Equal(t, int32(2), fr.calls.Load())
}

func TestExporter_ErrorsWrapAndAreNotRetried(t *testing.T) {
	t.Parallel()
	fr := &fakeRenderer{err: errors.New("chrome crashed")}
	e := NewExporter(fr, 0, nil)

	_, err := e.Export(context.Background(), testView(), FormatPDF)
	require.ErrorIs(t, err, errs.ErrExport)
	require.ErrorContains(t, err, "chrome crashed")
	require.Equal(t, int32(1), fr.calls.Load())

	_, err = NewExporter(nil, 0, nil).Export(context.Background(), testView(), FormatPNG)
	require.ErrorIs(t, err, errs.ErrExport)
}

func TestExporter_Timeout(t *testing.T) {
	t.Parallel()
	fr := &fakeRenderer{release: make(chan struct{})}
	e := NewExporter(fr, 20*time.Millisecond, nil)

	_, err := e.Export(context.Background(), testView(), FormatPDF)
	require.ErrorIs(t, err, errs.ErrExport)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExporter_CollapsesConcurrentDuplicates(t *testing.T) {
	t.Parallel()
	fr := &fakeRenderer{started: make(chan struct{}), release: make(chan struct{})}
	e := NewExporter(fr, 0, nil)

	const n = 5
	var wg sync.WaitGroup
	docs := make([]Document, n)
	errsOut := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs[i], errsOut[i] = e.Export(context.Background(), testView(), FormatPDF)
		}()
	}
	<-fr.started
	time.Sleep(50 * time.Millisecond)
	close(fr.release)
	wg.Wait()

	for i := range n {
		require.NoError(t, errsOut[i])
		require.Equal(t, docs[0], docs[i])
	}
	require.Equal(t, int32(1), fr.calls.Load())
}

func TestExporter_ExportAll(t *testing.T) {
	t.Parallel()
	fr := &fakeRenderer{}
	e := NewExporter(fr, 0, nil)

	docs, err := e.ExportAll(context.Background(), testView(), FormatPNG, FormatPrint, FormatPDF)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, FormatPNG, docs[0].Format)
	require.Equal(t, "certificate_ivan_123456_print.html", docs[1].Name)
	require.Equal(t, FormatPDF, docs[2].Format)

	fr.err = errors.New("boom")
	_, err = e.ExportAll(context.Background(), testView(), FormatHTML, FormatPDF)
	require.ErrorIs(t, err, errs.ErrExport)
}

func TestFileName_SingleSafeElement(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"../../escaped":    "certificate_.._.._escaped_1.html",
		"a/b":              "certificate_a_b_1.html",
		`c:\win`:           "certificate_c__win_1.html",
		"ivan.tv@example":  "certificate_ivan.tv@example_1.html",
		"иван сидоров":     "certificate_иван_сидоров_1.html",
		"x\x00y\n<script>": "certificate_x_y__script__1.html",
	}
	for username, want := range cases {
		got := FileName(username, "1", FormatHTML)
		require.Equal(t, want, got, username)
		require.Equal(t, got, filepath.Base(got), username)
		require.Equal(t, filepath.Join("out", got), filepath.Clean(filepath.Join("out", got)), username)
	}
	require.Equal(t, "certificate_u_.._x_print.html", FileName("u", "../x", FormatPrint))
}

func TestExporter_DifferentContentNotShared(t *testing.T) {
	t.Parallel()
	fr := &fakeRenderer{release: make(chan struct{})}
	e := NewExporter(fr, 0, nil)

	before := testView()
	after := testView()
	after.Record.Owner = "Renamed"

	var wg sync.WaitGroup
	docs := make([]Document, 2)
	errsOut := make([]error, 2)
	for i, v := range []View{before, after} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs[i], errsOut[i] = e.Export(context.Background(), v, FormatPDF)
		}()
	}
	require.Eventually(t, func() bool { return fr.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(fr.release)
	wg.Wait()

	require.NoError(t, errsOut[0])
	require.NoError(t, errsOut[1])
	require.NotContains(t, string(docs[0].Data), "Renamed")
	require.Contains(t, string(docs[1].Data), "Renamed")
}
