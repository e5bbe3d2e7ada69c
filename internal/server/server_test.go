package server

// Notes:
// - The renderer is a fake; Chrome is never started
// - The viewer page embeds the PDF URL in a script, so the ticket is
//   extracted from the JS-escaped string

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/document"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	mu     sync.Mutex
	inputs []report2pdf.Input
	err    error
}

func (f *fakeRenderer) Render(_ context.Context, in report2pdf.Input) (*report2pdf.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	res := &report2pdf.Result{HTML: []byte("<html><body>preview</body></html>")}
	if !in.HTMLOnly {
		res.PDF = []byte("%PDF-1.7 fake")
	}
	return res, nil
}

func (f *fakeRenderer) calls() []report2pdf.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]report2pdf.Input(nil), f.inputs...)
}

func newTestServer(t *testing.T, r Renderer, opts ...Option) *httptest.Server {
	t.Helper()

	input := report2pdf.Input{Document: &document.Document{Title: "Online Library Management System"}}
	srv := httptest.NewServer(New(r, input, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

var ticketRe = regexp.MustCompile(`\\/api\\/pdf\\/([0-9a-f-]{36})`)

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRenderer{})
	resp, body := get(t, srv.URL+"/health")
	if resp.StatusCode != http.StatusOK || body != `{"status":"ok"}` {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	srv := newTestServer(t, r)
	resp, body := get(t, srv.URL+"/project-report")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") || !strings.Contains(body, "preview") {
		t.Errorf("preview = %s %q", resp.Header.Get("Content-Type"), body)
	}
	if calls := r.calls(); len(calls) != 1 || !calls[0].HTMLOnly {
		t.Errorf("renderer inputs = %+v, want one HTML-only render", calls)
	}
}

func TestViewerAndPDF_ViewOnce(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	srv := newTestServer(t, r)

	resp, body := get(t, srv.URL+"/project-report-pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("viewer status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `id="pdf-viewer"`) || !strings.Contains(body, "Online Library Management System") {
		t.Errorf("viewer page missing iframe or title:\n%s", body)
	}
	m := ticketRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no ticket in viewer page:\n%s", body)
	}

	resp, pdf := get(t, srv.URL+"/api/pdf/"+m[1])
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("first PDF fetch = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(pdf, "%PDF") {
		t.Errorf("body = %q, want PDF", pdf)
	}
	if calls := r.calls(); len(calls) != 1 || calls[0].HTMLOnly {
		t.Errorf("renderer inputs = %+v, want one PDF render", calls)
	}

	if resp, _ := get(t, srv.URL+"/api/pdf/"+m[1]); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second PDF fetch = %d, want 404", resp.StatusCode)
	}
}

func TestViewer_FreshTicketPerLoad(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRenderer{})
	_, a := get(t, srv.URL+"/project-report-pdf")
	_, b := get(t, srv.URL+"/project-report-pdf")

	ta, tb := ticketRe.FindStringSubmatch(a), ticketRe.FindStringSubmatch(b)
	if ta == nil || tb == nil || ta[1] == tb[1] {
		t.Errorf("tickets = %v, %v, want two distinct", ta, tb)
	}
}

func TestPDF_UnknownTicket(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	srv := newTestServer(t, r)
	if resp, _ := get(t, srv.URL+"/api/pdf/not-a-ticket"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if len(r.calls()) != 0 {
		t.Error("renderer called for an unknown ticket")
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	srv := newTestServer(t, &fakeRenderer{err: errors.New("chrome crashed")}, WithLogger(zap.New(core)))

	resp, body := get(t, srv.URL+"/project-report")
	if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(body, "chrome crashed") {
		t.Errorf("GET /project-report = %d %q", resp.StatusCode, body)
	}
	if logs.FilterMessage("render failed").Len() != 1 {
		t.Errorf("render error not logged: %v", logs.All())
	}
}

func TestDiagrams(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeRenderer{})

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{"/diagrams/process-flow.svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"/diagrams/sprint-cycle.png", http.StatusOK, "image/png", "\x89PNG"},
		{"/diagrams/sprint-cycle.png?scale=1", http.StatusOK, "image/png", "\x89PNG"},
		{"/diagrams/sprint-cycle.png?scale=zero", http.StatusBadRequest, "", ""},
		{"/diagrams/gantt.svg", http.StatusNotFound, "", ""},
		{"/diagrams/process-flow.gif", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantType == "" {
				return
			}
			if got := resp.Header.Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("body does not contain %q", tt.wantBody)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	srv := newTestServer(t, &fakeRenderer{}, WithLogger(zap.New(core)))
	get(t, srv.URL+"/api/pdf/missing")

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d requests, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/pdf/missing" || fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("fields = %v", fields)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(&fakeRenderer{}, report2pdf.Input{}).ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// ---------------------------------------------------------------------------
// Tickets
// ---------------------------------------------------------------------------

func TestTickets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := NewTickets(time.Minute)
	tk.now = func() time.Time { return now }

	a := tk.Issue()
	b := tk.Issue()
	if a == b || tk.Len() != 2 {
		t.Fatalf("issued %q, %q (len %d)", a, b, tk.Len())
	}
	if !tk.Redeem(a) || tk.Redeem(a) {
		t.Error("ticket must redeem exactly once")
	}
	if tk.Redeem("") {
		t.Error("empty ticket redeemed")
	}

	now = now.Add(2 * time.Minute)
	if tk.Redeem(b) {
		t.Error("expired ticket redeemed")
	}

	tk.Issue()
	now = now.Add(2 * time.Minute)
	tk.Issue()
	if tk.Len() != 1 {
		t.Errorf("Len() = %d, want expired tickets pruned", tk.Len())
	}
}
