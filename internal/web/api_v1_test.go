package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rook-computer/framekit/internal/state"
	"github.com/rook-computer/framekit/internal/window"
)

type recordingSwitcher struct {
	names []string
	err   error
}

func (s *recordingSwitcher) SwitchView(_ context.Context, name string) error {
	s.names = append(s.names, name)
	return s.err
}

func newTestDeps() (APIV1Deps, *state.Store, *state.ViewCatalog, *state.RateRequest, *recordingSwitcher) {
	store := state.NewStore()
	views := state.NewViewCatalog()
	views.Add("title")
	views.Add("play")
	views.SetCurrent("title")
	rates := state.NewRateRequest()
	sw := &recordingSwitcher{}
	return APIV1Deps{Status: store, Views: views, Switcher: sw, Rates: rates}, store, views, rates, sw
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestStatusReportsStore(t *testing.T) {
	deps, store, _, _, _ := newTestDeps()
	store.SetPhase(state.RUNNING)
	store.UpdateWindow(state.WindowInfo{Title: "demo", View: "title", Updates: 42})
	h := NewDefaultMux("", APIV1Config{Deps: deps})

	rec := serve(t, h, http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var got struct {
		Phase  string           `json:"phase"`
		Window state.WindowInfo `json:"window"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Phase != "running" || got.Window.Title != "demo" || got.Window.Updates != 42 {
		t.Fatalf("unexpected status %+v", got)
	}

	rec = serve(t, h, http.MethodPost, "/api/v1/status", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status code = %d", rec.Code)
	}
}

func TestViewsListAndSwitch(t *testing.T) {
	deps, _, _, _, sw := newTestDeps()
	h := NewDefaultMux("", APIV1Config{Deps: deps})

	rec := serve(t, h, http.MethodGet, "/api/v1/views", "")
	var snap state.ViewsSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Names) != 2 || snap.Current != "title" {
		t.Fatalf("views = %+v", snap)
	}

	rec = serve(t, h, http.MethodPost, "/api/v1/views/play", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("switch code = %d body=%s", rec.Code, rec.Body.String())
	}
	if len(sw.names) != 1 || sw.names[0] != "play" {
		t.Fatalf("switcher calls = %v", sw.names)
	}

	rec = serve(t, h, http.MethodPost, "/api/v1/views/missing", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Error != "view_not_found" {
		t.Fatalf("missing view code = %d", rec.Code)
	}
	if len(sw.names) != 1 {
		t.Fatal("switcher called for unknown view")
	}

	rec = serve(t, h, http.MethodGet, "/api/v1/views/play", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET view code = %d", rec.Code)
	}
}

func TestViewSwitchErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{window.ErrClosed, http.StatusServiceUnavailable, "window_closed"},
		{&window.PolicyError{View: "play"}, http.StatusConflict, "policy_conflict"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{errors.New("boom"), http.StatusInternalServerError, "switch_failed"},
	}
	for _, tc := range cases {
		deps, _, _, _, sw := newTestDeps()
		sw.err = tc.err
		h := NewDefaultMux("", APIV1Config{Deps: deps})
		rec := serve(t, h, http.MethodPost, "/api/v1/views/play", "")
		if rec.Code != tc.code {
			t.Errorf("%v: code = %d, want %d", tc.err, rec.Code, tc.code)
			continue
		}
		if got := decodeError(t, rec).Error; got != tc.kind {
			t.Errorf("%v: error = %q, want %q", tc.err, got, tc.kind)
		}
	}
}

func TestRatesRequest(t *testing.T) {
	deps, _, _, rates, _ := newTestDeps()
	h := NewDefaultMux("", APIV1Config{Deps: deps})

	rec := serve(t, h, http.MethodPost, "/api/v1/rates", `{"update_hz": 120}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body.String())
	}
	snap := rates.Snapshot()
	if !snap.NeedsApply || snap.UpdateHz != 120 || snap.DrawHz != 0 {
		t.Fatalf("rates = %+v", snap)
	}

	for _, body := range []string{
		`{"update_hz": -1}`,
		`{"draw_hz": 5000}`,
		`{}`,
		`{"fps": 30}`,
		`not json`,
	} {
		rec := serve(t, h, http.MethodPost, "/api/v1/rates", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: code = %d", body, rec.Code)
		}
	}

	rec = serve(t, h, http.MethodGet, "/api/v1/rates", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET rates code = %d", rec.Code)
	}
}

func TestFrameEndpoint(t *testing.T) {
	deps, _, _, _, _ := newTestDeps()
	h := NewDefaultMux("", APIV1Config{Deps: deps})
	rec := serve(t, h, http.MethodGet, "/api/v1/frame.png", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured frame code = %d", rec.Code)
	}

	deps.Frames = FrameFunc(func(context.Context) ([]byte, error) { return []byte("\x89PNG"), nil })
	h = NewDefaultMux("", APIV1Config{Deps: deps})
	rec = serve(t, h, http.MethodGet, "/api/v1/frame.png", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("frame code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.String() != "\x89PNG" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestEmbeddedUIServed(t *testing.T) {
	h := NewDefaultMux("", APIV1Config{})
	rec := serve(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("index code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "framekit") {
		t.Fatal("index does not look like the UI")
	}
}

func TestStaticDirMissing(t *testing.T) {
	h := NewDefaultMux(t.TempDir()+"/nope", APIV1Config{})
	rec := serve(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestDevCORS(t *testing.T) {
	h := WithDevCORS(NewDefaultMux("", APIV1Config{}))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight code = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,OPTIONS" {
		t.Errorf("allow methods = %q", got)
	}

	// Without an Origin header the request passes through untouched.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET status code = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow origin without Origin = %q", got)
	}
}

func TestHTTPServerStartStop(t *testing.T) {
	deps, _, _, _, _ := newTestDeps()
	s := NewHTTPServer(ServerConfig{ListenAddr: "127.0.0.1:0"}, deps)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get("http://" + s.ListenAddr() + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(ctx); err == nil {
		t.Fatal("restart after stop succeeded")
	}
}
