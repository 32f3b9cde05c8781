package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/shipdash/internal/core"
	"github.com/JonMunkholm/shipdash/internal/render"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daily.csv")
	csv := "Created Date,Tags,Customer Business Name,Vehicle Info,Distance,VIN #\n" +
		"11/12/2025,New,Acme,Civic,100,V1\n" +
		"11/12/2025,Quote,Acme,Civic,50,V2\n" +
		"11/11/2025,Used,Beta,Accord,200,V3\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := core.NewPipeline(core.PipelineOptions{ExcludeTag: "Quote"}).Run(context.Background(), core.Input{Path: path})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	opts := render.DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2025, 11, 12, 18, 0, 0, 0, time.UTC) }
	return NewServer(report, opts)
}

func get(t *testing.T, s *Server, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path        string
		status      int
		contentType string
		bodyPrefix  string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"/report.json", http.StatusOK, "application/json", "{"},
		{"/download/html", http.StatusOK, "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"/download/xlsx", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "PK"},
		{"/download/pdf", http.StatusOK, "application/pdf", "%PDF-"},
		{"/healthz", http.StatusOK, "application/json", "{"},
		{"/download/docx", http.StatusNotFound, "text/plain; charset=utf-8", ""},
		{"/nowhere", http.StatusNotFound, "text/plain; charset=utf-8", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.status, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.bodyPrefix)) {
				t.Errorf("body does not start with %q", tt.bodyPrefix)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers missing")
			}
		})
	}
}

func TestServer_DownloadFileName(t *testing.T) {
	s := newTestServer(t)
	for _, format := range render.Formats() {
		rec := get(t, s, "/download/"+format, nil)
		want := `attachment; filename="shipment_dashboard_2025-11-12.` + format + `"`
		if got := rec.Header().Get("Content-Disposition"); got != want {
			t.Errorf("%s Content-Disposition = %q, want %q", format, got, want)
		}
	}
}

func TestServer_ReportJSON(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/report.json", nil)

	var got struct {
		AsOfDate   time.Time `json:"as_of_date"`
		TotalAll   int       `json:"total_all"`
		TotalToday int       `json:"total_today"`
		RawData    any       `json:"RawData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalAll != 2 || got.TotalToday != 1 {
		t.Errorf("totals = %d/%d, want 1/2", got.TotalToday, got.TotalAll)
	}
	if got.AsOfDate.Format(core.DateFormat) != "2025-11-12" {
		t.Errorf("as_of_date = %v", got.AsOfDate)
	}
	if got.RawData != nil {
		t.Error("raw data leaked into the JSON model")
	}
}

func TestServer_UnknownFormatJSON(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/download/docx", map[string]string{"Accept": "application/json"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "OUT001" {
		t.Errorf("code = %q, want OUT001", resp.Code)
	}
	if resp.Action == "" {
		t.Error("action is empty")
	}
}

func TestServer_NotFoundUsesStatusText(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/nowhere", map[string]string{"Accept": "application/json"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Not Found" {
		t.Errorf("message = %q, want %q", resp.Message, "Not Found")
	}
	if resp.Code != "ERR000" {
		t.Errorf("code = %q, want ERR000", resp.Code)
	}
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/healthz", nil)
	if !strings.Contains(rec.Body.String(), `"as_of_date":"2025-11-12"`) {
		t.Errorf("health body = %s", rec.Body.String())
	}
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	s := newTestServer(t)
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		path   string
		accept string
		want   bool
	}{
		{"/download/x", "", false},
		{"/download/x", "application/json", true},
		{"/report.json", "", true},
		{"/", "text/html", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}
		if got := wantsJSON(req); got != tt.want {
			t.Errorf("wantsJSON(%s, %q) = %v, want %v", tt.path, tt.accept, got, tt.want)
		}
	}
}
