package server

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/plotloom-cli/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGen struct {
	code string
}

func (s stubGen) GenerateCode(ctx context.Context, signalName, goal string) (string, error) {
	return s.code, nil
}

func testRouter() *gin.Engine {
	gen := stubGen{code: "figsize(10, 6)\nhistplot(x=signal, bins=auto)\nsubtitle(\"spread\")"}
	return NewRouter(pipeline.New(gen))
}

func multipartBody(t *testing.T, fields map[string]string, fileNames map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for name, content := range fileNames {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return body, mw.FormDataContentType()
}

const sampleCSV = "time,batt_voltage\n0.0,12.1\n0.1,12.3\n0.2,12.2\n0.3,12.5\n0.4,12.4\n"

func TestAnalyze(t *testing.T) {
	body, ctype := multipartBody(t,
		map[string]string{
			"signal_names":   "batt_voltage",
			"analysis_goals": `{"batt_voltage":"distribution of battery voltage"}`,
			"use_fallback":   "true",
		},
		map[string]string{"run_a.csv": sampleCSV},
	)

	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "analysis_output.zip") {
		t.Errorf("content disposition = %q", got)
	}

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["histogram_batt_voltage.png"] {
		t.Errorf("zip missing chart, entries: %v", names)
	}
	if !names["batt_voltage_analysis.txt"] {
		t.Errorf("zip missing report, entries: %v", names)
	}
}

func TestAnalyzeInlineErrorEntries(t *testing.T) {
	body, ctype := multipartBody(t,
		map[string]string{"signal_names": "no_such_signal"},
		map[string]string{"run_a.csv": sampleCSV},
	)

	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	var found bool
	for _, f := range zr.File {
		if f.Name != "no_such_signal_error.txt" {
			continue
		}
		found = true
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry: %v", err)
		}
		text, _ := io.ReadAll(rc)
		rc.Close()
		if len(text) == 0 {
			t.Error("error entry is empty")
		}
	}
	if !found {
		t.Errorf("zip missing error entry")
	}
}

func TestAnalyzeMissingFiles(t *testing.T) {
	body, ctype := multipartBody(t, map[string]string{"signal_names": "batt_voltage"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeMissingSignals(t *testing.T) {
	body, ctype := multipartBody(t, nil, map[string]string{"run_a.csv": sampleCSV})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeBadGoalsJSON(t *testing.T) {
	body, ctype := multipartBody(t,
		map[string]string{"signal_names": "batt_voltage", "analysis_goals": "{not json"},
		map[string]string{"run_a.csv": sampleCSV},
	)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"true", "1", "yes", "on", " TRUE "} {
		if !truthy(s) {
			t.Errorf("truthy(%q) = false", s)
		}
	}
	for _, s := range []string{"", "false", "0", "off", "maybe"} {
		if truthy(s) {
			t.Errorf("truthy(%q) = true", s)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, b ,,c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("splitList = %v", got)
	}
}
