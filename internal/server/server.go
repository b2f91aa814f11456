// Package server exposes the analysis pipeline over HTTP: uploads in,
// a ZIP of artifacts out.
package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KaramelBytes/plotloom-cli/internal/pipeline"
)

// Handler wires the analysis pipeline into a gin engine.
type Handler struct {
	Pipe *pipeline.Pipeline
}

// NewRouter builds the HTTP engine with the analyze endpoint mounted.
func NewRouter(p *pipeline.Pipeline) *gin.Engine {
	h := &Handler{Pipe: p}
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 64 << 20
	r.POST("/analyze", h.Analyze)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

// Analyze accepts multipart uploads plus form fields:
//
//	files          one or more measurement files
//	signal_names   comma-separated signal list
//	analysis_goals JSON object mapping signal name to goal text
//	use_fallback   truthy string enabling the deterministic fallback
//
// and responds with a ZIP of the produced artifacts. Error artifacts are
// written into the ZIP as inline text entries.
func (h *Handler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one file required"})
		return
	}

	signals := splitList(c.PostForm("signal_names"))
	if len(signals) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signal_names required"})
		return
	}
	goals := map[string]string{}
	if raw := c.PostForm("analysis_goals"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &goals); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("analysis_goals: %v", err)})
			return
		}
	}
	useFallback := truthy(c.PostForm("use_fallback"))

	// Uploads and artifacts live in a per-invocation temp dir; cleanup
	// happens after the response body is written.
	tempDir, err := os.MkdirTemp("", "analysis_"+uuid.NewString()[:8]+"_")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.RemoveAll(tempDir)

	var dataPaths []string
	for _, f := range files {
		dst := filepath.Join(tempDir, filepath.Base(f.Filename))
		if err := c.SaveUploadedFile(f, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		dataPaths = append(dataPaths, dst)
	}

	pairs := make([]pipeline.Pair, 0, len(signals))
	for _, s := range signals {
		pairs = append(pairs, pipeline.Pair{Signal: s, Goal: goals[s]})
	}

	results, err := h.Pipe.Run(c.Request.Context(), pipeline.Request{
		DataPaths:   dataPaths,
		Pairs:       pairs,
		OutputDir:   tempDir,
		UseFallback: useFallback,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	buf, err := zipResults(results)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="analysis_output.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// zipResults bundles artifacts into an in-memory ZIP: file-backed results by
// basename, inline error text as literal entries.
func zipResults(results pipeline.Results) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for name, pathOrText := range results {
		if st, err := os.Stat(pathOrText); err == nil && st.Mode().IsRegular() {
			w, err := zw.Create(filepath.Base(pathOrText))
			if err != nil {
				return nil, fmt.Errorf("zip entry: %w", err)
			}
			data, err := os.ReadFile(pathOrText)
			if err != nil {
				return nil, fmt.Errorf("read artifact: %w", err)
			}
			if _, err := w.Write(data); err != nil {
				return nil, fmt.Errorf("write artifact: %w", err)
			}
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("zip entry: %w", err)
		}
		if _, err := w.Write([]byte(pathOrText)); err != nil {
			return nil, fmt.Errorf("write error text: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
