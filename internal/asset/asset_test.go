package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inamate/drawboard/internal/document"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"small", 10, 5, 10, 5},
		{"wide", 4096, 1024, 2048, 512},
		{"tall", 1000, 3000, 682, 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, data, err := Prepare(bytes.NewReader(pngBytes(t, tt.w, tt.h)), "asset_1", "x.png")
			if err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}
			if !strings.HasPrefix(img.DataURL, "data:image/png;base64,") || len(data) == 0 {
				t.Errorf("unexpected encoding %q", img.DataURL[:min(30, len(img.DataURL))])
			}
		})
	}
}

func TestPrepareRejects(t *testing.T) {
	_, _, err := Prepare(strings.NewReader("just some text"), "asset_1", "notes.txt")
	if !errors.Is(err, ErrUnsupported) || !errors.Is(err, document.ErrUserInput) {
		t.Errorf("text upload error = %v", err)
	}
	truncated := pngBytes(t, 20, 20)[:40]
	if _, _, err := Prepare(bytes.NewReader(truncated), "asset_1", "broken.png"); !errors.Is(err, document.ErrUserInput) {
		t.Errorf("truncated png error = %v", err)
	}
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "red.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(pngBytes(t, 30, 20))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID      string `json:"id"`
		DataURL string `json:"dataUrl"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
		Name    string `json:"name"`
		URL     string `json:"url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Width != 30 || resp.Height != 20 || resp.Name != "red.png" || resp.DataURL == "" {
		t.Errorf("response = %+v", resp)
	}
	if resp.URL != "/assets/"+resp.ID+".png" {
		t.Errorf("url = %q", resp.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, resp.ID+".png")); err != nil {
		t.Errorf("stored file: %v", err)
	}

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Cache-Control"), "immutable") {
		t.Errorf("serve status = %d, cache = %q", rec.Code, rec.Header().Get("Cache-Control"))
	}

	if err := h.Delete(resp.ID); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := h.Delete(resp.ID); err == nil {
		t.Error("second Delete() should fail")
	}
	if err := h.Delete("../etc/passwd"); err == nil {
		t.Error("Delete() accepted a path")
	}
}
