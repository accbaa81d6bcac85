package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func testDownloader() *Downloader {
	return NewDownloader(Options{
		Timeout:      5 * time.Second,
		UserAgent:    "Test/1.0",
		Retries:      2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
}

func TestDownload_SniffsImageExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "Test/1.0" {
			t.Errorf("Expected User-Agent Test/1.0, got %s", r.Header.Get("User-Agent"))
		}
		w.Write(pngHeader)
	}))
	defer server.Close()

	dir := t.TempDir()
	result := testDownloader().Download(context.Background(), Job{URL: server.URL + "/images/I/abc", Name: "B08N5WRWNW_1"}, dir)
	if !result.Success {
		t.Fatalf("Download failed: %v", result.Error)
	}
	if want := filepath.Join(dir, "B08N5WRWNW_1.png"); result.FilePath != want {
		t.Errorf("Expected %s, got %s", want, result.FilePath)
	}
	if result.ContentType != "image/png" {
		t.Errorf("Expected image/png, got %s", result.ContentType)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != string(pngHeader) || result.Size != int64(len(pngHeader)) {
		t.Errorf("Content mismatch: got %d bytes", len(data))
	}
}

func TestDownload_URLExtensionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain notes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	result := testDownloader().Download(context.Background(), Job{URL: server.URL + "/files/notes.txt"}, dir)
	if !result.Success {
		t.Fatalf("Download failed: %v", result.Error)
	}
	if filepath.Base(result.FilePath) != "notes.txt" {
		t.Errorf("Expected notes.txt, got %s", filepath.Base(result.FilePath))
	}
}

func TestDownload_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(pngHeader)
	}))
	defer server.Close()

	result := testDownloader().Download(context.Background(), Job{URL: server.URL + "/a.png"}, t.TempDir())
	if !result.Success {
		t.Fatalf("Download failed: %v", result.Error)
	}
	if hits.Load() != 2 {
		t.Errorf("Expected 2 requests, got %d", hits.Load())
	}
}

func TestDownload_Failures(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	d := testDownloader()
	if r := d.Download(context.Background(), Job{URL: server.URL + "/missing.jpg"}, t.TempDir()); r.Success || r.Error == nil {
		t.Error("Expected failure for 404")
	}
	if r := d.Download(context.Background(), Job{URL: "not a url"}, t.TempDir()); r.Success || r.Error == nil {
		t.Error("Expected failure for invalid URL")
	}
}

func TestSanitizeFilename_Security(t *testing.T) {
	dangerous := []string{
		"../../etc/passwd",
		"/etc/shadow",
		"file:with:colons",
	}

	for _, input := range dangerous {
		t.Run(input, func(t *testing.T) {
			result := sanitizeFilename(input)
			if strings.Contains(result, "/") || strings.Contains(result, "\\") {
				t.Errorf("Sanitized filename contains path separator: %q", result)
			}
			if strings.Contains(result, "..") {
				t.Errorf("Sanitized filename contains '..': %q", result)
			}
		})
	}

	a := sanitizeFilename("https://x.example/img.jpg?v=1")
	b := sanitizeFilename("https://x.example/img.jpg?v=2")
	if a == b || !strings.HasSuffix(a, ".jpg") {
		t.Errorf("Expected distinct names keeping the extension, got %q and %q", a, b)
	}
}

func TestImageJobs(t *testing.T) {
	jobs := ImageJobs("B0", []string{"u1", "u2"})
	if len(jobs) != 2 || jobs[1].Name != "B0_2" || jobs[0].URL != "u1" {
		t.Errorf("Unexpected jobs %+v", jobs)
	}
}

func TestWorkerPool_Ordered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "1.png") {
			time.Sleep(20 * time.Millisecond)
		}
		w.Write(pngHeader)
	}))
	defer server.Close()

	urls := []string{server.URL + "/1.png", server.URL + "/2.png", server.URL + "/3.png"}
	pool := NewWorkerPool(2, testDownloader())

	var mu sync.Mutex
	done := 0
	pool.OnDone = func(*Result) {
		mu.Lock()
		done++
		mu.Unlock()
	}

	results := pool.DownloadBatch(context.Background(), ImageJobs("p", urls), t.TempDir())
	if len(results) != len(urls) {
		t.Fatalf("Result count mismatch: got %d, want %d", len(results), len(urls))
	}
	for i, r := range results {
		if !r.Success {
			t.Errorf("Download %d failed: %v", i, r.Error)
		}
		if r.URL != urls[i] {
			t.Errorf("Expected result %d for %s, got %s", i, urls[i], r.URL)
		}
	}
	if done != len(urls) {
		t.Errorf("Expected OnDone %d times, got %d", len(urls), done)
	}
}

func TestWorkerPool_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool(1, testDownloader())
	results := pool.DownloadBatch(ctx, ImageJobs("p", []string{"http://127.0.0.1:1/a", "http://127.0.0.1:1/b"}), t.TempDir())
	for _, r := range results {
		if r == nil || r.Success {
			t.Errorf("Expected failed result after cancellation, got %+v", r)
		}
	}
}
