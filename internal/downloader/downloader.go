// internal/downloader/downloader.go
package downloader

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// sniffLen is how much of a body is read to detect its type.
const sniffLen = 3072

// Result represents the result of a download operation
type Result struct {
	URL         string        `json:"url"`
	FilePath    string        `json:"file_path,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	Size        int64         `json:"size"`
	Success     bool          `json:"success"`
	Error       error         `json:"-"`
	StartTime   time.Time     `json:"start_time"`
	Duration    time.Duration `json:"duration"`
}

// Options configures a Downloader
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Job is one file to fetch. Name is the file stem; the extension comes from
// the content.
type Job struct {
	URL  string
	Name string
}

// Downloader streams files to disk over a retrying HTTP client
type Downloader struct {
	client    *retryablehttp.Client
	userAgent string
}

// NewDownloader creates a new Downloader instance
func NewDownloader(opts Options) *Downloader {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	client.Logger = nil
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	return &Downloader{
		client:    client,
		userAgent: opts.UserAgent,
	}
}

// Download fetches job.URL into outputDir
func (d *Downloader) Download(ctx context.Context, job Job, outputDir string) *Result {
	result := &Result{
		URL:       job.URL,
		StartTime: time.Now(),
	}
	fail := func(err error) *Result {
		result.Error = err
		result.Duration = time.Since(result.StartTime)
		return result
	}

	u, err := url.Parse(job.URL)
	if err != nil || u.Host == "" {
		return fail(fmt.Errorf("invalid URL: %q", job.URL))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("bad status: %s", resp.Status))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fail(fmt.Errorf("failed to read body: %w", err))
	}
	head = head[:n]
	mtype := mimetype.Detect(head)
	result.ContentType = mtype.String()

	stem := job.Name
	if stem == "" {
		stem = strings.TrimSuffix(sanitizeFilename(job.URL), filepath.Ext(u.Path))
	}
	filePath := filepath.Join(outputDir, sanitizeFilename(stem)+extensionFor(mtype, u.Path))
	result.FilePath = filePath

	out, err := os.Create(filePath)
	if err != nil {
		return fail(fmt.Errorf("failed to create file: %w", err))
	}
	defer out.Close()

	written, err := io.Copy(out, io.MultiReader(strings.NewReader(string(head)), resp.Body))
	if err != nil {
		os.Remove(filePath)
		return fail(fmt.Errorf("failed to write file: %w", err))
	}

	result.Size = written
	result.Success = true
	result.Duration = time.Since(result.StartTime)

	log.Debug().
		Str("url", job.URL).
		Str("file", filePath).
		Str("type", result.ContentType).
		Int64("bytes", written).
		Dur("duration", result.Duration).
		Msg("Download completed")

	return result
}

// extensionFor prefers the sniffed extension for images and falls back to
// the one in the URL path.
func extensionFor(mtype *mimetype.MIME, urlPath string) string {
	if strings.HasPrefix(mtype.String(), "image/") && mtype.Extension() != "" {
		return mtype.Extension()
	}
	if ext := filepath.Ext(urlPath); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	if mtype.Extension() != "" {
		return mtype.Extension()
	}
	return ".bin"
}

// ImageJobs names a product's images "<prefix>_1", "<prefix>_2"...
func ImageJobs(prefix string, urls []string) []Job {
	if prefix == "" {
		prefix = "image"
	}
	jobs := make([]Job, 0, len(urls))
	for i, u := range urls {
		jobs = append(jobs, Job{URL: u, Name: fmt.Sprintf("%s_%d", prefix, i+1)})
	}
	return jobs
}

// sanitizeFilename prevents path traversal attacks
func sanitizeFilename(input string) string {
	// Extract filename from URL
	var queryHash string
	if u, err := url.Parse(input); err == nil && u.Host != "" {
		parts := strings.Split(u.Path, "/")
		input = parts[len(parts)-1]
		if u.RawQuery != "" {
			queryHash = "_" + hashString(u.RawQuery)
		}
	}

	input = strings.NewReplacer(
		"/", "_", "\\", "_", "..", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	).Replace(input)
	input = strings.Trim(strings.TrimSpace(input), ".")

	if queryHash != "" {
		ext := filepath.Ext(input)
		input = strings.TrimSuffix(input, ext) + queryHash + ext
	}
	if input == "" {
		input = fmt.Sprintf("download_%d", time.Now().UnixNano())
	}
	if len(input) > 200 {
		input = input[:200]
	}
	return input
}

func hashString(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}
