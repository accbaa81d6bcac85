package models

import "time"

// Page is a fetched product page.
type Page struct {
	URL          string            `json:"url"`
	FinalURL     string            `json:"final_url,omitempty"`
	StatusCode   int               `json:"status_code"`
	HTML         string            `json:"html,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Renderer     string            `json:"renderer"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
}

// RenderMode selects how product pages are fetched.
type RenderMode string

const (
	// RenderAuto fetches statically and escalates to the browser when blocked.
	RenderAuto RenderMode = "auto"
	// RenderStatic only uses plain HTTP.
	RenderStatic RenderMode = "static"
	// RenderBrowser always uses headless Chrome.
	RenderBrowser RenderMode = "browser"
)

// RequestOptions describes one page fetch.
type RequestOptions struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
	// WaitSelector is awaited by the browser fetcher before capturing HTML.
	WaitSelector string
}
