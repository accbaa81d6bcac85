// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"
)

var blockMarkers = []string{
	"/errors/validatecaptcha",
	"api-services-support@amazon.com",
	"robot check",
	"enter the characters you see below",
	"sorry, we just need to make sure you're not a robot",
}

// Blocked reports whether html is a robot-check interstitial rather than a
// product page.
func Blocked(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	// a captcha form with no product title is the generic fallback
	return strings.Contains(lower, "captcha") && !strings.Contains(lower, "producttitle")
}

// ShouldEscalate reports whether a static fetch result warrants a rendered retry.
func ShouldEscalate(status int, html string) bool {
	switch status {
	case 503, 429, 403:
		return true
	}
	return Blocked(html)
}
