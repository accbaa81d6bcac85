package product

import (
	"net/url"
	"regexp"
	"strings"
)

// PlaceholderImage stands in for a missing image URL.
const PlaceholderImage = "https://via.placeholder.com/150"

// sizeToken matches a resize/compression token such as "._AC_SX300_.",
// "._SL1500_." or "._AC_UL320_FMwebp_QL65_." sitting between the base name
// and the extension. The token opens with two uppercase letters or digits.
var sizeToken = regexp.MustCompile(`\._[A-Z0-9]{2}[A-Za-z0-9_,-]*\.`)

// HighResImage strips the size token from an asset URL to recover the full
// resolution file. Only the last path segment is rewritten. Empty input and
// the absent marker map to PlaceholderImage.
func HighResImage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AbsentMarker {
		return PlaceholderImage
	}

	// Keep query and fragment untouched
	cut := len(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		cut = i
	}
	head, tail := raw[:cut], raw[cut:]

	slash := strings.LastIndex(head, "/")
	dir, file := head[:slash+1], head[slash+1:]
	return dir + sizeToken.ReplaceAllString(file, ".") + tail
}

// isImageURL reports whether s looks like an absolute image address.
func isImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
