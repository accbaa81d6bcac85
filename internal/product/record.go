package product

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// AbsentMarker is how an absent field is displayed.
	AbsentMarker = "N/A"
	// PriceFallback is shown in place of an absent price.
	PriceFallback = "Check on Amazon"
	// MaxDescriptionRunes caps Record.Description.
	MaxDescriptionRunes = 500
)

// Field is an optional scalar value. The zero value is absent.
type Field struct {
	Value string
	Valid bool
}

// Some returns a present field, or an absent one when v is blank or the
// absent marker itself.
func Some(v string) Field {
	v = strings.TrimSpace(v)
	if v == "" || v == AbsentMarker {
		return Field{}
	}
	return Field{Value: v, Valid: true}
}

// None returns an absent field.
func None() Field {
	return Field{}
}

// String returns the value or AbsentMarker.
func (f Field) String() string {
	if !f.Valid {
		return AbsentMarker
	}
	return f.Value
}

// Or returns the value, or def when absent.
func (f Field) Or(def string) string {
	if !f.Valid {
		return def
	}
	return f.Value
}

// MarshalJSON encodes an absent field as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON accepts null or a string.
func (f *Field) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Some(s)
	return nil
}

// Record is a normalized product. A Record is built by one strategy and is
// not modified after Resolve returns it.
type Record struct {
	Code        string   `json:"code,omitempty"`
	URL         string   `json:"url"`
	Marketplace string   `json:"marketplace"`
	Title       Field    `json:"title"`
	Price       Field    `json:"price"`
	Rating      Field    `json:"rating"`
	Reviews     Field    `json:"reviews"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	SourceTier  string   `json:"source_tier"`
}

func newRecord(q Query) *Record {
	return &Record{
		Code:        q.Code,
		URL:         q.URL,
		Marketplace: q.Marketplace.Domain,
		Images:      []string{},
	}
}

// AddImage normalizes raw and appends it unless it is empty or already
// present. Discovery order is preserved.
func (r *Record) AddImage(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AbsentMarker {
		return
	}
	img := HighResImage(raw)
	for _, existing := range r.Images {
		if existing == img {
			return
		}
	}
	r.Images = append(r.Images, img)
}

// SetDescription stores s trimmed and capped at MaxDescriptionRunes.
func (r *Record) SetDescription(s string) {
	r.Description = truncateRunes(strings.TrimSpace(s), MaxDescriptionRunes)
}

// PrimaryImage returns the first image or the placeholder.
func (r *Record) PrimaryImage() string {
	if len(r.Images) == 0 {
		return PlaceholderImage
	}
	return r.Images[0]
}

// DisplayPrice returns the price or PriceFallback.
func (r *Record) DisplayPrice() string {
	return r.Price.Or(PriceFallback)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

// Outcome is the result of one strategy attempt.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Attempt records what one strategy did during a resolution.
type Attempt struct {
	Strategy string        `json:"strategy"`
	Tier     int           `json:"tier"`
	Outcome  Outcome       `json:"outcome"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Diagnostics is the ordered trail of attempts for one resolution.
type Diagnostics []Attempt

// Summary joins every unsuccessful attempt as "strategy: reason" with " | ".
func (d Diagnostics) Summary() string {
	parts := make([]string, 0, len(d))
	for _, a := range d {
		if a.Outcome == OutcomeSucceeded {
			continue
		}
		reason := a.Reason
		if a.Outcome == OutcomeSkipped {
			reason = "skipped: " + reason
		}
		parts = append(parts, a.Strategy+": "+reason)
	}
	return strings.Join(parts, " | ")
}

// Failed returns the attempts that ran and failed.
func (d Diagnostics) Failed() Diagnostics {
	var out Diagnostics
	for _, a := range d {
		if a.Outcome == OutcomeFailed {
			out = append(out, a)
		}
	}
	return out
}
