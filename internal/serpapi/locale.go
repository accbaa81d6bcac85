package serpapi

import "strings"

// Locale holds the Google search parameters for one target country.
type Locale struct {
	Country      string `json:"country"`
	Location     string `json:"location"`
	GoogleDomain string `json:"google_domain"`
	GL           string `json:"gl"`
	HL           string `json:"hl"`
}

// Apply copies the locale into a parameter set.
func (l Locale) Apply(p Params) Params {
	if p == nil {
		p = Params{}
	}
	if l.Location != "" {
		p["location"] = l.Location
	}
	if l.GoogleDomain != "" {
		p["google_domain"] = l.GoogleDomain
	}
	if l.GL != "" {
		p["gl"] = l.GL
	}
	hl := l.HL
	if hl == "" {
		hl = "en"
	}
	p["hl"] = hl
	return p
}

// DefaultCountry is used when no country is requested or the name is unknown.
const DefaultCountry = "United States"

var locales = []Locale{
	{Country: "United States", Location: "United States", GoogleDomain: "google.com", GL: "us", HL: "en"},
	{Country: "United Kingdom", Location: "United Kingdom", GoogleDomain: "google.co.uk", GL: "uk", HL: "en"},
	{Country: "Bangladesh", Location: "Bangladesh", GoogleDomain: "google.com.bd", GL: "bd", HL: "en"},
	{Country: "India", Location: "India", GoogleDomain: "google.co.in", GL: "in", HL: "en"},
	{Country: "Canada", Location: "Canada", GoogleDomain: "google.ca", GL: "ca", HL: "en"},
	{Country: "Australia", Location: "Australia", GoogleDomain: "google.com.au", GL: "au", HL: "en"},
	{Country: "Germany", Location: "Germany", GoogleDomain: "google.de", GL: "de", HL: "en"},
}

// Countries lists the supported country names in display order.
func Countries() []string {
	names := make([]string, 0, len(locales))
	for _, l := range locales {
		names = append(names, l.Country)
	}
	return names
}

// LocaleFor returns the locale for a country name or its two letter code.
// Unknown names fall back to the United States locale and ok is false.
func LocaleFor(country string) (Locale, bool) {
	c := strings.TrimSpace(country)
	if c == "" {
		return locales[0], false
	}
	for _, l := range locales {
		if strings.EqualFold(l.Country, c) || strings.EqualFold(l.GL, c) {
			return l, true
		}
	}
	// "gb" is the ISO code people type for the UK
	if strings.EqualFold(c, "gb") {
		return locales[1], true
	}
	return locales[0], false
}
