package headers

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	in := []string{"user-agent: Bot", "Accept-Language:de-DE, de;q=0.9", "Cookie: a=b:c"}
	out, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]string{
		"User-Agent":      "Bot",
		"Accept-Language": "de-DE, de;q=0.9",
		"Cookie":          "a=b:c",
	}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"BadHeader", ": value", "Bad Key: v"} {
		if _, err := Parse([]string{in}); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
