package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	in := `<div class="x" style="color:red"><script>alert(1)</script><a href="/dp/B1" onclick="x()">Link</a><img src="a.jpg" onerror="y()"><span class="a-expander-prompt">See more</span></div>`
	out, err := CleanHTML(in)
	if err != nil {
		t.Fatalf("CleanHTML failed: %v", err)
	}
	for _, unwanted := range []string{"script", "onclick", "onerror", "style=", "class=", "See more"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("Expected %q to be removed, got %s", unwanted, out)
		}
	}
	if !strings.Contains(out, `href="/dp/B1"`) || !strings.Contains(out, `src="a.jpg"`) {
		t.Errorf("Expected link and image attributes to survive, got %s", out)
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	in := `<ul><li>Long battery life</li><li>See <a href="/gp/help">help</a></li></ul>`
	out, err := HTMLToMarkdown("https://www.amazon.com/dp/B08ABCDEF1", in)
	if err != nil {
		t.Fatalf("HTMLToMarkdown failed: %v", err)
	}
	if !strings.Contains(out, "- Long battery life") {
		t.Errorf("Expected markdown bullet, got %q", out)
	}
	if !strings.Contains(out, "[help](https://www.amazon.com/gp/help)") {
		t.Errorf("Expected resolved link, got %q", out)
	}
}

func TestPrettyHTML(t *testing.T) {
	out, err := PrettyHTML(`<div><p>Hi &amp; bye</p><br></div>`)
	if err != nil {
		t.Fatalf("PrettyHTML failed: %v", err)
	}
	want := "<div>\n  <p>\n    Hi &amp; bye\n  </p>\n  <br>\n</div>\n"
	if out != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"title", "price"}, [][]string{{"Widget, Pro", "$19.99"}}); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := "title,price\n\"Widget, Pro\",$19.99\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := SaveJSON(map[string]string{"url": "https://a.com/?x=1&y=2"}, path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"url": "https://a.com/?x=1&y=2"`) {
		t.Errorf("Expected unescaped indented JSON, got %s", data)
	}
}
