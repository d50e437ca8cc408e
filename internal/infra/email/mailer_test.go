package email

import (
	"testing"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

func TestRenderSubstitutesURL(t *testing.T) {
	tmpl := config.Template{
		Title: "Verify your email",
		Text:  "Open {{url}} to verify your email address.",
		URL:   "https://example.com/verify",
	}

	title, text, html := Render(tmpl, "tok123")
	if title != "Verify your email" {
		t.Fatalf("unexpected title %q", title)
	}
	if text != "Open https://example.com/verify?token=tok123 to verify your email address." {
		t.Fatalf("unexpected text %q", text)
	}
	if html != "" {
		t.Fatalf("expected empty html, got %q", html)
	}
}

func TestRenderAppendsToExistingQuery(t *testing.T) {
	tmpl := config.Template{
		Text: "{{url}}",
		URL:  "https://example.com/verify?lang=en",
	}

	_, text, _ := Render(tmpl, "tok123")
	if text != "https://example.com/verify?lang=en&token=tok123" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestRenderHTMLBody(t *testing.T) {
	tmpl := config.Template{
		Text: "plain {{url}}",
		HTML: `<a href="{{url}}">verify</a>`,
		URL:  "https://example.com/verify",
	}

	_, _, html := Render(tmpl, "")
	if html != `<a href="https://example.com/verify">verify</a>` {
		t.Fatalf("unexpected html %q", html)
	}
}
