package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Acme Coffee</title><script>var tracking = true;</script></head>
<body>
<nav>Home | Products | Contact</nav>
<h1>Our Coffee Machines</h1>
<p>We build espresso machines for small offices. Every machine ships with a
two year warranty and free maintenance during the first six months.</p>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestScrape_ExtractsCleanText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	page, err := New().Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "Acme Coffee" {
		t.Fatalf("expected title, got %q", page.Title)
	}
	if !strings.Contains(page.Text, "espresso machines") {
		t.Fatalf("expected body content, got %q", page.Text)
	}
	if strings.Contains(page.Text, "Home | Products") {
		t.Fatalf("expected navigation stripped, got %q", page.Text)
	}
	if strings.Contains(page.Text, "Copyright Acme") {
		t.Fatalf("expected footer stripped, got %q", page.Text)
	}
	if strings.Contains(page.Text, "tracking") {
		t.Fatalf("expected scripts stripped, got %q", page.Text)
	}
}

func TestScrape_RejectsThinPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>tiny</p></body></html>"))
	}))
	defer srv.Close()

	if _, err := New().Scrape(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for page without enough content")
	}
}

func TestScrape_RejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := New().Scrape(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestCleanText(t *testing.T) {
	raw := "  first line  \n\n\n   second line\n\t\n"
	if got := cleanText(raw); got != "first line\nsecond line" {
		t.Fatalf("unexpected cleaned text %q", got)
	}
}
