package feeds_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"go-blog-listing/internal/feeds"
	"go-blog-listing/internal/fetch"
)

const rssSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>t</title>
    <link>https://ex</link>
    <item>
      <title> Mountain Lakes </title>
      <link>https://ex/a</link>
      <author>me@ex.org (Mia)</author>
      <category>Nature</category>
      <category> </category>
      <category>Travel</category>
      <description><![CDATA[<p>Calm <b>water</b></p><script>var x=1;</script><img src="https://ex/lake.jpg">]]></description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Second</title>
      <link>https://ex/b</link>
      <enclosure url="https://ex/b.png" length="1" type="image/png"/>
      <description>plain text</description>
    </item>
  </channel>
</rss>`

const atomSample = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example</title>
  <entry>
    <title>Atom-Powered Robots Run Amok</title>
    <updated>2003-12-13T18:30:02Z</updated>
    <author><name>Robo</name></author>
    <link href="http://example.org/2003/12/13/atom03"/>
    <content type="html">&lt;div&gt;Some   text&lt;/div&gt;</content>
  </entry>
</feed>`

func serve(t *testing.T, path, ct, body string) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ct)
		_, _ = w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + path
}

func TestParseFeed_RSS(t *testing.T) {
	u := serve(t, "/rss.xml", "application/rss+xml", rssSample)
	cl, _ := fetch.New(fetch.Options{})
	items, err := feeds.ParseFeed(context.Background(), cl, u, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d", len(items))
	}
	a := items[0]
	if a.Title != "Mountain Lakes" || a.Link != "https://ex/a" {
		t.Fatalf("title/link: %#v", a)
	}
	if a.Content != "Calm water" {
		t.Fatalf("content=%q", a.Content)
	}
	if a.Image != "https://ex/lake.jpg" {
		t.Fatalf("image=%q", a.Image)
	}
	if !reflect.DeepEqual(a.Tags, []string{"Nature", "Travel"}) {
		t.Fatalf("tags=%#v", a.Tags)
	}
	if a.Published.IsZero() {
		t.Fatalf("published not parsed")
	}
	if items[1].Image != "https://ex/b.png" || items[1].Content != "plain text" {
		t.Fatalf("second: %#v", items[1])
	}
}

func TestParseFeed_AtomAndLimit(t *testing.T) {
	u := serve(t, "/atom.xml", "application/atom+xml", atomSample)
	cl, _ := fetch.New(fetch.Options{})
	items, err := feeds.ParseFeed(context.Background(), cl, u, 1)
	if err != nil {
		t.Fatalf("parse atom: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Author != "Robo" || items[0].Content != "Some text" {
		t.Fatalf("item=%#v", items[0])
	}
}

func TestParseFeed_JSONFeed(t *testing.T) {
	u := serve(t, "/feed.json", "application/feed+json",
		`{"version":"https://jsonfeed.org/version/1.1","title":"j","items":[{"id":"1","title":"x","url":"http://e/1","content_html":"<p>hi</p>","tags":["a"]}]}`)
	cl, _ := fetch.New(fetch.Options{})
	items, err := feeds.ParseFeed(context.Background(), cl, u, 0)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(items) != 1 || items[0].Title != "x" || items[0].Content != "hi" {
		t.Fatalf("items=%#v", items)
	}
}

func TestParseFeed_NotAFeed(t *testing.T) {
	u := serve(t, "/page", "text/html", "<html><body>nope</body></html>")
	cl, _ := fetch.New(fetch.Options{})
	if _, err := feeds.ParseFeed(context.Background(), cl, u, 0); err == nil {
		t.Fatalf("expect parse error for html page")
	}
}
