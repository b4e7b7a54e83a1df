package aggregate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go-blog-listing/internal/aggregate"
	"go-blog-listing/internal/config"
	"go-blog-listing/internal/fetch"
	"go-blog-listing/internal/kv"
	"go-blog-listing/internal/poststore"
	"go-blog-listing/internal/rules"
)

func rss(items string) string {
	return `<?xml version="1.0"?><rss version="2.0"><channel><title>c</title><link>/</link>` + items + `</channel></rss>`
}

func TestRun_ImportsOldestFirstAndSkipsExisting(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss(`
        <item><title>newest</title><link>http://ex/new</link><category>go</category><description>&lt;p&gt;fresh&lt;/p&gt;</description><pubDate>Wed, 04 Jan 2006 15:04:05 GMT</pubDate></item>
        <item><title>oldest</title><link>http://ex/old</link><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate></item>`)))
	})
	mux.HandleFunc("/b.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss(`
        <item><title>middle</title><link>http://ex/mid</link><pubDate>Tue, 03 Jan 2006 15:04:05 GMT</pubDate></item>
        <item><title>Technology and Innovation</title><link>http://ex/dup</link></item>`)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	st := poststore.New(kv.NewMemory(), poststore.Options{})
	st.Load(ctx)
	cl, _ := fetch.New(fetch.Options{Timeout: 3 * time.Second})
	cfg := &config.Config{
		Feeds: []config.Feed{
			{Name: "a", URL: srv.URL + "/a.xml", Category: "Blogs", Author: "Feed A", Tags: []string{"imported"}},
			{Name: "b", URL: srv.URL + "/b.xml"},
			{Name: "dead", URL: srv.URL + "/missing.xml"},
		},
		Concurrency: config.Concurrency{Fetch: 2},
	}
	res, err := aggregate.New(cfg, cl, st).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Feeds != 3 || res.Failed != 1 || res.Imported != 3 || res.Skipped != 1 {
		t.Fatalf("result=%+v", res)
	}
	all := st.List()
	var titles []string
	for _, p := range all[:3] {
		titles = append(titles, p.Title)
	}
	if !reflect.DeepEqual(titles, []string{"newest", "middle", "oldest"}) {
		t.Fatalf("order=%v", titles)
	}
	n := all[0]
	if n.Category != "Blogs" || n.Author != "Feed A" || n.Content != "fresh" {
		t.Fatalf("newest=%#v", n)
	}
	if !reflect.DeepEqual(n.Tags, []string{"go", "imported"}) {
		t.Fatalf("tags=%#v", n.Tags)
	}
	if all[1].Author != poststore.Anonymous {
		t.Fatalf("feed b has no author, got %q", all[1].Author)
	}
}

func TestRun_NoFeeds(t *testing.T) {
	st := poststore.New(kv.NewMemory(), poststore.Options{})
	st.Load(context.Background())
	res, err := aggregate.New(&config.Config{}, nil, st).Run(context.Background())
	if err != nil || res.Imported != 0 || st.Len() != 3 {
		t.Fatalf("res=%+v err=%v len=%d", res, err, st.Len())
	}
}

func TestRun_PageSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<ul><li class="p"><a href="/x">From Page</a><p>body</p></li></ul>`))
	}))
	defer srv.Close()

	ctx := context.Background()
	st := poststore.New(kv.NewMemory(), poststore.Options{})
	st.Load(ctx)
	cl, _ := fetch.New(fetch.Options{})
	cfg := &config.Config{
		Feeds: []config.Feed{
			{Name: "page", URL: srv.URL + "/", Type: "page", Theme: "simple", Category: "Notes"},
		},
	}
	rs := &rules.Rules{Presets: map[string]rules.Preset{
		"simple": {PostList: &rules.PostList{Item: "li.p", Title: "a", Link: "a@href", Content: "p"}},
	}}
	res, err := aggregate.New(cfg, cl, st).WithRules(rs).Run(ctx)
	if err != nil || res.Imported != 1 || res.Failed != 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	p := st.List()[0]
	if p.Title != "From Page" || p.Content != "body" || p.Category != "Notes" {
		t.Fatalf("post=%#v", p)
	}
}

func TestRun_PageSourceWithoutRules(t *testing.T) {
	st := poststore.New(kv.NewMemory(), poststore.Options{})
	st.Load(context.Background())
	cfg := &config.Config{
		Feeds:     []config.Feed{{Name: "page", URL: "http://127.0.0.1:1/", Type: "page"}},
		RulesPath: "does-not-exist.yaml",
	}
	cl, _ := fetch.New(fetch.Options{})
	res, err := aggregate.New(cfg, cl, st).Run(context.Background())
	if err != nil || res.Failed != 1 || st.Len() != 3 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}
