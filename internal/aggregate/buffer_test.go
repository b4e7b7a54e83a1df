package aggregate

import (
	"testing"
	"time"

	"go-blog-listing/internal/config"
	"go-blog-listing/internal/feeds"
)

func TestBuffer_DedupAndOrder(t *testing.T) {
	b := newBuffer()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.add(config.Feed{Name: "a"}, []feeds.Item{
		{Title: "late", Link: "l1", Published: t0.Add(time.Hour)},
		{Title: "early", Link: "l2", Published: t0},
		{Title: "nolink"},
	})
	b.add(config.Feed{Name: "b"}, []feeds.Item{
		{Title: "late again", Link: "l1", Published: t0.Add(2 * time.Hour)},
		{Title: "nolink"},
	})
	if b.size() != 3 {
		t.Fatalf("size=%d want=3", b.size())
	}
	got := b.snapshot()
	want := []string{"nolink", "early", "late"}
	for i, e := range got {
		if e.item.Title != want[i] {
			t.Fatalf("snapshot[%d]=%q want=%q", i, e.item.Title, want[i])
		}
	}
	if got[2].src.Name != "a" {
		t.Fatalf("first writer should win, got src=%q", got[2].src.Name)
	}
}
