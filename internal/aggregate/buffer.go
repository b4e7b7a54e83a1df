package aggregate

import (
	"sort"
	"sync"

	"go-blog-listing/internal/config"
	"go-blog-listing/internal/feeds"
)

// entry 为待导入条目及其来源。
type entry struct {
	item feeds.Item
	src  config.Feed
}

// buffer 在并发抓取阶段收集条目，按链接去重（无链接时按标题）。
type buffer struct {
	mu      sync.Mutex
	entries map[string]entry
}

func newBuffer() *buffer {
	return &buffer{entries: make(map[string]entry)}
}

func (b *buffer) add(src config.Feed, items []feeds.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range items {
		key := it.Link
		if key == "" {
			key = "title:" + it.Title
		}
		if _, ok := b.entries[key]; ok {
			continue
		}
		b.entries[key] = entry{item: it, src: src}
	}
}

func (b *buffer) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// snapshot 返回按发布时间正序（旧在前）的副本；时间相同按标题排序以保证稳定。
func (b *buffer) snapshot() []entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].item.Published, out[j].item.Published
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].item.Title < out[j].item.Title
	})
	return out
}
