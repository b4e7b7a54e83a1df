package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go-blog-listing/internal/export"
	"go-blog-listing/internal/model"
	"go-blog-listing/internal/poststore"
)

func TestToJSON_WithStats(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data.json")
	posts := poststore.DefaultPosts()
	if err := export.ToJSON(context.Background(), posts, 0, out); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var e model.Export
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Stats.PostsTotal != 3 || !reflect.DeepEqual(e.Posts, posts) {
		t.Fatalf("export mismatch: %+v", e.Stats)
	}
	if !reflect.DeepEqual(e.Stats.Categories, []string{"Travel", "Technology"}) || !reflect.DeepEqual(e.Stats.Authors, []string{"You"}) {
		t.Fatalf("stats=%+v", e.Stats)
	}
}

func TestBuild_LimitKeepsNewest(t *testing.T) {
	var posts []model.Post
	for i := 0; i < 10; i++ {
		posts = append(posts, model.Post{ID: int64(100 - i), Title: "t", Tags: []string{}})
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := export.Build(posts, 4, now)
	if e.Stats.PostsTotal != 4 || e.Posts[0].ID != 100 || e.Posts[3].ID != 97 {
		t.Fatalf("limit not applied from the front: %+v", e.Stats)
	}
	if !e.Stats.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at=%v", e.Stats.UpdatedAt)
	}
	if empty := export.Build(nil, 0, now); empty.Posts == nil {
		t.Fatalf("posts must encode as [] not null")
	}
}
