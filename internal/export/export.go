// 包 export 负责将文章集合写为 data.json 快照（含汇总统计）。
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-blog-listing/internal/model"
	"go-blog-listing/internal/query"
)

// Build 生成导出结构；limit > 0 时仅保留前 limit 篇（集合本身为最新在前）。
func Build(posts []model.Post, limit int, now time.Time) model.Export {
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return model.Export{
		Stats: model.Stats{
			PostsTotal: len(posts),
			Categories: query.DistinctCategories(posts),
			Tags:       query.DistinctTags(posts),
			Authors:    query.DistinctAuthors(posts),
			UpdatedAt:  now,
		},
		Posts: posts,
	}
}

// ToJSON 将文章写入 JSON 文件（带缩进格式）。
func ToJSON(ctx context.Context, posts []model.Post, limit int, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := Build(posts, limit, time.Now())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		f.Close()
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
