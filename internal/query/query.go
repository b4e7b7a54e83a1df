// 包 query 提供文章集合的纯函数过滤：全文搜索、按标签、按分类，
// 以及分类/标签去重列表。所有函数不修改输入，结果保持原有相对顺序。
package query

import (
	"strings"

	"go-blog-listing/internal/model"
)

// Criteria 为界面上的查询条件组合。
type Criteria struct {
	Term     string
	Category string
	Tag      string
}

// Apply 按界面行为组合条件：设置了 Tag 时只按标签过滤；
// 只有分类时按分类过滤；否则按 Term+Category 搜索。
func Apply(posts []model.Post, c Criteria) []model.Post {
	switch {
	case c.Tag != "":
		return ByTag(posts, c.Tag)
	case c.Term == "" && c.Category != "":
		return ByCategory(posts, c.Category)
	}
	return Search(posts, c.Term, c.Category)
}

// Search 对标题、正文与标签做不区分大小写的子串匹配（空 term 匹配全部），
// category 非空时还要求分类完全相等。
func Search(posts []model.Post, term, category string) []model.Post {
	term = strings.ToLower(term)
	return filter(posts, func(p model.Post) bool {
		if category != "" && p.Category != category {
			return false
		}
		return term == "" || matchesTerm(p, term)
	})
}

func matchesTerm(p model.Post, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

// ByTag 返回包含该标签的文章。
// 注意：此处区分大小写，与 Search 不同；保持与页面原有行为一致。
func ByTag(posts []model.Post, tag string) []model.Post {
	return filter(posts, func(p model.Post) bool { return p.HasTag(tag) })
}

// ByCategory 返回分类完全相等的文章。
func ByCategory(posts []model.Post, category string) []model.Post {
	return filter(posts, func(p model.Post) bool { return p.Category == category })
}

// DistinctCategories 返回非空分类，按首次出现顺序去重。
func DistinctCategories(posts []model.Post) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range posts {
		out = appendNew(out, seen, p.Category)
	}
	return out
}

// DistinctTags 返回全部标签，按首次出现顺序去重。
func DistinctTags(posts []model.Post) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range posts {
		for _, t := range p.Tags {
			out = appendNew(out, seen, t)
		}
	}
	return out
}

// DistinctAuthors 返回非空作者，按首次出现顺序去重。
func DistinctAuthors(posts []model.Post) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range posts {
		out = appendNew(out, seen, p.Author)
	}
	return out
}

func appendNew(out []string, seen map[string]struct{}, v string) []string {
	if v == "" {
		return out
	}
	if _, ok := seen[v]; ok {
		return out
	}
	seen[v] = struct{}{}
	return append(out, v)
}

func filter(posts []model.Post, keep func(model.Post) bool) []model.Post {
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
