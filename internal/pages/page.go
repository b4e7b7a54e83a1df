// 包 pages 提供博客列表页解析：
// - 依据 rules.yaml 预设的 CSS 选择器获取标题/链接/摘要/图片/标签
// - 支持 "选择器@属性" 以及 "||" 多方案回退与相对 URL 绝对化
package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-blog-listing/internal/feeds"
	"go-blog-listing/internal/fetch"
	"go-blog-listing/internal/rules"
)

// ParsePostsPage 按预设从列表页抽取文章条目，最多 limit 条（0 表示不限制）。
// 规则语法：
// - 文本：".title" 或 "."（取当前项文本）
// - 属性："a@href"/"img@src"/"@href"（当前项属性）
// - 回退：使用 "||" 连接多个候选，按先后尝试
func ParsePostsPage(ctx context.Context, cl *fetch.Client, pageURL string, preset rules.Preset, limit int) ([]feeds.Item, error) {
	if preset.PostList == nil {
		return nil, fmt.Errorf("no post_list rule for %s", pageURL)
	}
	resp, err := cl.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("GET posts page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("parse posts page html: %w", err)
	}
	pl := preset.PostList
	var out []feeds.Item
	doc.Find(pl.Item).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := getVal(s, pl.Title)
		if title == "" {
			return true
		}
		it := feeds.Item{
			Title:   title,
			Link:    abs(pageURL, getVal(s, pl.Link)),
			Content: strings.Join(strings.Fields(getVal(s, pl.Content)), " "),
			Image:   abs(pageURL, getVal(s, pl.Image)),
		}
		if pl.Tags != "" {
			s.Find(pl.Tags).Each(func(_ int, t *goquery.Selection) {
				if v := strings.TrimSpace(t.Text()); v != "" {
					it.Tags = append(it.Tags, v)
				}
			})
		}
		out = append(out, it)
		return limit <= 0 || len(out) < limit
	})
	return out, nil
}

// getVal 解析表达式并支持使用 "||" 作为回退分隔，例如 "a@href||@href"。
func getVal(scope *goquery.Selection, expr string) string {
	for _, p := range strings.Split(expr, "||") {
		if v := getValSingle(scope, strings.TrimSpace(p)); v != "" {
			return v
		}
	}
	return ""
}

// getValSingle 解析单个表达式：文本或属性读取。
func getValSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	if at := strings.Index(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		el := scope
		if sel != "" {
			el = scope.Find(sel).First()
		}
		val, _ := el.Attr(attr)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(scope.Find(expr).First().Text())
}

// abs 将相对链接转换为绝对 URL。
func abs(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}
