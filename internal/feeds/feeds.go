// 包 feeds 负责订阅解析：
// - 使用 gofeed 解析 RSS/Atom/JSON Feed
// - 使用 goquery 将条目 HTML 正文转为纯文本，并提取首张图片
package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"go-blog-listing/internal/fetch"
)

// Item 为解析后的条目（供上层转换为文章）。
type Item struct {
	Title     string
	Link      string
	Content   string
	Image     string
	Author    string
	Tags      []string
	Published time.Time
}

// ParseFeed 抓取并解析订阅，最多返回 max 条（0 表示不限制），保持订阅中的顺序。
func ParseFeed(ctx context.Context, cl *fetch.Client, feedURL string, max int) ([]Item, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()
	resp, err := cl.Get(reqCtx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("GET feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, toItem(it))
		if max > 0 && len(items) >= max {
			break
		}
	}
	return items, nil
}

func toItem(it *gofeed.Item) Item {
	body := it.Content
	if strings.TrimSpace(body) == "" {
		body = it.Description
	}
	item := Item{
		Title:     strings.TrimSpace(it.Title),
		Link:      strings.TrimSpace(it.Link),
		Content:   htmlText(body),
		Image:     imageOf(it, body),
		Author:    authorName(it),
		Published: pickTime(it.PublishedParsed, it.UpdatedParsed),
	}
	for _, c := range it.Categories {
		if c = strings.TrimSpace(c); c != "" {
			item.Tags = append(item.Tags, c)
		}
	}
	return item
}

// imageOf 依次尝试条目图片、图片类附件、正文中的首个 <img>。
func imageOf(it *gofeed.Item, body string) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return firstImage(body)
}

// htmlText 去掉标签与脚本/样式，压缩空白。
func htmlText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func firstImage(s string) string {
	if !strings.Contains(s, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

func authorName(it *gofeed.Item) string {
	people := it.Authors
	if it.Author != nil {
		people = append([]*gofeed.Person{it.Author}, people...)
	}
	for _, p := range people {
		if p == nil {
			continue
		}
		if p.Name != "" {
			return p.Name
		}
		if p.Email != "" {
			return p.Email
		}
	}
	return ""
}

func pickTime(a, b *time.Time) time.Time {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return time.Time{}
}
