// 包 view 将文章集合与查询条件投影为页面视图模型（纯函数），
// 并提供终端文本渲染。
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"go-blog-listing/internal/model"
	"go-blog-listing/internal/poststore"
	"go-blog-listing/internal/query"
)

const (
	DefaultCategory = "General"
	DefaultReadTime = "5 min read"
	EmptyText       = "No posts found. Create your first post!"
)

// Card 为单篇文章的展示数据。
type Card struct {
	ID       int64
	Title    string
	Category string
	Date     string
	Byline   string
	ReadTime string
	Content  string
	Image    string
	Tags     []string
}

// Page 为列表页视图模型。
type Page struct {
	Criteria   query.Criteria
	Cards      []Card
	PostCount  int
	Categories []string
	Tags       []string
}

// Empty 表示过滤后没有可显示的文章。
func (p Page) Empty() bool { return len(p.Cards) == 0 }

// Build 由完整集合与查询条件生成视图模型；PostCount 与侧栏始终基于完整集合。
func Build(all []model.Post, c query.Criteria, loc *time.Location) Page {
	shown := query.Apply(all, c)
	page := Page{
		Criteria:   c,
		Cards:      make([]Card, 0, len(shown)),
		PostCount:  len(all),
		Categories: query.DistinctCategories(all),
		Tags:       query.DistinctTags(all),
	}
	for _, p := range shown {
		page.Cards = append(page.Cards, CardOf(p, loc))
	}
	return page
}

// CardOf 生成单篇文章的卡片：缺省分类为 General，缺省阅读时长为 5 min read。
func CardOf(p model.Post, loc *time.Location) Card {
	c := Card{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Date:     FormatDate(p.Date, loc),
		Byline:   "By " + p.Author,
		ReadTime: p.ReadTime,
		Content:  p.Content,
		Image:    p.Image,
		Tags:     p.Tags,
	}
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	if c.ReadTime == "" {
		c.ReadTime = DefaultReadTime
	}
	return c
}

// dateLayouts 为可识别的日期格式：创建时写入的 ISO 时间与示例数据中的英文日期。
var dateLayouts = []string{poststore.ISODate, time.RFC3339Nano, "January 2, 2006"}

// FormatDate 将可识别的日期格式化为 "Jan 2, 2006"（按 loc 时区），否则原样返回。
func FormatDate(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if layout != "January 2, 2006" {
				t = t.In(loc)
			}
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

// WriteText 以表格形式输出页面。
func WriteText(w io.Writer, p Page) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Posts: %d\n", p.PostCount)
	if p.Empty() {
		fmt.Fprintln(tw, EmptyText)
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDATE\tAUTHOR\tREAD\tTAGS")
		for _, c := range p.Cards {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.Title, c.Category, c.Date, strings.TrimPrefix(c.Byline, "By "), c.ReadTime, strings.Join(c.Tags, ", "))
		}
	}
	fmt.Fprintf(tw, "Categories: %s\n", strings.Join(p.Categories, ", "))
	fmt.Fprintf(tw, "Tags: %s\n", strings.Join(p.Tags, ", "))
	return tw.Flush()
}

// WriteCard 输出单篇文章详情。
func WriteCard(w io.Writer, c Card) error {
	_, err := fmt.Fprintf(w, "%s\n%s | %s | %s | %s\n%s\nImage: %s\nTags: %s\n",
		c.Title, c.Category, c.Date, c.Byline, c.ReadTime, c.Content, c.Image, strings.Join(c.Tags, ", "))
	return err
}
