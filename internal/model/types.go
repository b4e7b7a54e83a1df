// 包 model 定义博客文章及导出的数据模型。
package model

import "time"

// Post 为一篇博客文章；JSON 字段与持久化格式保持一致。
type Post struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Image    string   `json:"image"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author"`
	Category string   `json:"category,omitempty"`
	ReadTime string   `json:"readTime,omitempty"`
}

// Clone 返回深拷贝（tags 切片独立）。
func (p Post) Clone() Post {
	cp := p
	cp.Tags = make([]string, len(p.Tags))
	copy(cp.Tags, p.Tags)
	return cp
}

// HasTag 精确（区分大小写）判断是否包含标签。
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Stats 为导出时的汇总统计。
type Stats struct {
	PostsTotal int       `json:"posts_total"`
	Categories []string  `json:"categories"`
	Tags       []string  `json:"tags"`
	Authors    []string  `json:"authors"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Export 为 data.json 顶层结构。
type Export struct {
	Stats Stats  `json:"stats"`
	Posts []Post `json:"posts"`
}
