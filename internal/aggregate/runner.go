// 包 aggregate 负责从配置的订阅源导入文章：
// - 并发抓取并解析全部订阅（受 CONCURRENCY.fetch 限制）
// - 按发布时间由旧到新依次写入文章集合，最新的文章最终排在最前
// - 标题已存在的条目跳过
package aggregate

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go-blog-listing/internal/config"
	"go-blog-listing/internal/feeds"
	"go-blog-listing/internal/fetch"
	"go-blog-listing/internal/logx"
	"go-blog-listing/internal/pages"
	"go-blog-listing/internal/poststore"
	"go-blog-listing/internal/rules"
)

// Result 为一次导入的统计。
type Result struct {
	Feeds    int
	Failed   int
	Imported int
	Skipped  int
}

// Runner 导入执行器，持有配置/HTTP 客户端/文章集合。
type Runner struct {
	cfg   *config.Config
	fetch *fetch.Client
	store *poststore.Store
	rules *rules.Rules
}

func New(cfg *config.Config, cl *fetch.Client, s *poststore.Store) *Runner {
	return &Runner{cfg: cfg, fetch: cl, store: s}
}

// WithRules 指定列表页解析规则；未指定时首次遇到 page 来源会从 RULES 路径加载。
func (r *Runner) WithRules(rs *rules.Rules) *Runner {
	r.rules = rs
	return r
}

// parse 按来源类型解析条目。
func (r *Runner) parse(ctx context.Context, src config.Feed) ([]feeds.Item, error) {
	if src.Type != "page" {
		return feeds.ParseFeed(ctx, r.fetch, src.URL, r.cfg.MaxPostsNum)
	}
	if r.rules == nil {
		return nil, fmt.Errorf("no rules loaded for page source")
	}
	preset, ok := r.rules.GetPreset(src.Theme)
	if !ok {
		return nil, fmt.Errorf("rules preset not found: %s", src.Theme)
	}
	return pages.ParsePostsPage(ctx, r.fetch, src.URL, preset, r.cfg.MaxPostsNum)
}

func (r *Runner) loadRules() {
	if r.rules != nil {
		return
	}
	for _, f := range r.cfg.Feeds {
		if f.Type != "page" {
			continue
		}
		rs, err := rules.Load(r.cfg.RulesPath)
		if err != nil {
			logx.Warnf("加载解析规则失败：%v", err)
			return
		}
		r.rules = rs
		return
	}
}

// Run 执行一轮导入。单个订阅失败只记录日志；写入存储失败时立即返回错误。
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{Feeds: len(r.cfg.Feeds)}
	if len(r.cfg.Feeds) == 0 {
		logx.Warnf("未配置任何订阅源（FEEDS）")
		return res, nil
	}
	r.loadRules()
	buf := newBuffer()
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	sem := make(chan struct{}, max(1, r.cfg.Concurrency.Fetch))
	for _, src := range r.cfg.Feeds {
		src := src
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			items, err := r.parse(ctx, src)
			if err != nil {
				logx.Warnf("[%s|%s] 解析来源失败：%v", src.Name, hostOf(src.URL), err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			logx.Infof("[%s|%s] 文章解析完成：%d", src.Name, hostOf(src.URL), len(items))
			buf.add(src, items)
		}()
	}
	wg.Wait()
	res.Failed = failed
	logx.Infof("订阅抓取完成：成功=%d 失败=%d 条目=%d", res.Feeds-failed, failed, buf.size())

	existing := map[string]struct{}{}
	for _, p := range r.store.List() {
		existing[p.Title] = struct{}{}
	}
	for _, e := range buf.snapshot() {
		if e.item.Title == "" {
			res.Skipped++
			continue
		}
		if _, ok := existing[e.item.Title]; ok {
			logx.Debugf("跳过已存在的文章：%s", e.item.Title)
			res.Skipped++
			continue
		}
		if _, err := r.store.Create(ctx, fieldsOf(e)); err != nil {
			return res, fmt.Errorf("import %q: %w", e.item.Title, err)
		}
		existing[e.item.Title] = struct{}{}
		res.Imported++
	}
	return res, nil
}

// fieldsOf 将条目转换为文章字段；订阅配置中的分类/作者/标签作为补充。
func fieldsOf(e entry) poststore.Fields {
	author := e.item.Author
	if author == "" {
		author = e.src.Author
	}
	tags := append(append([]string{}, e.item.Tags...), e.src.Tags...)
	return poststore.Fields{
		Title:    poststore.Str(e.item.Title),
		Category: poststore.Str(e.src.Category),
		Image:    poststore.Str(e.item.Image),
		Content:  poststore.Str(e.item.Content),
		Author:   poststore.Str(author),
		Tags:     tags,
	}
}

// hostOf 提取链接的主机名，失败时做字符串兜底，便于日志定位。
func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if j := strings.IndexAny(s, "/?#"); j >= 0 {
		s = s[:j]
	}
	return s
}
