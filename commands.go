package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go-blog-listing/internal/aggregate"
	"go-blog-listing/internal/config"
	"go-blog-listing/internal/export"
	"go-blog-listing/internal/fetch"
	"go-blog-listing/internal/kv"
	"go-blog-listing/internal/logx"
	"go-blog-listing/internal/poststore"
	"go-blog-listing/internal/query"
	"go-blog-listing/internal/session"
	"go-blog-listing/internal/view"
)

const commandHelp = `commands:
  list                         show all posts
  search [-q term] [-category c]
  tag <tag>                    posts with the exact tag
  category <category>          posts in the exact category
  show <id>                    one post
  categories | tags            distinct values, first-seen order
  create -title .. [-content ..] [-category ..] [-image ..] [-tags "a, b"] [-author ..]
  update <id> [same flags as create; only given flags change]
  delete <id>
  import                       import posts from FEEDS (feeds and list pages)
  export [-o data.json] [-limit n]
  reset                        drop saved posts, back to the sample posts
`

type app struct {
	cfg   *config.Config
	kv    kv.Store
	posts *poststore.Store
	sess  *session.Session
	out   io.Writer
	loc   *time.Location
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return a.page(query.Criteria{})
	case "search":
		fs := flag.NewFlagSet("search", flag.ContinueOnError)
		term := fs.String("q", "", "free-text term")
		category := fs.String("category", "", "exact category")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return a.page(query.Criteria{Term: *term, Category: *category})
	case "tag":
		v, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		return a.page(query.Criteria{Tag: v})
	case "category":
		v, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		return a.page(query.Criteria{Category: v})
	case "categories":
		return a.lines(query.DistinctCategories(a.posts.List()))
	case "tags":
		return a.lines(query.DistinctTags(a.posts.List()))
	case "show":
		id, _, err := idArg(cmd, rest)
		if err != nil {
			return err
		}
		p, ok := a.posts.FindByID(id)
		if !ok {
			return fmt.Errorf("show %d: %w", id, poststore.ErrNotFound)
		}
		return view.WriteCard(a.out, view.CardOf(p, a.loc))
	case "create":
		return a.create(ctx, rest)
	case "update":
		return a.update(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "import":
		return a.importFeeds(ctx)
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		path := fs.String("o", "data.json", "output path")
		limit := fs.Int("limit", 0, "max posts to export (0 = all)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := export.ToJSON(ctx, a.posts.List(), *limit, *path); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		logx.Infof("已导出 %s", *path)
		return nil
	case "reset":
		if err := a.kv.Delete(ctx, a.cfg.Storage.Key); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		logx.Infof("已清除保存的文章，恢复为示例文章：%d 篇", len(a.posts.Load(ctx)))
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) page(c query.Criteria) error {
	return view.WriteText(a.out, view.Build(a.posts.List(), c, a.loc))
}

func (a *app) lines(vals []string) error {
	for _, v := range vals {
		if _, err := fmt.Fprintln(a.out, v); err != nil {
			return err
		}
	}
	return nil
}

// postFlags 注册表单字段；返回的函数只收集实际传入的 flag。
func postFlags(fs *flag.FlagSet) func() poststore.Fields {
	title := fs.String("title", "", "title")
	category := fs.String("category", "", "category")
	image := fs.String("image", "", "image URL")
	content := fs.String("content", "", "content")
	tags := fs.String("tags", "", "comma-separated tags")
	author := fs.String("author", "", "author (blank = Anonymous)")
	return func() poststore.Fields {
		var f poststore.Fields
		fs.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "title":
				f.Title = title
			case "category":
				f.Category = category
			case "image":
				f.Image = image
			case "content":
				f.Content = content
			case "author":
				f.Author = author
			case "tags":
				f.Tags = poststore.ParseTags(*tags)
			}
		})
		return f
	}
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fields := postFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.sess.OpenCreate()
	p, err := a.sess.Save(ctx, fields())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, p.ID)
	return err
}

func (a *app) update(ctx context.Context, args []string) error {
	id, rest, err := idArg("update", args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fields := postFlags(fs)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if _, err := a.sess.OpenEdit(id); err != nil {
		return err
	}
	_, err = a.sess.Save(ctx, fields())
	return err
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, _, err := idArg("delete", args)
	if err != nil {
		return err
	}
	if _, ok := a.posts.FindByID(id); !ok {
		return fmt.Errorf("delete %d: %w", id, poststore.ErrNotFound)
	}
	a.sess.RequestDelete(id)
	return a.sess.ConfirmDelete(ctx)
}

func (a *app) importFeeds(ctx context.Context) error {
	cl, err := fetch.New(fetch.Options{
		ProxyHTTP:  a.cfg.Proxy.HTTP,
		ProxyHTTPS: a.cfg.Proxy.HTTPS,
		Timeout:    25 * time.Second,
		Retry:      a.cfg.Concurrency.Retry,
	})
	if err != nil {
		return fmt.Errorf("http client: %w", err)
	}
	res, err := aggregate.New(a.cfg, cl, a.posts).Run(ctx)
	if err != nil {
		return err
	}
	logx.Infof("导入完成：订阅=%d 失败=%d 新增=%d 跳过=%d", res.Feeds, res.Failed, res.Imported, res.Skipped)
	if res.Imported > 0 {
		a.sess.Status().Show(session.KindSuccess, fmt.Sprintf("Imported %d posts", res.Imported))
	}
	return nil
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%s: expected exactly one argument", cmd)
	}
	return args[0], nil
}

// idArg 读取首个位置参数作为 id，其余参数原样返回供 flag 解析。
func idArg(cmd string, args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("%s: missing post id", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: invalid post id %q: %w", cmd, args[0], errors.Unwrap(err))
	}
	return id, args[1:], nil
}
