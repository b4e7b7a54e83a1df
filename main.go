// 命令行入口：
// - 解析 flags 与 settings.yaml（支持 BLOG_* 环境变量覆盖）
// - 初始化日志、键值存储、文章集合与会话
// - 执行子命令：浏览/搜索/增删改/导入订阅/导出 data.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go-blog-listing/internal/config"
	"go-blog-listing/internal/kv"
	"go-blog-listing/internal/logx"
	"go-blog-listing/internal/poststore"
	"go-blog-listing/internal/session"
)

func main() {
	configPath := flag.String("config", "settings.yaml", "path to settings.yaml (optional)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config settings.yaml] <command> [args]\n\n%s", os.Args[0], commandHelp)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// 1) 加载配置并初始化日志
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	// 2) 打开存储并加载文章集合
	ctx := context.Background()
	store, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()
	posts := poststore.New(store, poststore.Options{Key: cfg.Storage.Key})
	logx.Debugf("已加载文章：%d 篇", len(posts.Load(ctx)))

	// 3) 执行子命令
	a := &app{
		cfg:   cfg,
		kv:    store,
		posts: posts,
		sess:  session.New(posts, session.NewStatus(cfg.StatusTTL, nil)),
		out:   os.Stdout,
	}
	if err := a.run(ctx, flag.Args()); err != nil {
		logx.Errorf("运行失败：%v", err)
		store.Close()
		os.Exit(1)
	}
}
