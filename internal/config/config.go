// 包 config 负责加载与校验应用配置（settings.yaml），
// 支持 BLOG_* 环境变量覆盖，对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultQuota 与浏览器本地存储的常见上限一致（5 MiB）。
const DefaultQuota = 5 << 20

type Config struct {
	Storage     Storage       `yaml:"STORAGE"`
	StatusTTL   time.Duration `yaml:"STATUS_TTL" env:"BLOG_STATUS_TTL"`
	Feeds       []Feed        `yaml:"FEEDS"`
	RulesPath   string        `yaml:"RULES" env:"BLOG_RULES"`
	MaxPostsNum int           `yaml:"MAX_POSTS_NUM" env:"BLOG_MAX_POSTS_NUM"`
	Concurrency Concurrency   `yaml:"CONCURRENCY"`
	Proxy       Proxy         `yaml:"PROXY"`
	LogLevel    string        `yaml:"LOG_LEVEL" env:"BLOG_LOG_LEVEL"`
	LogFormat   string        `yaml:"LOG_FORMAT" env:"BLOG_LOG_FORMAT"` // text|json|pretty
	LogLocale   string        `yaml:"LOG_LOCALE" env:"BLOG_LOG_LOCALE"` // zh-CN|en
	LogColor    string        `yaml:"LOG_COLOR" env:"BLOG_LOG_COLOR"`   // auto|always|never
}

type Storage struct {
	Type       string `yaml:"type" env:"BLOG_STORAGE_TYPE"` // sqlite|redis|memory
	DSN        string `yaml:"dsn" env:"BLOG_STORAGE_DSN"`   // ./blog.db
	Addr       string `yaml:"addr" env:"BLOG_STORAGE_ADDR"` // localhost:6379
	Key        string `yaml:"key" env:"BLOG_STORAGE_KEY"`   // blogPosts
	QuotaBytes int    `yaml:"quota_bytes" env:"BLOG_STORAGE_QUOTA_BYTES"`
}

// Feed 为一个导入来源；Category/Author/Tags 作为导入文章的缺省值。
// Type 为 page 时按 Theme 对应的 rules.yaml 预设解析文章列表页。
type Feed struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Type     string   `yaml:"type"` // feed|page
	Theme    string   `yaml:"theme"`
	Category string   `yaml:"category"`
	Author   string   `yaml:"author"`
	Tags     []string `yaml:"tags"`
}

type Concurrency struct {
	Fetch int `yaml:"fetch" env:"BLOG_CONCURRENCY_FETCH"`
	Retry int `yaml:"retry" env:"BLOG_CONCURRENCY_RETRY"`
}

type Proxy struct {
	HTTP  string `yaml:"http" env:"BLOG_PROXY_HTTP"`
	HTTPS string `yaml:"https" env:"BLOG_PROXY_HTTPS"`
}

// Load 读取 YAML，叠加环境变量，再校验并填充默认值。
// path 指向的文件不存在时仅使用默认值与环境变量。
func Load(path string) (*Config, error) {
	var c Config
	c.Storage.QuotaBytes = DefaultQuota
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return b, nil
}

// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
func (c *Config) Validate() error {
	if c.MaxPostsNum < 0 {
		return errors.New("MAX_POSTS_NUM must be >= 0")
	}
	if c.Storage.QuotaBytes < 0 {
		return errors.New("STORAGE.quota_bytes must be >= 0")
	}
	if c.StatusTTL < 0 {
		return errors.New("STATUS_TTL must be >= 0")
	}
	if c.StatusTTL == 0 {
		c.StatusTTL = 3 * time.Second
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "sqlite"
	}
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.DSN == "" {
			c.Storage.DSN = "./blog.db"
		}
	case "redis":
		if c.Storage.Addr == "" {
			c.Storage.Addr = "localhost:6379"
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.Key == "" {
		c.Storage.Key = "blogPosts"
	}
	for i := range c.Feeds {
		f := &c.Feeds[i]
		if f.URL == "" {
			return fmt.Errorf("FEEDS[%d].url required", i)
		}
		if f.Type == "" {
			f.Type = "feed"
		}
		if f.Type != "feed" && f.Type != "page" {
			return fmt.Errorf("FEEDS[%d].type unsupported: %s", i, f.Type)
		}
	}
	if c.RulesPath == "" {
		c.RulesPath = "rules.yaml"
	}
	if c.Concurrency.Fetch <= 0 {
		c.Concurrency.Fetch = 4
	}
	if c.Concurrency.Retry < 0 {
		c.Concurrency.Retry = 2
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}
