// 包 poststore 持有文章集合（按创建时间倒序），负责增删改查，
// 并在每次变更后把整个集合作为一个 JSON 值写回键值存储。
package poststore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go-blog-listing/internal/kv"
	"go-blog-listing/internal/logx"
	"go-blog-listing/internal/model"
)

const (
	// DefaultKey 为集合在键值存储中的键名。
	DefaultKey = "blogPosts"
	// Anonymous 为作者留空时的缺省值。
	Anonymous = "Anonymous"
	// ISODate 与浏览器 Date.toISOString 的输出格式一致。
	ISODate = "2006-01-02T15:04:05.000Z"

	wordsPerMinute = 200
)

// ErrNotFound 表示按 id 找不到文章。Update/Delete 返回它时不做任何修改，
// 调用方可用 errors.Is 判断后忽略。
var ErrNotFound = errors.New("post not found")

// StorageError 包装持久化读写失败。
type StorageError struct {
	Op  string // read|write
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Fields 为创建/更新时提交的字段。nil 表示未提交：Create 视为空值，
// Update 保持原值。Tags 为 nil 表示未提交，空切片表示清空。
type Fields struct {
	Title    *string
	Category *string
	Image    *string
	Content  *string
	Author   *string
	Tags     []string
}

// Str 便于构造 Fields。
func Str(s string) *string { return &s }

// Options 为 Store 构造参数。
type Options struct {
	Key  string
	Now  func() time.Time
	Seed []model.Post
}

// Store 为文章集合的唯一数据源。
type Store struct {
	mu     sync.RWMutex
	kv     kv.Store
	key    string
	now    func() time.Time
	seed   []model.Post
	posts  []model.Post
	lastID int64
}

// New 创建 Store；Seed 为 nil 时使用 DefaultPosts。
func New(s kv.Store, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Seed == nil {
		opts.Seed = DefaultPosts()
	}
	return &Store{kv: s, key: opts.Key, now: opts.Now, seed: opts.Seed, posts: []model.Post{}}
}

// Load 读取持久化集合；键不存在、值损坏或读取失败时回退到种子数据。
// 该方法不会失败。
func (s *Store) Load(ctx context.Context) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = s.read(ctx)
	s.lastID = 0
	for _, p := range s.posts {
		if p.ID > s.lastID {
			s.lastID = p.ID
		}
	}
	return cloneAll(s.posts)
}

func (s *Store) read(ctx context.Context) []model.Post {
	b, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		logx.Debugf("未找到已保存的文章，使用默认数据：key=%s", s.key)
		return cloneAll(s.seed)
	}
	if err != nil {
		logx.Warnf("读取文章失败，使用默认数据：%v", &StorageError{Op: "read", Key: s.key, Err: err})
		return cloneAll(s.seed)
	}
	var posts []model.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		logx.Warnf("解析文章失败，使用默认数据：%v", &StorageError{Op: "read", Key: s.key, Err: err})
		return cloneAll(s.seed)
	}
	if posts == nil {
		return cloneAll(s.seed)
	}
	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
	return posts
}

// Create 新建文章并置于集合首位，随后持久化。
// 持久化失败时内存中的集合已更新，返回的 error 为 *StorageError。
func (s *Store) Create(ctx context.Context, f Fields) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	content := deref(f.Content)
	p := model.Post{
		ID:       s.nextID(now),
		Title:    deref(f.Title),
		Category: deref(f.Category),
		Image:    deref(f.Image),
		Content:  content,
		Tags:     CleanTags(f.Tags),
		Author:   authorOr(deref(f.Author)),
		Date:     now.UTC().Format(ISODate),
		ReadTime: ReadTime(content),
	}
	s.posts = append([]model.Post{p}, s.posts...)
	return p.Clone(), s.persist(ctx)
}

// Update 覆盖已提交的字段并刷新 date；readTime 不重新计算。
func (s *Store) Update(ctx context.Context, id int64, f Fields) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Post{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	p := &s.posts[i]
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Image != nil {
		p.Image = *f.Image
	}
	if f.Content != nil {
		p.Content = *f.Content
	}
	if f.Author != nil {
		p.Author = authorOr(*f.Author)
	}
	if f.Tags != nil {
		p.Tags = CleanTags(f.Tags)
	}
	p.Date = s.now().UTC().Format(ISODate)
	return p.Clone(), s.persist(ctx)
}

// Delete 删除指定文章并持久化；不存在时返回 ErrNotFound 且不写存储。
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return s.persist(ctx)
}

// FindByID 返回文章副本。
func (s *Store) FindByID(id int64) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.posts[i].Clone(), true
	}
	return model.Post{}, false
}

// List 返回当前集合的副本（最新在前）。
func (s *Store) List() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.posts)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Persist 将整个集合写到固定键，覆盖旧值。
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	b, err := json.Marshal(s.posts)
	if err != nil {
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	if err := s.kv.Set(ctx, s.key, b); err != nil {
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID 以当前毫秒时间戳为 id；同一毫秒内或时钟回拨时顺延，保证唯一。
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// ParseTags 解析逗号分隔的标签文本："a, b, ,a" -> [a b a]。
func ParseTags(text string) []string {
	return CleanTags(strings.Split(text, ","))
}

// CleanTags 去除首尾空白并丢弃空标签，保留顺序与重复项。
func CleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ReadTime 按每分钟 200 字符估算阅读时长，向上取整。
func ReadTime(content string) string {
	n := utf8.RuneCountInString(content)
	return fmt.Sprintf("%d min read", (n+wordsPerMinute-1)/wordsPerMinute)
}

func authorOr(a string) string {
	if strings.TrimSpace(a) == "" {
		return Anonymous
	}
	return a
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cloneAll(in []model.Post) []model.Post {
	out := make([]model.Post, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
