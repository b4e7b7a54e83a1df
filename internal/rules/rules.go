// 包 rules 负责加载并提供页面解析规则（rules.yaml），
// 以预设名（如 default/hexo）组织 CSS 选择器，用于从没有订阅的博客列表页抽取文章。
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules 表示全部规则集合：键为预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个主题预设。
type Preset struct {
	PostList *PostList `yaml:"post_list"`
}

// PostList 描述文章列表页的选择器：
// - item：每篇文章的容器
// - title/link/content/image/tags：取文本或属性（支持 a@href / img@src）
// - tags 选中的每个元素各为一个标签
type PostList struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Content string `yaml:"content"`
	Image   string `yaml:"image"`
	Tags    string `yaml:"tags"`
}

// Load 从文件加载 YAML 到 Rules.Presets。
func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules %s: %w", path, err)
	}
	return &r, nil
}

// GetPreset 按名称获取预设（不区分大小写），为空或不存在时回退到 "default"。
func (r *Rules) GetPreset(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = "default"
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, "default") {
			return v, true
		}
	}
	return Preset{}, false
}
