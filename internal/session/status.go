package session

import (
	"sync"
	"time"

	"go-blog-listing/internal/logx"
)

const (
	KindSuccess = "success"
	KindError   = "error"
)

// Timer 为可取消的定时回调（*time.Timer 满足该接口）。
type Timer interface {
	Stop() bool
}

// AfterFunc 与 time.AfterFunc 签名一致，测试中可替换为手动触发的实现。
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Status 为单槽提示消息：显示后经过 ttl 自动清除。
// 新消息会停止上一条的清除定时器，旧定时器即使已触发也不会清除新消息。
type Status struct {
	mu    sync.Mutex
	ttl   time.Duration
	after AfterFunc
	kind  string
	text  string
	seq   uint64
	timer Timer
}

// NewStatus 创建 Status；after 为 nil 时使用 time.AfterFunc。
func NewStatus(ttl time.Duration, after AfterFunc) *Status {
	if after == nil {
		after = stdAfterFunc
	}
	return &Status{ttl: ttl, after: after}
}

// Show 设置消息并安排自动清除。
func (s *Status) Show(kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.kind, s.text = kind, text
	if kind == KindError {
		logx.Warnf("%s", text)
	} else {
		logx.Infof("%s", text)
	}
	if s.ttl <= 0 {
		return
	}
	seq := s.seq
	s.timer = s.after(s.ttl, func() { s.clear(seq) })
}

func (s *Status) clear(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	s.kind, s.text = "", ""
	s.timer = nil
}

// Current 返回当前消息；已清除时 text 为空。
func (s *Status) Current() (kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind, s.text
}
