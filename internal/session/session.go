// 包 session 保存一次界面会话的状态：正在编辑哪篇文章、待删除哪篇文章，
// 以及保存/删除后的提示消息。状态显式传递，不依赖全局变量。
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-blog-listing/internal/logx"
	"go-blog-listing/internal/model"
	"go-blog-listing/internal/poststore"
)

const (
	MsgSaved   = "Post saved successfully!"
	MsgDeleted = "Post deleted successfully!"
)

// ErrNoDeleteTarget 表示确认删除时没有待删除的文章。
var ErrNoDeleteTarget = errors.New("no delete target")

// Session 为单个界面会话；零值 id 表示"无"。
type Session struct {
	ID     uuid.UUID
	store  *poststore.Store
	status *Status

	editing      int64
	deleteTarget int64
}

func New(store *poststore.Store, status *Status) *Session {
	return &Session{ID: uuid.New(), store: store, status: status}
}

func (s *Session) Status() *Status { return s.status }

// Editing 返回正在编辑的文章 id，新建模式下返回 0,false。
func (s *Session) Editing() (int64, bool) { return s.editing, s.editing != 0 }

// DeleteTarget 返回待删除的文章 id。
func (s *Session) DeleteTarget() (int64, bool) { return s.deleteTarget, s.deleteTarget != 0 }

// OpenCreate 进入新建模式。
func (s *Session) OpenCreate() { s.editing = 0 }

// OpenEdit 进入编辑模式并返回文章当前内容，用于填充表单。
func (s *Session) OpenEdit(id int64) (model.Post, error) {
	p, ok := s.store.FindByID(id)
	if !ok {
		return model.Post{}, fmt.Errorf("edit %d: %w", id, poststore.ErrNotFound)
	}
	s.editing = id
	logx.Debugf("会话 %s 开始编辑文章 %d", s.ID, id)
	return p, nil
}

// Close 关闭表单，退出编辑模式。
func (s *Session) Close() { s.editing = 0 }

// Save 按当前模式新建或更新文章，成功后关闭表单并显示提示。
// 编辑中的文章已被删除时返回 poststore.ErrNotFound。
func (s *Session) Save(ctx context.Context, f poststore.Fields) (model.Post, error) {
	var (
		p   model.Post
		err error
	)
	if s.editing != 0 {
		p, err = s.store.Update(ctx, s.editing, f)
	} else {
		p, err = s.store.Create(ctx, f)
	}
	if err != nil {
		s.status.Show(KindError, fmt.Sprintf("Error saving post: %v", err))
		return p, err
	}
	s.Close()
	s.status.Show(KindSuccess, MsgSaved)
	return p, nil
}

// RequestDelete 标记待删除文章，等待确认。
func (s *Session) RequestDelete(id int64) { s.deleteTarget = id }

// RequestDeleteEditing 将正在编辑的文章标记为待删除。
func (s *Session) RequestDeleteEditing() { s.deleteTarget = s.editing }

// CancelDelete 取消待删除标记。
func (s *Session) CancelDelete() { s.deleteTarget = 0 }

// ConfirmDelete 删除待删除文章，并关闭表单与确认框。
// 文章已不存在时视为成功（与页面行为一致）。
func (s *Session) ConfirmDelete(ctx context.Context) error {
	if s.deleteTarget == 0 {
		return ErrNoDeleteTarget
	}
	id := s.deleteTarget
	err := s.store.Delete(ctx, id)
	if err != nil && !errors.Is(err, poststore.ErrNotFound) {
		s.status.Show(KindError, fmt.Sprintf("Error deleting post: %v", err))
		return err
	}
	s.Close()
	s.CancelDelete()
	s.status.Show(KindSuccess, MsgDeleted)
	return nil
}
