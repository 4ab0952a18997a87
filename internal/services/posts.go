package services

// 帖子服务：提供帖子的查询、创建与删除能力。

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogd/internal/storage"
)

// PostService 提供基础的帖子 CRUD。
type PostService struct{ db *gorm.DB }

func NewPostService(db *gorm.DB) *PostService { return &PostService{db: db} }

// List 返回全部帖子（按存储层自然顺序，当前契约不分页）。
func (s *PostService) List(ctx context.Context) ([]storage.Post, error) {
	var posts []storage.Post
	if err := s.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create 创建帖子；ID 由服务端生成，Views 恒为 0，不接受客户端取值。
func (s *PostService) Create(ctx context.Context, name, author string) (*storage.Post, error) {
	p := &storage.Post{ID: uuid.NewString(), Name: name, Author: author, Views: 0}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID 按唯一标识查询帖子；不存在时返回 ErrNotFound。
func (s *PostService) FindByID(ctx context.Context, id string) (*storage.Post, error) {
	var p storage.Post
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete 删除帖子并返回被删除的记录；不存在时返回 ErrNotFound。
func (s *PostService) Delete(ctx context.Context, id string) (*storage.Post, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&storage.Post{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return p, nil
}
