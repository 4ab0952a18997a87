package services

// 用户服务：提供分页查询与创建（口令哈希）能力。

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"blogd/internal/storage"
	"blogd/internal/utils"
)

// UserService 提供用户的分页查询与创建。
type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

// List 按 skip = limit * page 计算偏移并取至多 limit 条记录。
// 该偏移公式沿用既有对外契约：page 自 0 起算。
func (s *UserService) List(ctx context.Context, page, limit int) ([]storage.User, error) {
	skip := limit * page
	var users []storage.User
	if err := s.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create 以 Argon2id 哈希口令后持久化用户，明文口令不落库。
// 邮箱唯一索引冲突映射为 ErrDuplicateEmail。
func (s *UserService) Create(ctx context.Context, email, password string) (*storage.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &storage.User{Email: email, Password: hash}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}
