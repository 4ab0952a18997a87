package handlers

// 用户端点：分页列表与创建。
// 对外形状固定为 UserDto{id,email}，口令哈希在任何读取路径都不序列化。

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogd/internal/metrics"
	"blogd/internal/services"
	"blogd/internal/storage"
)

// UserDto 是用户的对外序列化形状（不含口令字段）。
type UserDto struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// CreateUser 是创建用户的请求体；password 仅用于生成哈希，不回显。
type CreateUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PaginationDto 是分页查询参数。两项必填：page >= 0，0 < limit <= 上限。
type PaginationDto struct {
	Page  *int `form:"page"`
	Limit *int `form:"limit"`
}

func toUserDto(u *storage.User) UserDto {
	return UserDto{ID: u.ID, Email: u.Email}
}

// listUsers 按 skip = limit * page 返回一页用户。
func (h *Handler) listUsers(c *gin.Context) {
	var q PaginationDto
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_query"})
		return
	}
	if q.Page == nil || q.Limit == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit are required"})
		return
	}
	if *q.Page < 0 || *q.Limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 0 and limit > 0"})
		return
	}
	if max := h.cfg.Limits.MaxPageSize; max > 0 && *q.Limit > max {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit too large"})
		return
	}
	users, err := h.userSvc.List(c.Request.Context(), *q.Page, *q.Limit)
	if err != nil {
		internalError(c, "list users", err)
		return
	}
	out := make([]UserDto, 0, len(users))
	for i := range users {
		out = append(out, toUserDto(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// createUser 创建用户：服务层生成随机盐并做 Argon2id 哈希后落库。
// 存储失败统一返回不含内部细节的 500；邮箱冲突返回 409。
func (h *Handler) createUser(c *gin.Context) {
	var req CreateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_json"})
		return
	}
	u, err := h.userSvc.Create(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		internalError(c, "create user", err)
		return
	}
	metrics.UsersCreated.Inc()
	c.JSON(http.StatusCreated, toUserDto(u))
}
