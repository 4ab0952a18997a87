package handlers

// 帖子端点：列表、创建、删除与按 ID 查询。
// 对外形状固定为 Post{id,name,author,views}，存储层的时间戳不外泄。

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogd/internal/metrics"
	"blogd/internal/services"
	"blogd/internal/storage"
)

// Post 是帖子的对外序列化形状。
type Post struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Author string `json:"author"`
	Views  int    `json:"views"`
}

// CreatePost 是创建帖子的请求体；views 不可由客户端指定。
type CreatePost struct {
	Name   string `json:"name"`
	Author string `json:"author"`
}

func toPost(p *storage.Post) Post {
	return Post{ID: p.ID, Name: p.Name, Author: p.Author, Views: p.Views}
}

// listPosts 返回全部帖子（当前契约不分页、不过滤）。
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.postSvc.List(c.Request.Context())
	if err != nil {
		internalError(c, "list posts", err)
		return
	}
	out := make([]Post, 0, len(posts))
	for i := range posts {
		out = append(out, toPost(&posts[i]))
	}
	c.JSON(http.StatusOK, out)
}

// createPost 创建帖子并返回含服务端生成 ID 的完整记录。
func (h *Handler) createPost(c *gin.Context) {
	var req CreatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_json"})
		return
	}
	p, err := h.postSvc.Create(c.Request.Context(), req.Name, req.Author)
	if err != nil {
		internalError(c, "create post", err)
		return
	}
	metrics.PostsCreated.Inc()
	c.JSON(http.StatusOK, toPost(p))
}

// deletePost 删除帖子并返回被删除的记录；不存在时返回 404。
func (h *Handler) deletePost(c *gin.Context) {
	id := c.Param("id")
	p, err := h.postSvc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}
		internalError(c, "delete post", err)
		return
	}
	c.JSON(http.StatusOK, toPost(p))
}

// findPostByID 按唯一标识查询帖子；不存在时返回 404 "Entity not found"。
func (h *Handler) findPostByID(c *gin.Context) {
	id := c.Param("id")
	p, err := h.postSvc.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}
		internalError(c, "find post", err)
		return
	}
	c.JSON(http.StatusOK, toPost(p))
}
