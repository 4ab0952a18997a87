package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"blogd/internal/config"
	"blogd/internal/metrics"
	"blogd/internal/storage"
)

// PostStore 是帖子服务对 HTTP 层暴露的最小接口（便于测试替换）。
type PostStore interface {
	List(ctx context.Context) ([]storage.Post, error)
	Create(ctx context.Context, name, author string) (*storage.Post, error)
	FindByID(ctx context.Context, id string) (*storage.Post, error)
	Delete(ctx context.Context, id string) (*storage.Post, error)
}

// UserStore 是用户服务对 HTTP 层暴露的最小接口。
type UserStore interface {
	List(ctx context.Context, page, limit int) ([]storage.User, error)
	Create(ctx context.Context, email, password string) (*storage.User, error)
}

// Handler 聚合所有依赖（配置、服务）并注册所有 HTTP 路由。
type Handler struct {
	cfg     config.Config
	postSvc PostStore
	userSvc UserStore
}

// New 构造 Handler，将各领域服务注入，用于后续路由注册与处理。
func New(cfg config.Config, ps PostStore, us UserStore) *Handler {
	return &Handler{cfg: cfg, postSvc: ps, userSvc: us}
}

// RegisterRoutes 在 Gin 路由上挂载服务的全部端点。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 探活与回显
	r.GET("/", h.root)
	r.POST("/echo", h.echo)

	// 帖子：列表/创建/删除共用资源路径，按方法区分；按 ID 查询为独立路径
	r.GET("/posts", h.listPosts)
	r.POST("/posts", h.createPost)
	r.DELETE("/posts/:id", h.deletePost)
	r.GET("/posts/id/:id", h.findPostByID)

	// 用户：分页列表与创建
	r.GET("/users", h.listUsers)
	r.POST("/user", h.createUser)

	// 运维端点
	r.GET("/metrics", h.metrics)
	r.GET("/healthz", h.healthz)
}

// root 固定返回运行状态文本。
func (h *Handler) root(c *gin.Context) {
	c.String(http.StatusOK, "Server is running successfully")
}

// echo 将请求体原样回写（逐字节一致）。
func (h *Handler) echo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_body"})
		return
	}
	ct := c.ContentType()
	if ct == "" {
		ct = "text/plain"
	}
	c.Data(http.StatusOK, ct, body)
}

func (h *Handler) metrics(c *gin.Context) { metrics.Exposer()(c) }

func (h *Handler) healthz(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

// internalError 记录真实错误并返回不泄露内部细节的 500 响应。
func internalError(c *gin.Context, op string, err error) {
	log.WithError(err).WithField("op", op).Error("store operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
