package services

import "errors"

// 服务层统一的错误语义，handlers 依据这两个哨兵值决定响应状态码，
// 不直接感知 GORM / 驱动层错误。
var (
	ErrNotFound       = errors.New("entity not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
