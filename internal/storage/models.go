package storage

import (
	"time"

	"gorm.io/gorm"
)

// 本文件定义服务使用的所有 GORM 模型，集中管理数据结构。

type Post struct {
	ID        string `gorm:"primaryKey;size:36"` // 服务端生成的 UUID
	Name      string `gorm:"size:190"`
	Author    string `gorm:"size:190"`
	Views     int    `gorm:"default:0"` // 创建时恒为 0，客户端不可指定
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"size:190;uniqueIndex"`
	Password  string `gorm:"size:255"` // 已哈希的口令（PHC 字符串），任何接口不得外泄
	CreatedAt time.Time
	UpdatedAt time.Time
}

// autoMigrate 同步上述模型对应的表结构。
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Post{}, &User{})
}
