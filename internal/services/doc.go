// Package services 提供应用的领域服务层，封装数据访问与口令哈希等逻辑。
// 该层对 handlers 提供较为稳定的接口，避免在 HTTP 层直接操作数据访问细节。
package services
