// Package config
// @Title  配置定义
// @Description  节点配置结构
// @Author  yr  2024/7/19
// @Update  yr  2026/10/17
package config

import (
	"time"

	"github.com/njtc406/emberqueue/engine/pkg/utils/log"
)

type conf struct {
	NodeConf     *NodeConf       `binding:"required"` // 节点配置
	SystemLogger *log.LoggerConf `binding:"required"` // 系统日志
	WorkerConf   *WorkerConf     `binding:"required"` // 邮箱worker配置
}

type NodeConf struct {
	SystemStatus string `binding:"oneof=debug release"` // 系统状态
	AntsPoolSize int    `binding:"min=0"`               // 每个cpu的协程池大小,0表示不使用协程池
}

// WorkerConf 邮箱配置,MailboxSize受完成位图宽度限制
type WorkerConf struct {
	WorkerNum         int           `binding:"min=1"`        // worker数量
	VirtualWorkerRate int           `binding:"min=1"`        // 哈希环上每个worker的虚拟节点数
	MailboxSize       int           `binding:"min=1,max=64"` // 每个worker的队列容量
	DedupTTL          time.Duration `binding:""`             // 去重记录保留时间,0使用默认值
	DedupCleanTTL     time.Duration `binding:""`             // 去重记录清理间隔
}

func (c *conf) IsDebug() bool {
	return c.NodeConf.SystemStatus == Debug
}
