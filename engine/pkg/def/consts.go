// Package def
// @Title  常量定义
// @Description  desc
// @Author  yr  2024/11/6
// @Update  yr  2026/10/17
package def

import "time"

const (
	PriorityUser int32 = iota // 普通消息,挂起时拒绝
	PrioritySys               // 系统消息,挂起时仍然投递
)

const (
	DefaultMailboxSize       = 64 // 默认邮箱大小(上限64,由完成位图宽度决定)
	DefaultWorkerNum         = 1  // 默认协程数量
	DefaultVirtualWorkerRate = 10 // 虚拟worker比率
	DefaultAntsPoolSize      = 100
)

const (
	DefaultDeDuplicatorTTL      = 30 * time.Second
	DefaultDeDuplicatorCleanTTL = 90 * time.Second
)

const (
	DefaultConfPath = "./configs"
	DefaultLogPath  = "logs"
)

const (
	Debug   = `debug`
	Release = `release`
)
