package def

import (
	"errors"
)

// 定义系统错误

var (
	ErrMailboxNotRunning  = errors.New("mailbox not running")          // 邮箱未运行(挂起中)
	ErrMailboxStopped     = errors.New("mailbox stopped")              // 邮箱已停止
	ErrMailboxNotStarted  = errors.New("mailbox not started")          // 邮箱未启动
	ErrNoWorkerAvailable  = errors.New("no worker available")          // 没有可用的worker
	ErrDuplicateEvent     = errors.New("duplicate event")              // 重复事件
	ErrHandleMessagePanic = errors.New("handle message panic")         // 处理消息时发生 panic
	ErrInvalidMailboxSize = errors.New("mailbox size must be in 1-64") // 邮箱大小不合法
	ErrConfNotLoaded      = errors.New("config not loaded")            // 配置未加载
)
