// Package interfaces
// @Title  title
// @Description  desc
// @Author  yr  2025/2/8
// @Update  yr  2026/10/17
package interfaces

import "github.com/njtc406/emberqueue/engine/pkg/utils/mwsr"

// IMailboxMiddleware 中间件
type IMailboxMiddleware interface {
	MailboxStarted()
	MessageReceived(evt IEvent)
}

// IMessageInvoker 处理消息,所有方法都在worker协程中调用
type IMessageInvoker interface {
	InvokeSystemMessage(evt IEvent) (interface{}, error)
	InvokeUserMessage(evt IEvent) (interface{}, error)
	EscalateFailure(reason interface{}, evt IEvent)
}

// IMailboxChannel 消息接口
type IMailboxChannel interface {
	PostMessage(evt IEvent) error
}

// IMailbox interface is used to enqueue messages to the mailbox
type IMailbox interface {
	IMailboxChannel
	Start()
	Stop()
	Suspend() bool
	Resume() bool
	QueueStats() []mwsr.Stats // 每个worker队列的统计
}
