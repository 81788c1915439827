// Package mailbox
// @Title  邮箱
// @Description  任意协程投递事件,由worker协程按投递顺序处理
// @Author  yr  2025/2/8
// @Update  yr  2026/10/17
package mailbox

import (
	"sync/atomic"

	"github.com/njtc406/emberqueue/engine/pkg/config"
	"github.com/njtc406/emberqueue/engine/pkg/def"
	inf "github.com/njtc406/emberqueue/engine/pkg/interfaces"
	"github.com/njtc406/emberqueue/engine/pkg/utils/mwsr"
)

type defaultMailbox struct {
	suspended  int32 // 挂起标记
	workerPool *WorkerPool
}

func NewDefaultMailbox(conf *config.WorkerConf, invoker inf.IMessageInvoker, middlewares ...inf.IMailboxMiddleware) inf.IMailbox {
	return &defaultMailbox{
		workerPool: NewWorkerPool(conf, invoker, middlewares...),
	}
}

// PostMessage 投递成功后事件归邮箱所有,处理完成后由邮箱Release
// 队列满时阻塞,直到worker腾出位置
func (m *defaultMailbox) PostMessage(e inf.IEvent) error {
	if e.GetPriority() != def.PrioritySys && m.isSuspended() {
		return def.ErrMailboxNotRunning
	}
	return m.workerPool.DispatchEvent(e)
}

func (m *defaultMailbox) isSuspended() bool {
	return atomic.LoadInt32(&m.suspended) == 1
}

func (m *defaultMailbox) Suspend() bool {
	return atomic.CompareAndSwapInt32(&m.suspended, 0, 1)
}

func (m *defaultMailbox) Resume() bool {
	return atomic.CompareAndSwapInt32(&m.suspended, 1, 0)
}

func (m *defaultMailbox) Start() {
	m.workerPool.Start()
}

func (m *defaultMailbox) Stop() {
	m.workerPool.Stop()
}

func (m *defaultMailbox) QueueStats() []mwsr.Stats {
	return m.workerPool.QueueStats()
}
