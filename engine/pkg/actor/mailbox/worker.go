// Package mailbox
// @Title  服务的工作线程,接收并处理事件
// @Description  每个worker独占一个有界多写单读队列,在自己的协程里阻塞读取
// @Author  yr  2025/2/8
// @Update  yr  2026/10/17
package mailbox

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"

	"github.com/njtc406/emberqueue/engine/pkg/def"
	inf "github.com/njtc406/emberqueue/engine/pkg/interfaces"
	"github.com/njtc406/emberqueue/engine/pkg/utils/asynclib"
	"github.com/njtc406/emberqueue/engine/pkg/utils/log"
	"github.com/njtc406/emberqueue/engine/pkg/utils/mwsr"
	"github.com/njtc406/logrus"
)

type invokeFunc func(inf.IEvent) (interface{}, error)

type Worker struct {
	workerId int
	pool     *WorkerPool
	queue    *mwsr.Queue[inf.IEvent] // nil为停止标记
	mu       sync.RWMutex            // 投递持读锁,停止持写锁,停止标记之后不会再有事件入队
	closed   bool
	done     chan struct{}
}

func newWorker(pool *WorkerPool, id int) *Worker {
	name := "mailbox-worker-" + strconv.Itoa(id)
	return &Worker{
		workerId: id,
		pool:     pool,
		queue: mwsr.New[inf.IEvent](
			pool.conf.MailboxSize,
			mwsr.WithName(name),
			mwsr.WithLogger(log.Sys().WithField("worker", id)),
		),
		done: make(chan struct{}),
	}
}

func (w *Worker) submit(e inf.IEvent) error {
	if e == nil {
		return fmt.Errorf("worker %d: nil event", w.workerId)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return def.ErrMailboxStopped
	}
	w.queue.Push(e)
	return nil
}

func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		e := w.queue.Pop()
		if e == nil {
			return
		}
		w.handle(e)
	}
}

// stop 推入停止标记并等待worker处理完之前的所有事件
func (w *Worker) stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()
	// 拿到写锁时所有持读锁的投递都已入队
	w.queue.Push(nil)
	<-w.done
}

func (w *Worker) handle(e inf.IEvent) {
	var result interface{}
	var err error
	switch e.GetPriority() {
	case def.PrioritySys:
		result, err = w.safeExec(w.pool.invoker.InvokeSystemMessage, e)
	default:
		result, err = w.safeExec(w.pool.invoker.InvokeUserMessage, e)
	}

	for _, ms := range w.pool.middlewares {
		ms.MessageReceived(e)
	}

	if err != nil {
		// 处理失败的事件允许再次投递
		if dk := e.GetDedupKey(); dk != "" {
			w.pool.dedup.MarkDone(e.GetKey(), dk)
		}
	}

	finish := func() {
		e.Done(result, err)
		e.Release()
	}
	if asynclib.Go(finish) != nil {
		finish()
	}
}

func (w *Worker) safeExec(invokeFun invokeFunc, e inf.IEvent) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Sys().WithFields(logrus.Fields{
				"worker": w.workerId,
				"event":  e.GetId(),
			}).Errorf("exec error: %v\ntrace:%s", r, debug.Stack())
			w.pool.invoker.EscalateFailure(r, e)
			result = nil
			err = fmt.Errorf("%w: %v", def.ErrHandleMessagePanic, r)
		}
	}()

	return invokeFun(e)
}
