// Package mailbox
// 模块名: worker池
// 功能描述: 按事件key把事件分派到固定的worker
// 作者:  yr  2025/7/19 0019 21:37
// 最后更新:  yr  2026/10/17
package mailbox

import (
	"strconv"
	"sync"

	"github.com/njtc406/emberqueue/engine/pkg/config"
	"github.com/njtc406/emberqueue/engine/pkg/def"
	inf "github.com/njtc406/emberqueue/engine/pkg/interfaces"
	"github.com/njtc406/emberqueue/engine/pkg/utils/dedup"
	"github.com/njtc406/emberqueue/engine/pkg/utils/hashring"
	"github.com/njtc406/emberqueue/engine/pkg/utils/log"
	"github.com/njtc406/emberqueue/engine/pkg/utils/mwsr"
)

const (
	poolIdle = iota
	poolRunning
	poolStopped
)

type WorkerPool struct {
	conf        config.WorkerConf
	mu          sync.RWMutex
	state       int
	workers     []*Worker
	ring        *hashring.HashRing[int]  // 一致性哈希环，用于分派事件
	invoker     inf.IMessageInvoker      // 消息处理器
	middlewares []inf.IMailboxMiddleware // 中间件
	dedup       inf.IDeDuplicator        // 事件去重
}

func fixConf(conf *config.WorkerConf) *config.WorkerConf {
	if conf == nil {
		return &config.WorkerConf{
			WorkerNum:         def.DefaultWorkerNum,
			VirtualWorkerRate: def.DefaultVirtualWorkerRate,
			MailboxSize:       def.DefaultMailboxSize,
		}
	}

	c := *conf
	if c.WorkerNum <= 0 {
		c.WorkerNum = def.DefaultWorkerNum
	}
	if c.VirtualWorkerRate <= 0 {
		c.VirtualWorkerRate = def.DefaultVirtualWorkerRate
	}
	if c.MailboxSize <= 0 {
		c.MailboxSize = def.DefaultMailboxSize
	}
	return &c
}

// NewWorkerPool MailboxSize超出队列容量范围时panic
func NewWorkerPool(conf *config.WorkerConf, invoker inf.IMessageInvoker, middlewares ...inf.IMailboxMiddleware) *WorkerPool {
	conf = fixConf(conf)
	if conf.MailboxSize > mwsr.MaxCapacity {
		panic(def.ErrInvalidMailboxSize)
	}
	return &WorkerPool{
		conf:        *conf,
		invoker:     invoker,
		ring:        hashring.NewHashRing[int](conf.VirtualWorkerRate),
		middlewares: middlewares,
		dedup: dedup.NewTTLDeDuplicator(
			dedup.WithTTL(conf.DedupTTL),
			dedup.WithCleanTTL(conf.DedupCleanTTL),
		),
	}
}

func (p *WorkerPool) Start() {
	p.mu.Lock()
	if p.state != poolIdle {
		p.mu.Unlock()
		return
	}
	p.workers = make([]*Worker, 0, p.conf.WorkerNum)
	for i := 0; i < p.conf.WorkerNum; i++ {
		worker := newWorker(p, i)
		p.workers = append(p.workers, worker)
		worker.Start()
		p.ring.Add("worker-"+strconv.Itoa(i), i)
	}
	p.state = poolRunning
	p.mu.Unlock()

	for _, middleware := range p.middlewares {
		middleware.MailboxStarted()
	}

	log.Sys().Debugf("mailbox started, workers:%d size:%d", p.conf.WorkerNum, p.conf.MailboxSize)
}

// Stop 之前投递成功的事件都会被处理完
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.state != poolRunning {
		p.state = poolStopped
		p.mu.Unlock()
		return
	}
	p.state = poolStopped
	workers := p.workers
	p.mu.Unlock()

	for _, worker := range workers {
		worker.stop()
	}
	p.ring.Clear()

	log.Sys().Debugf("mailbox stopped, workers:%d", len(workers))
}

func (p *WorkerPool) pick(key string) (*Worker, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	switch p.state {
	case poolIdle:
		return nil, def.ErrMailboxNotStarted
	case poolStopped:
		return nil, def.ErrMailboxStopped
	}

	if len(p.workers) == 1 {
		return p.workers[0], nil
	}
	workerID, ok := p.ring.Get(key)
	if !ok || workerID >= len(p.workers) {
		return nil, def.ErrNoWorkerAvailable
	}
	return p.workers[workerID], nil
}

// DispatchEvent 同一个key的事件总是落到同一个worker,保证处理顺序
func (p *WorkerPool) DispatchEvent(evt inf.IEvent) error {
	worker, err := p.pick(evt.GetKey())
	if err != nil {
		return err
	}

	if dk := evt.GetDedupKey(); dk != "" && p.dedup.Seen(evt.GetKey(), dk) {
		return def.ErrDuplicateEvent
	}

	if err = worker.submit(evt); err != nil {
		if dk := evt.GetDedupKey(); dk != "" {
			p.dedup.MarkDone(evt.GetKey(), dk)
		}
		return err
	}
	return nil
}

func (p *WorkerPool) QueueStats() []mwsr.Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	stats := make([]mwsr.Stats, 0, len(p.workers))
	for _, w := range p.workers {
		stats = append(stats, w.queue.Stats())
	}
	return stats
}
