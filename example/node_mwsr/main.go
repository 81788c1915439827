// Package main
// @Title  资源创建
// @Description  任意协程投递创建请求,由邮箱worker分配句柄
// @Author  yr  2026/10/17
// @Update  yr  2026/10/17
package main

import (
	"flag"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/njtc406/emberqueue/engine/pkg/actor/mailbox"
	"github.com/njtc406/emberqueue/engine/pkg/config"
	"github.com/njtc406/emberqueue/engine/pkg/event"
	inf "github.com/njtc406/emberqueue/engine/pkg/interfaces"
	"github.com/njtc406/emberqueue/engine/pkg/utils/asynclib"
	"github.com/njtc406/emberqueue/engine/pkg/utils/log"
	"github.com/njtc406/logrus"
	"github.com/shirou/gopsutil/v4/cpu"
)

const (
	evtCreate int32 = iota + 1
	evtReport
)

type createReq struct {
	Owner int
	Name  string
}

// resourceRegistry 只在worker协程中修改
type resourceRegistry struct {
	nextHandle uint64
	byName     map[string]uint64
}

func (r *resourceRegistry) InvokeSystemMessage(e inf.IEvent) (interface{}, error) {
	if e.GetType() == evtReport {
		return len(r.byName), nil
	}
	return nil, fmt.Errorf("unknown system event %d", e.GetType())
}

func (r *resourceRegistry) InvokeUserMessage(e inf.IEvent) (interface{}, error) {
	req, ok := e.(*event.Event).Data.(*createReq)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", e.(*event.Event).Data)
	}
	if h, exists := r.byName[req.Name]; exists {
		return h, nil
	}
	r.nextHandle++
	r.byName[req.Name] = r.nextHandle
	return r.nextHandle, nil
}

func (r *resourceRegistry) EscalateFailure(reason interface{}, e inf.IEvent) {
	log.SysLogger.Errorf("create resource failed, event:%s reason:%v", e.GetId(), reason)
}

func main() {
	confPath := flag.String("conf", "./configs", "config dir")
	perProducer := flag.Int("n", 1000, "requests per producer")
	flag.Parse()

	config.Init(*confPath)
	log.Init(config.Conf.SystemLogger, config.Conf.IsDebug())
	defer log.Close()

	asynclib.InitAntsPool(config.Conf.NodeConf.AntsPoolSize)
	defer asynclib.Release()

	// 所有创建请求走同一个key,保证由同一个worker串行分配句柄
	wc := *config.Conf.WorkerConf
	wc.WorkerNum = 1
	registry := &resourceRegistry{byName: make(map[string]uint64)}
	mb := mailbox.NewDefaultMailbox(&wc, registry)
	mb.Start()

	producers, err := cpu.Counts(true)
	if err != nil || producers <= 0 {
		producers = 4
	}

	var created atomic.Int64
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			var done sync.WaitGroup
			for i := 0; i < *perProducer; i++ {
				done.Add(1)
				e := event.NewEvent(evtCreate, "resources", &createReq{Owner: p, Name: fmt.Sprintf("res-%d-%d", p, i)}).
					WithCallback(func(result interface{}, err error) {
						defer done.Done()
						if err == nil {
							created.Add(1)
						}
					})
				if err := mb.PostMessage(e); err != nil {
					e.Release()
					done.Done()
					log.SysLogger.Warnf("post failed: %v", err)
				}
			}
			done.Wait()
		}(p)
	}
	wg.Wait()

	report := make(chan interface{}, 1)
	_ = mb.PostMessage(event.NewSysEvent(evtReport, nil).WithCallback(func(result interface{}, err error) {
		report <- result
	}))
	total := <-report
	mb.Stop()

	for i, st := range mb.QueueStats() {
		log.SysLogger.WithFields(logrus.Fields{
			"worker":        i,
			"pushes":        st.Pushes,
			"blockedPushes": st.BlockedPushes,
			"pops":          st.Pops,
			"drains":        st.Drains,
			"readerParks":   st.ReaderParks,
		}).Info("queue stats")
	}
	log.SysLogger.Infof("producers:%d created:%d registered:%v", producers, created.Load(), total)
}
