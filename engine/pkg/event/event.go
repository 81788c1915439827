// Package event
// @Title  事件
// @Description  投递到邮箱中的事件,由worker协程处理
// @Author  yr  2024/11/5
// @Update  yr  2026/10/17
package event

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/njtc406/emberqueue/engine/pkg/def"
)

// Callback 处理完成回调,在协程池中执行
type Callback func(result interface{}, err error)

type Event struct {
	Id       string
	Type     int32
	Key      string
	DedupKey string
	Priority int32
	Data     interface{}

	callback Callback
	refCount atomic.Int32
}

var eventPool = sync.Pool{
	New: func() interface{} {
		return &Event{}
	},
}

// NewEvent 从池中获取事件,引用计数为1
func NewEvent(tp int32, key string, data interface{}) *Event {
	e := eventPool.Get().(*Event)
	e.Id = uuid.NewString()
	e.Type = tp
	e.Key = key
	e.Priority = def.PriorityUser
	e.Data = data
	e.refCount.Store(1)
	return e
}

// NewSysEvent 系统事件,邮箱挂起时仍然会被处理
func NewSysEvent(tp int32, data interface{}) *Event {
	e := NewEvent(tp, "", data)
	e.Priority = def.PrioritySys
	return e
}

func (e *Event) WithDedupKey(key string) *Event {
	e.DedupKey = key
	return e
}

func (e *Event) WithCallback(cb Callback) *Event {
	e.callback = cb
	return e
}

func (e *Event) Reset() {
	e.Id = ""
	e.Type = 0
	e.Key = ""
	e.DedupKey = ""
	e.Priority = 0
	e.Data = nil
	e.callback = nil
}

func (e *Event) GetId() string {
	return e.Id
}

func (e *Event) GetType() int32 {
	return e.Type
}

func (e *Event) GetKey() string {
	return e.Key
}

func (e *Event) GetDedupKey() string {
	return e.DedupKey
}

func (e *Event) GetPriority() int32 {
	return e.Priority
}

// Done 调用完成回调(没有回调时什么都不做)
func (e *Event) Done(result interface{}, err error) {
	if e.callback != nil {
		e.callback(result, err)
	}
}

func (e *Event) IncRef() {
	e.refCount.Add(1)
}

func (e *Event) Release() {
	if e.refCount.Add(-1) == 0 {
		e.Reset()
		eventPool.Put(e)
	}
}
