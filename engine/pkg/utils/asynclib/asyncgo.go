// Package asynclib
// Mode ServiceName: 异步执行
// Mode Desc: 使用协程池中的协程执行任务,防止出现瞬间创建大量协程,出现性能问题
package asynclib

import (
	"runtime"
	"runtime/debug"

	"github.com/njtc406/emberqueue/engine/pkg/utils/log"
	"github.com/panjf2000/ants/v2"
)

// antsPool 协程池
var antsPool *ants.Pool

// InitAntsPool size为每个cpu的协程数
func InitAntsPool(size int) {
	if antsPool == nil && size > 0 {
		antsPool = NewAntsPool(runtime.NumCPU()*size, ants.WithPreAlloc(true))
	}
}

// NewAntsPool 创建协程池
// size表示池子的大小
func NewAntsPool(size int, options ...ants.Option) *ants.Pool {
	p, err := ants.NewPool(size, options...)
	if err != nil {
		panic(err)
	}
	return p
}

// Go 在协程池中执行f,未初始化协程池时直接起协程
func Go(f func()) (err error) {
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				if log.SysLogger != nil {
					log.SysLogger.Errorf("async func panic: %v\n%s", r, debug.Stack())
				}
			}
		}()
		f()
	}
	if antsPool == nil {
		go wrapped()
		return nil
	}
	return antsPool.Submit(wrapped)
}

// Running 正在执行的任务数
func Running() int {
	if antsPool == nil {
		return 0
	}
	return antsPool.Running()
}

func Release() {
	if antsPool != nil {
		antsPool.Release()
		antsPool = nil
	}
}
