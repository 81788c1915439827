// Package log
// @Title  异步写入
// @Description  任意协程写入,由单独的协程批量刷出;写入顺序即日志顺序
// @Author  yr  2025/4/17
// @Update  yr  2026/10/17
package log

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/njtc406/emberqueue/engine/pkg/utils/mwsr"
)

const (
	defaultBufferSize = 1024 * 1024
	defaultQueueSize  = mwsr.MaxCapacity
)

var ErrWriterClosed = errors.New("async writer closed")

type AsyncWriterConfig struct {
	QueueSize  int // 队列长度(1-64),写满时写入方阻塞
	BufferSize int // 缓冲区大小(满时会立即写入)
}

type AsyncWriter struct {
	writer io.Writer
	queue  *mwsr.Queue[[]byte]
	conf   *AsyncWriterConfig

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	done   chan struct{}
}

func fixAsyncWriterConf(conf *AsyncWriterConfig) *AsyncWriterConfig {
	if conf == nil {
		conf = &AsyncWriterConfig{}
	}
	if conf.QueueSize <= 0 || conf.QueueSize > mwsr.MaxCapacity {
		conf.QueueSize = defaultQueueSize
	}
	if conf.BufferSize <= 0 {
		conf.BufferSize = defaultBufferSize
	}
	return conf
}

func NewAsyncWriter(w io.Writer, conf *AsyncWriterConfig) *AsyncWriter {
	conf = fixAsyncWriterConf(conf)
	aw := &AsyncWriter{
		writer: w,
		queue:  mwsr.New[[]byte](conf.QueueSize, mwsr.WithName("async_log")),
		conf:   conf,
		done:   make(chan struct{}),
	}

	go aw.loop()
	return aw
}

func (aw *AsyncWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// 拷贝一份,上层会复用buffer,导致数据发生变化
	data := make([]byte, len(p))
	copy(data, p)

	aw.mu.RLock()
	defer aw.mu.RUnlock()
	if aw.closed {
		return 0, ErrWriterClosed
	}
	aw.queue.Push(data)
	return len(data), nil
}

// loop 唯一的读协程. nil 表示关闭
func (aw *AsyncWriter) loop() {
	defer close(aw.done)

	buf := new(bytes.Buffer)
	for {
		b := aw.queue.Pop()
		if b == nil {
			aw.flush(buf)
			return
		}
		buf.Write(b)

		// 本批已经读完,下一次Pop可能会睡眠,先把缓冲写出去
		if buf.Len() >= aw.conf.BufferSize || aw.queue.IsEmpty() {
			aw.flush(buf)
		}
	}
}

func (aw *AsyncWriter) flush(buf *bytes.Buffer) {
	if buf.Len() == 0 {
		return
	}
	_, _ = aw.writer.Write(buf.Bytes())
	buf.Reset()
}

// Close 等待已写入的数据全部刷出
func (aw *AsyncWriter) Close() error {
	aw.once.Do(func() {
		aw.mu.Lock()
		aw.closed = true
		aw.mu.Unlock()
		aw.queue.Push(nil)
	})
	<-aw.done
	return nil
}
