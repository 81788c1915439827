/*
 * Copyright (c) 2024. YR. All rights reserved
 */

// Package log
// 模块名: 系统日志
// 功能描述: logrus 封装,支持文件切割和异步写入
// 作者:  yr  2024/3/2 0002 18:57
// 最后更新:  yr  2026/10/17
package log

import (
	"errors"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/njtc406/logrus"
)

var RotationTimeErr = errors.New("rotation time must be between 1m and 24h")

// ILogger is what the engine logs through.
type ILogger interface {
	logrus.FieldLogger
}

var levelMap = map[string]logrus.Level{
	"panic": logrus.PanicLevel,
	"fatal": logrus.FatalLevel,
	"error": logrus.ErrorLevel,
	"warn":  logrus.WarnLevel,
	"info":  logrus.InfoLevel,
	"debug": logrus.DebugLevel,
	"trace": logrus.TraceLevel,
}

var locker sync.Mutex
var writerLog = map[ILogger]io.WriteCloser{}

func logWriter(logger ILogger, writer io.WriteCloser) {
	locker.Lock()
	defer locker.Unlock()

	if _, ok := writerLog[logger]; ok {
		return
	}

	writerLog[logger] = writer
}

func logRelease(logger ILogger) {
	locker.Lock()
	defer locker.Unlock()
	if writer, ok := writerLog[logger]; ok {
		_ = writer.Close()
		delete(writerLog, logger)
	}
}

type AsyncMode struct {
	Enable bool
	Config *AsyncWriterConfig
}

type LoggerConf struct {
	Path         string        `binding:""`                                              // 日志文件路径
	Name         string        `binding:""`                                              // 日志文件名称
	Level        string        `binding:"oneof=panic fatal error warn info debug trace"` // 日志写入级别 小于设置级别的类型都会被记录
	AsyncMode    *AsyncMode    `binding:""`                                              // 是否异步写入
	Caller       bool          `binding:""`                                              // 是否打印调用者
	FullCaller   bool          `binding:""`                                              // 是否打印完整调用者
	Color        bool          `binding:""`                                              // 是否打印级别色彩
	MaxAge       time.Duration `binding:"min=1m,max=720h"`                               // 日志保留时间,默认15天
	RotationTime time.Duration `binding:"min=1m,max=24h"`                                // 日志切割时间,默认1天
}

type Option func(l *logrus.Logger)

func WithLevel(level logrus.Level) Option {
	return func(l *logrus.Logger) {
		l.SetLevel(level)
	}
}

func WithOut(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

func WithCaller(enable bool) Option {
	return func(l *logrus.Logger) {
		l.SetReportCaller(enable)
	}
}

func WithColor(enable bool) Option {
	return func(l *logrus.Logger) {
		if f, ok := l.Formatter.(*logrus.TextFormatter); ok {
			f.ForceColors = enable
			f.DisableColors = !enable
		}
	}
}

// WithFullCaller keeps the whole file path of the caller instead of the last
// two elements.
func WithFullCaller(full bool) Option {
	return func(l *logrus.Logger) {
		f, ok := l.Formatter.(*logrus.TextFormatter)
		if !ok || full {
			return
		}
		f.CallerPrettyfier = shortCaller
	}
}

// New creates a new Logger object.
func New(opts ...Option) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		DisableColors:   true,
	})
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func fixConf(conf *LoggerConf) *LoggerConf {
	if conf == nil {
		conf = &LoggerConf{
			Level: "info",
			AsyncMode: &AsyncMode{
				Enable: false,
			},
			MaxAge:       time.Hour * 24 * 15, // 默认15天
			RotationTime: time.Hour * 24,
		}
	}

	if conf.Level == "" {
		conf.Level = "info"
	}

	if conf.MaxAge == 0 {
		conf.MaxAge = time.Hour * 24 * 15
	}

	if conf.RotationTime == 0 {
		conf.RotationTime = time.Hour * 24
	}

	return conf
}

// NewDefaultLogger 创建一个通用日志对象
// filePath 日志输出目录
// conf.Name 为空时不写文件;openStdout 为 false 且没有文件时日志被丢弃
// level 取值为 panic fatal error warn info debug trace,无法识别时使用 error
// asyncMode 开启后所有输出经过 AsyncWriter,由单独的协程写出
func NewDefaultLogger(filePath string, conf *LoggerConf, openStdout bool) (ILogger, error) {
	conf = fixConf(conf)
	var writers []io.Writer

	if len(conf.Name) > 0 {
		if len(filePath) == 0 {
			filePath = "./" // 默认当前目录
		}
		if conf.RotationTime < time.Minute || conf.RotationTime > time.Hour*24 {
			return nil, RotationTimeErr
		}
		pattern := "_%Y%m%d.log"
		if conf.RotationTime < time.Hour {
			pattern = "_%Y%m%d%H%M.log"
		} else if conf.RotationTime < time.Hour*24 {
			pattern = "_%Y%m%d%H.log"
		}

		w, err := rotatelogs.New(
			path.Join(filePath, conf.Name)+pattern,
			rotatelogs.WithMaxAge(conf.MaxAge),
			rotatelogs.WithRotationTime(conf.RotationTime),
		)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}

	if openStdout {
		writers = append(writers, os.Stdout)
	} else if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	level := strings.ToLower(conf.Level)
	if _, ok := levelMap[level]; !ok {
		level = "error"
	}

	var writerCloser io.WriteCloser
	var writer io.Writer
	if conf.AsyncMode != nil && conf.AsyncMode.Enable {
		// 开启了异步模式,使用异步writer代替同步writer
		w := NewAsyncWriter(io.MultiWriter(writers...), conf.AsyncMode.Config)
		writer = w
		// 记录异步模式的writer,用于close的时候释放
		writerCloser = w
	} else {
		writer = io.MultiWriter(writers...)
	}

	logger := New(
		WithLevel(levelMap[level]),
		WithCaller(conf.Caller),
		WithColor(conf.Color),
		WithOut(writer),
		WithFullCaller(conf.FullCaller),
	)

	if writerCloser != nil {
		logWriter(logger, writerCloser)
	}

	return logger, nil
}

func Release(logger ILogger) {
	if logger == nil {
		return
	}

	logRelease(logger)
}
