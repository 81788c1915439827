package log

import "io"

var SysLogger ILogger

var discardLogger = New(WithOut(io.Discard))

// Sys 返回系统日志,Init之前返回一个丢弃输出的日志
func Sys() ILogger {
	if SysLogger == nil {
		return discardLogger
	}
	return SysLogger
}

func Init(conf *LoggerConf, isDebug bool) {
	if SysLogger != nil {
		return
	}
	conf = fixConf(conf)
	logger, err := NewDefaultLogger(
		conf.Path,
		conf,
		isDebug, // 是否开启前台打印
	)
	if err != nil {
		panic(err)
	}

	SysLogger = logger

	SysLogger.Info("-------->system log init ok<---------")
}

func Close() {
	if SysLogger == nil {
		return
	}
	SysLogger.Info("-------->system log release<---------")
	Release(SysLogger)
	SysLogger = nil
}
