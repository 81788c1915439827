package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/njtc406/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithLevel(logrus.WarnLevel), WithOut(&buf))

	l.Info("hidden")
	l.WithField("queue", "q1").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "queue=q1")
}

func TestNewDefaultLogger_UnknownLevelFallsBackToError(t *testing.T) {
	l, err := NewDefaultLogger("", &LoggerConf{Level: "loud"}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, l.(*logrus.Logger).GetLevel())
}

func TestNewDefaultLogger_RejectsRotationTime(t *testing.T) {
	_, err := NewDefaultLogger(t.TempDir(), &LoggerConf{Name: "sys", RotationTime: time.Second}, false)
	assert.ErrorIs(t, err, RotationTimeErr)
}

func TestNewDefaultLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewDefaultLogger(dir, &LoggerConf{
		Name:         "sys",
		Level:        "debug",
		RotationTime: time.Hour,
		AsyncMode:    &AsyncMode{Enable: true},
	}, false)
	require.NoError(t, err)

	l.Debug("to file")
	Release(l)

	files, err := filepath.Glob(filepath.Join(dir, "sys_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestInitAndClose(t *testing.T) {
	assert.Same(t, discardLogger, Sys())
	Init(nil, false)
	require.NotNil(t, SysLogger)
	assert.Same(t, SysLogger, Sys())
	Close()
	assert.Nil(t, SysLogger)
}
