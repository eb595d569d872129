package corelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesLevelAndDisablesColorForBuffer(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "WARN")
	assert.Equal(t, "warn", l.logLevel)
	assert.False(t, l.colorOutput, "a plain buffer is never a terminal")
}

func TestNewDefaultsInvalidLevelToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "nonsense")
	assert.Equal(t, "info", l.logLevel)
}

func TestLogWithLevelFiltersBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("should be suppressed")
	assert.Empty(t, buf.String())

	l.Warn("should appear")
	assert.Contains(t, buf.String(), "should appear")
	assert.Contains(t, buf.String(), "[WARN]")
}

func TestLogWithLevelWritesTimestampAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "trace")

	l.Error("boom")
	line := buf.String()
	require.NotEmpty(t, line)
	assert.True(t, strings.HasPrefix(line, "["))
	assert.Contains(t, line, "[ERROR]")
	assert.Contains(t, line, "boom")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLogWithLevelNilWriterIsNoop(t *testing.T) {
	l := New(nil, "trace")
	assert.NotPanics(t, func() {
		l.Info("anything")
	})
}

func TestLevelOrderingAllowsExactThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")
	l.Debug("at threshold")
	assert.Contains(t, buf.String(), "at threshold")
}

func TestInfofWarnfErrorfFormatArguments(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "trace")

	l.Infof("count=%d", 3)
	assert.Contains(t, buf.String(), "count=3")

	buf.Reset()
	l.Warnf("name=%s", "x")
	assert.Contains(t, buf.String(), "name=x")

	buf.Reset()
	l.Errorf("err=%v", "bad")
	assert.Contains(t, buf.String(), "err=bad")
}
