package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Enable()

	SetDebug(false)
	Debug("hidden", "k", 1)
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	Debug("shown", "analyzer", "ccn")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "analyzer=ccn")
}

func TestWarnIncludesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Enable()

	Warn("cache entry unreadable", "key", "abc@ccn")
	assert.Contains(t, buf.String(), "cache entry unreadable")
	assert.Contains(t, buf.String(), "key=abc@ccn")
}
