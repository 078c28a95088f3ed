/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevel_String 测试日志级别的字符串表示
func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"}, // 未知级别
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
	}{
		{"debug", DEBUG},
		{" Info ", INFO},
		{"", INFO},
		{"warning", WARN},
		{"ERROR", ERROR},
		{"off", OFF},
	}
	for _, test := range tests {
		level, err := ParseLevel(test.name)
		require.NoError(t, err, test.name)
		assert.Equal(t, test.expected, level, test.name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

// TestLevelFiltering 低于当前级别的日志不输出
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(WARN, &buf)

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	output := buf.String()
	assert.NotContains(t, output, "debug 1")
	assert.NotContains(t, output, "info 2")
	assert.Contains(t, output, "[WARN] warn 3")
	assert.Contains(t, output, "[ERROR] error 4")
	assert.Equal(t, 2, strings.Count(output, "\n"))
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(INFO, &buf)

	log.Debug("hidden")
	log.SetLevel(DEBUG)
	log.Debug("shown %s", "now")
	log.SetLevel(OFF)
	log.Error("never")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "[DEBUG] shown now")
	assert.NotContains(t, output, "never")
}

func TestDiscardLogger(t *testing.T) {
	log := NewDiscardLogger()
	assert.NotPanics(t, func() {
		log.Debug("x")
		log.Info("x")
		log.Warn("x")
		log.Error("x")
		log.SetLevel(DEBUG)
	})
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	for _, level := range []string{"[DEBUG] d", "[INFO] i", "[WARN] w", "[ERROR] e"} {
		assert.Contains(t, buf.String(), level)
	}

	SetDefault(nil)
	assert.NotNil(t, GetDefault())
	assert.NotPanics(t, func() { Info("discarded") })
}

// TestConcurrentLogging 并发写日志与修改级别
func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	log := NewLogger(INFO, writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Info("goroutine %d message %d", i, j)
				if j%10 == 0 {
					log.SetLevel(INFO)
				}
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 400, strings.Count(buf.String(), "\n"))
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
