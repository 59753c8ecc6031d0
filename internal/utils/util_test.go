package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello w…"},
		{"folds newlines", "a\n\nb", 10, "a b"},
		{"wide runes", "日本語テキスト", 7, "日本語…"},
		{"zero width", "hello", 0, ""},
		{"emoji cluster kept whole", "👍🏽👍🏽👍🏽", 5, "👍🏽👍🏽…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 3, CountWords("one two\nthree"))
}

func TestDebouncerCoalesces(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.LastCalled().IsZero())
}

func TestDebouncerFlush(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	d.Debounce(time.Hour, func() { calls.Add(1) })
	assert.True(t, d.Flush())
	assert.False(t, d.Flush())
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncerWaitCoversRunningCall(t *testing.T) {
	var d Debouncer
	started := make(chan struct{})
	var done atomic.Bool
	d.Debounce(time.Millisecond, func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	})
	<-started

	assert.False(t, d.Flush(), "the call already fired")
	d.Wait()
	assert.True(t, done.Load())
}

func TestDebouncerWaitAfterFlushAndRearm(t *testing.T) {
	var d Debouncer
	for i := 0; i < 3; i++ {
		d.Debounce(time.Hour, func() {})
	}
	assert.True(t, d.Flush())

	finished := make(chan struct{})
	go func() {
		d.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked on cancelled calls")
	}
}
