package utils

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/rivo/uniseg"
)

// Truncate shortens s to at most width terminal cells, counting grapheme
// clusters so emoji and combining marks are never split. A truncated result
// ends in "…". Newlines are folded to spaces first.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > width-1 { // keep one cell for the ellipsis
			break
		}
		b.WriteString(gr.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

// CountWords counts whitespace separated words.
func CountWords(s string) int {
	return len(strings.FieldsFunc(s, unicode.IsSpace))
}

// Debouncer provides a way to debounce function calls
type Debouncer struct {
	mutex      sync.Mutex
	timer      *time.Timer
	lastCalled time.Time
	inflight   sync.WaitGroup // armed or running calls
}

// Debounce calls the provided function after the specified duration,
// canceling any previous pending calls
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}

	d.inflight.Add(1)
	var t *time.Timer
	t = time.AfterFunc(duration, func() {
		defer d.inflight.Done()
		d.mutex.Lock()
		d.lastCalled = time.Now()
		if d.timer == t {
			d.timer = nil
		}
		d.mutex.Unlock()
		fn()
	})
	d.timer = t
}

// Flush stops a pending call and reports whether one was pending. The
// caller is expected to run the work itself.
func (d *Debouncer) Flush() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer == nil {
		return false
	}
	pending := d.timer.Stop()
	if pending {
		d.inflight.Done()
	}
	d.timer = nil
	return pending
}

// Wait blocks until no call is armed or running. Call Flush first, or Wait
// also sits out the pending quiet period.
func (d *Debouncer) Wait() {
	d.inflight.Wait()
}

// LastCalled returns when the debounced function last ran.
func (d *Debouncer) LastCalled() time.Time {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.lastCalled
}
