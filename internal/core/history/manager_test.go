package history

import (
	"fmt"
	"testing"

	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(title string) Snapshot {
	return Snapshot{Document: model.Presentation{Title: title}}
}

func TestRecordUndoRedo(t *testing.T) {
	m := NewManager(10)
	assert.False(t, m.CanUndo())

	require.True(t, m.Record(snap("v0")))
	// current state is now v1
	prev, ok := m.Undo(snap("v1"))
	require.True(t, ok)
	assert.Equal(t, "v0", prev.Document.Title)
	assert.Equal(t, 0, m.PastLen())
	assert.Equal(t, 1, m.FutureLen())

	next, ok := m.Redo(prev)
	require.True(t, ok)
	assert.Equal(t, "v1", next.Document.Title)
	assert.Equal(t, 1, m.PastLen())
	assert.Equal(t, 0, m.FutureLen())
}

func TestUndoRedoOnEmptyStacks(t *testing.T) {
	m := NewManager(10)
	_, ok := m.Undo(snap("x"))
	assert.False(t, ok)
	_, ok = m.Redo(snap("x"))
	assert.False(t, ok)
	assert.Equal(t, 0, m.FutureLen())
}

func TestRecordClearsFuture(t *testing.T) {
	m := NewManager(10)
	m.Record(snap("v0"))
	m.Undo(snap("v1"))
	require.True(t, m.CanRedo())

	m.Record(snap("v0"))
	assert.False(t, m.CanRedo())
}

func TestBoundedPast(t *testing.T) {
	const limit = 5
	m := NewManager(limit)
	for i := 0; i < limit+5; i++ {
		m.Record(snap(fmt.Sprintf("v%d", i)))
	}
	require.Equal(t, limit, m.PastLen())

	past := m.Past()
	for i, s := range past {
		assert.Equal(t, fmt.Sprintf("v%d", i+5), s.Document.Title, "keeps the most recent entries")
	}
}

func TestDefaultMax(t *testing.T) {
	assert.Equal(t, DefaultMaxHistory, NewManager(0).MaxItems())
}

func TestTransactionCoalesces(t *testing.T) {
	m := NewManager(10)

	m.Begin("drag", snap("before"))
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, "drag", m.Label())
	assert.False(t, m.Record(snap("tick1")))
	assert.False(t, m.Record(snap("tick2")))
	assert.False(t, m.CanUndo(), "undo is unavailable inside a transaction")

	require.True(t, m.End(snap("after")))
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, 1, m.PastLen())

	prev, ok := m.Undo(snap("after"))
	require.True(t, ok)
	assert.Equal(t, "before", prev.Document.Title)
}

func TestNestedTransactionKeepsOutermostState(t *testing.T) {
	m := NewManager(10)
	m.Begin("outer", snap("s0"))
	m.Begin("inner", snap("s1"))
	assert.False(t, m.End(snap("s2")))
	assert.Equal(t, "outer", m.Label())
	require.True(t, m.End(snap("s3")))

	past := m.Past()
	require.Len(t, past, 1)
	assert.Equal(t, "s0", past[0].Document.Title)
}

func TestNoOpTransactionPushesNothing(t *testing.T) {
	m := NewManager(10)
	before := snap("same")
	after := snap("same")
	after.Selection = selection.State{CurrentSlideID: "other", ElementIDs: []string{"e"}}

	m.Begin("", before)
	assert.False(t, m.End(after), "selection-only difference")
	assert.Equal(t, 0, m.PastLen())
}

func TestEndWithoutBegin(t *testing.T) {
	m := NewManager(10)
	assert.False(t, m.End(snap("x")))
	assert.Equal(t, 0, m.Depth())
}

func TestClear(t *testing.T) {
	m := NewManager(10)
	m.Record(snap("a"))
	m.Record(snap("b"))
	m.Undo(snap("c"))
	m.Begin("open", snap("c"))

	m.Clear()
	assert.Equal(t, 0, m.PastLen())
	assert.Equal(t, 0, m.FutureLen())
	assert.Equal(t, 0, m.Depth())
}

func TestSnapshotEqual(t *testing.T) {
	a := Snapshot{Document: model.Presentation{Title: "t"}, Selection: selection.State{CurrentSlideID: "s"}}
	b := a
	assert.True(t, a.Equal(b))
	b.Selection.ElementIDs = []string{"x"}
	assert.False(t, a.Equal(b))
}
