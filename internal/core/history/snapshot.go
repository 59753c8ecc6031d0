package history

import (
	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/model"
)

// Snapshot is one history entry: the document and the selection as they were
// at a point in time. Stored snapshots are never written; the model's
// copy-on-write mutations keep them valid while sharing unchanged slides.
type Snapshot struct {
	Document  model.Presentation
	Selection selection.State
}

// Equal compares both the document and the selection by value.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Document.Equal(o.Document) && s.Selection.Equal(o.Selection)
}
