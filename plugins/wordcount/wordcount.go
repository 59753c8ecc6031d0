package wordcount

import (
	"fmt"

	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/plugin"
	"github.com/bethropolis/deck/internal/utils"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// Stats summarizes a presentation.
type Stats struct {
	Slides   int
	Elements int
	Words    int
}

// Count walks every slide and counts words in text elements.
func Count(p model.Presentation) Stats {
	st := Stats{Slides: len(p.Slides)}
	for _, s := range p.Slides {
		st.Elements += len(s.Elements)
		for _, e := range s.Elements {
			if e.Text != nil {
				st.Words += utils.CountWords(e.Text.Content)
			}
		}
	}
	return st
}

// WordCount registers the :wc command.
type WordCount struct {
	api plugin.EngineAPI
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the :wc command.
func (p *WordCount) Initialize(api plugin.EngineAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *WordCount) Shutdown() error {
	return nil
}

// executeWordCount reports stats for the whole deck, or for the current
// slide with `:wc slide`.
func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}

	doc := p.api.Snapshot()
	scope := "Deck"
	if len(args) > 0 && args[0] == "slide" {
		s, ok := doc.Slide(doc.CurrentSlideID)
		if !ok {
			return fmt.Errorf("no current slide")
		}
		doc = model.Presentation{Slides: []model.Slide{s}}
		scope = "Slide"
	}

	st := Count(doc)
	p.api.SetStatusMessage("%s: Slides: %d, Elements: %d, Words: %d", scope, st.Slides, st.Elements, st.Words)
	return nil
}
