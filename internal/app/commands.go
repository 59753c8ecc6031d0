package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/deck/internal/action"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/store"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMissingArgument  = errors.New("missing argument")
	ErrBadReference     = errors.New("no such slide or element")
	ErrUnknownSelection = errors.New("unknown selection kind")
)

// RunCommand executes one `:name args` line (the leading colon is
// optional).
func (a *App) RunCommand(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runCommandLocked(line)
}

func (a *App) runCommandLocked(line string) error {
	parts := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(parts) == 0 {
		return nil
	}
	name, args := parts[0], parts[1:]

	cmdFunc, exists := a.commands[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	logger.Debugf("App: Executing command ':%s' with args %v", name, args)
	if err := cmdFunc(args); err != nil {
		return fmt.Errorf(":%s: %w", name, err)
	}
	return nil
}

// Commands returns the registered command names.
func (a *App) Commands() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	return names
}

// registerAppCommands registers the built-in commands.
func registerAppCommands(a *App) {
	api := a.engineAPI

	register := func(name string, fn func(args []string) error) {
		if err := api.RegisterCommand(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}

	// --- History ---
	register("undo", func(args []string) error {
		if a.engine.Undo() {
			api.SetStatusMessage("Undo (%d more)", a.engine.HistoryLen())
		} else {
			api.SetStatusMessage("Nothing to undo")
		}
		return nil
	})
	register("redo", func(args []string) error {
		if a.engine.Redo() {
			api.SetStatusMessage("Redo (%d more)", a.engine.FutureLen())
		} else {
			api.SetStatusMessage("Nothing to redo")
		}
		return nil
	})
	register("begin", func(args []string) error {
		a.engine.BeginTransaction(strings.Join(args, " "))
		return nil
	})
	register("end", func(args []string) error {
		if a.engine.EndTransaction() {
			api.SetStatusMessage("Transaction recorded")
		}
		return nil
	})

	// --- Selection ---
	selectCmd := func(kind string) func(args []string) error {
		return func(args []string) error {
			_, err := a.selectLocked(kind, args)
			return err
		}
	}
	register("current-slide", selectCmd("current"))
	register("select-slide", selectCmd("slide"))
	register("select-slides", selectCmd("slides"))
	register("select-element", selectCmd("element"))
	register("select-elements", selectCmd("elements"))
	register("add-to-selection", selectCmd("add"))
	register("remove-from-selection", selectCmd("remove"))
	register("clear-selection", selectCmd("clear"))
	register("clear-slide-selection", selectCmd("clear-slides"))
	register("clear-all", selectCmd("clear-all"))

	// --- Slides ---
	register("reorder-slides", func(args []string) error {
		changed, err := a.reorderLocked(args)
		if err != nil {
			return err
		}
		if changed {
			api.SetStatusMessage("Slides reordered")
		} else {
			api.SetStatusMessage("Slide order unchanged")
		}
		return nil
	})

	// --- Files ---
	register("save", func(args []string) error {
		return a.saveLocked(context.Background(), strings.Join(args, " "))
	})
	register("open", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: file path", ErrMissingArgument)
		}
		path := strings.Join(args, " ")
		doc, err := store.Load(context.Background(), path)
		if err != nil {
			return err
		}
		if err := a.engine.LoadDocument(doc); err != nil {
			return err
		}
		a.setFilePath(path)
		a.modified = false
		api.SetStatusMessage("Opened %s (%d slides)", path, len(doc.Slides))
		return nil
	})

	// --- Themes & templates ---
	register("theme", func(args []string) error {
		if len(args) == 0 {
			if a.activeTheme == "" {
				api.SetStatusMessage("No theme applied")
			} else {
				api.SetStatusMessage("Current theme: %s", a.activeTheme)
			}
			return nil
		}
		name := strings.Join(args, " ")
		if _, ok := a.engine.Themes().Get(name); !ok {
			return fmt.Errorf("theme '%s' not found. Available: %s", name, strings.Join(a.themeNames(), ", "))
		}
		a.engine.Execute(action.ApplyTheme{Theme: name})
		api.SetStatusMessage("Theme set to: %s", name)
		return nil
	})
	register("themes", func(args []string) error {
		api.SetStatusMessage("Available themes: %s", strings.Join(a.themeNames(), ", "))
		return nil
	})
	register("templates", func(args []string) error {
		api.SetStatusMessage("Available templates: %s", strings.Join(a.engine.Templates().Names(), ", "))
		return nil
	})
}

func (a *App) themeNames() []string {
	var names []string
	for _, t := range a.engine.Themes().List() {
		names = append(names, t.Name)
	}
	return names
}

// selectLocked applies a selection request; the caller holds mu.
func (a *App) selectLocked(kind string, refs []string) (bool, error) {
	doc := a.engine.Snapshot()

	one := func() (string, error) {
		if len(refs) == 0 {
			return "", fmt.Errorf("%w: id or #n", ErrMissingArgument)
		}
		return refs[0], nil
	}

	switch kind {
	case "current", "slide":
		ref, err := one()
		if err != nil {
			return false, err
		}
		id, err := resolveSlide(doc, ref)
		if err != nil {
			return false, err
		}
		if kind == "current" {
			return a.engine.SetCurrentSlide(id), nil
		}
		return a.engine.SelectSlide(id), nil

	case "slides":
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			id, err := resolveSlide(doc, ref)
			if err != nil {
				return false, err
			}
			ids = append(ids, id)
		}
		return a.engine.SelectSlides(ids), nil

	case "element", "add", "remove":
		ref, err := one()
		if err != nil {
			return false, err
		}
		id, err := resolveElement(doc, ref)
		if err != nil {
			return false, err
		}
		switch kind {
		case "add":
			return a.engine.AddToSelection(id), nil
		case "remove":
			return a.engine.RemoveFromSelection(id), nil
		default:
			return a.engine.SelectElement(id), nil
		}

	case "elements":
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			id, err := resolveElement(doc, ref)
			if err != nil {
				return false, err
			}
			ids = append(ids, id)
		}
		return a.engine.SelectMultipleElements(ids), nil

	case "clear":
		return a.engine.ClearSelection(), nil
	case "clear-slides":
		return a.engine.ClearSlideSelection(), nil
	case "clear-all":
		return a.engine.ClearAllSelections(), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownSelection, kind)
	}
}

// reorderLocked puts the slides in the order of refs, which must name every
// slide; the caller holds mu.
func (a *App) reorderLocked(refs []string) (bool, error) {
	doc := a.engine.Snapshot()
	if len(refs) != len(doc.Slides) {
		return false, fmt.Errorf("%w: order names %d of %d slides", ErrBadReference, len(refs), len(doc.Slides))
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := resolveSlide(doc, ref)
		if err != nil {
			return false, err
		}
		ids = append(ids, id)
	}
	return a.engine.ReorderSlides(ids), nil
}

// parseIndexRef reads the 1-based "#n" form.
func parseIndexRef(ref string) (int, bool) {
	if !strings.HasPrefix(ref, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

// resolveSlide maps a slide id or "#n" to an existing slide id.
func resolveSlide(doc model.Presentation, ref string) (string, error) {
	if i, ok := parseIndexRef(ref); ok {
		if i < 0 || i >= len(doc.Slides) {
			return "", fmt.Errorf("%w: slide %s", ErrBadReference, ref)
		}
		return doc.Slides[i].ID, nil
	}
	if doc.SlideIndex(ref) < 0 {
		return "", fmt.Errorf("%w: slide '%s'", ErrBadReference, ref)
	}
	return ref, nil
}

// resolveElement maps an element id or "#n" on the current slide to an
// existing element id.
func resolveElement(doc model.Presentation, ref string) (string, error) {
	s, ok := doc.Slide(doc.CurrentSlideID)
	if !ok {
		return "", fmt.Errorf("%w: no current slide", ErrBadReference)
	}
	if i, ok := parseIndexRef(ref); ok {
		if i < 0 || i >= len(s.Elements) {
			return "", fmt.Errorf("%w: element %s", ErrBadReference, ref)
		}
		return s.Elements[i].ID, nil
	}
	if s.ElementIndex(ref) < 0 {
		return "", fmt.Errorf("%w: element '%s'", ErrBadReference, ref)
	}
	return ref, nil
}
