package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/deck/internal/logger"
)

// LineError is a script line that failed.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
}

// ScriptResult counts what a script did.
type ScriptResult struct {
	Lines    int // lines executed, not counting blanks and comments
	Applied  int // action tokens that changed the document
	NoOps    int // action tokens that changed nothing
	Commands int // :commands that succeeded
	Errors   []LineError
}

// RunLine executes one script line: an action token, or a :command. It
// reports whether an action token changed the document.
func (a *App) RunLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	if strings.HasPrefix(line, ":") {
		return false, a.RunCommand(line)
	}
	return a.Dispatch(line), nil
}

// RunScript executes r line by line. Blank lines and lines starting with
// '#' are skipped. A failing :command is recorded and the script goes on;
// only read errors and cancellation stop it.
func (a *App) RunScript(ctx context.Context, r io.Reader) (ScriptResult, error) {
	var res ScriptResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return res, err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		res.Lines++

		changed, err := a.RunLine(text)
		switch {
		case err != nil:
			logger.Warnf("App: script line %d: %v", n, err)
			res.Errors = append(res.Errors, LineError{Line: n, Text: text, Err: err})
		case strings.HasPrefix(text, ":"):
			res.Commands++
		case changed:
			res.Applied++
		default:
			res.NoOps++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("reading script: %w", err)
	}
	return res, nil
}
