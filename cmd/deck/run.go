package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bethropolis/deck/internal/app"
	"github.com/bethropolis/deck/internal/outline"
	"github.com/bethropolis/deck/internal/store"
)

var runOpts struct {
	file     string
	out      string
	write    bool
	outline  bool
	pretty   bool
	geometry bool
	json     bool
}

var runCmd = &cobra.Command{
	Use:   "run [script...]",
	Short: "Apply action scripts to a document",
	Long: `Runs one or more scripts against a document. Each script line is an action
token (ADD_TEXT, SLIDE_BACKGROUND:#ff0000, ...) or a :command (:undo, :select-slide
#2, :save out.yaml). Blank lines and lines starting with '#' are skipped. With no
script arguments the script is read from standard input.`,
	Example: `  deck run -f talk.yaml --write edits.deck
  echo ADD_SHAPE | deck run --outline`,
	RunE: runScripts,
}

func init() {
	rootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.StringVarP(&runOpts.file, "file", "f", "", "Document to open before running (yaml or json)")
	f.StringVarP(&runOpts.out, "out", "o", "", "Save the result to this file")
	f.BoolVarP(&runOpts.write, "write", "w", false, "Save the result back to --file")
	f.BoolVar(&runOpts.outline, "outline", false, "Print a markdown outline of the result")
	f.BoolVar(&runOpts.pretty, "pretty", false, "Render the outline for the terminal")
	f.BoolVar(&runOpts.geometry, "geometry", false, "Include element positions in the outline")
	f.BoolVar(&runOpts.json, "json", false, "Print the resulting document as JSON")
}

func runScripts(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	defer session.Close()

	if runOpts.file != "" {
		if err := session.Open(ctx, runOpts.file); err != nil {
			return fmt.Errorf("opening %s: %w", runOpts.file, err)
		}
	}

	var failed int
	if len(args) == 0 {
		n, err := runOne(ctx, cmd, session, "<stdin>", cmd.InOrStdin())
		if err != nil {
			return err
		}
		failed += n
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		n, err := runOne(ctx, cmd, session, path, f)
		f.Close()
		if err != nil {
			return err
		}
		failed += n
	}

	switch {
	case runOpts.out != "":
		if err := session.Save(ctx, runOpts.out); err != nil {
			return err
		}
	case runOpts.write:
		if err := session.Save(ctx, ""); err != nil {
			return err
		}
	}

	if err := printResult(cmd, session); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d script line(s) failed", failed)
	}
	return nil
}

// runOne runs a single script and reports its failed lines on stderr.
func runOne(ctx context.Context, cmd *cobra.Command, session *app.App, name string, r io.Reader) (int, error) {
	res, err := session.RunScript(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	for _, le := range res.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, le)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d lines, %d applied, %d no-op, %d commands, %d errors\n",
		name, res.Lines, res.Applied, res.NoOps, res.Commands, len(res.Errors))
	return len(res.Errors), nil
}

func printResult(cmd *cobra.Command, session *app.App) error {
	out := cmd.OutOrStdout()
	if runOpts.json {
		data, err := store.Encode(session.Snapshot(), store.FormatJSON)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	if !runOpts.outline && !runOpts.pretty {
		return nil
	}

	md := session.Outline(outline.Options{Geometry: runOpts.geometry})
	if !runOpts.pretty {
		_, err := io.WriteString(out, md)
		return err
	}
	render, err := outline.NewRenderer(80)
	if err != nil {
		return err
	}
	rendered, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
