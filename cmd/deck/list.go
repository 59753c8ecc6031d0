package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bethropolis/deck/internal/action"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List design themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd, nil)
		if err != nil {
			return err
		}
		defer session.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDARK\tBACKGROUND\tDESCRIPTION")
		for _, t := range session.Themes().List() {
			fmt.Fprintf(w, "%s\t%v\t%s\t%s\n", t.Name, t.IsDark, t.Background.Value, t.Description)
		}
		return w.Flush()
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List slide templates and the verbs that add them",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd, nil)
		if err != nil {
			return err
		}
		defer session.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERB\tELEMENTS\tDESCRIPTION")
		for _, t := range session.Templates().List() {
			fmt.Fprintf(w, "%s\t%d\t%s\n", action.TemplateVerb(t.Name), len(t.Slide.Elements), t.Description)
		}
		return w.Flush()
	},
}

var verbsCmd = &cobra.Command{
	Use:   "verbs",
	Short: "List the action verbs",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, info := range action.Verbs() {
			usage := string(info.Verb)
			if info.Usage != "" {
				usage += ":" + info.Usage
			}
			fmt.Fprintf(w, "%s\t%s\n", usage, info.Description)
		}
		fmt.Fprintf(w, "%s\t%s\n", action.TemplateVerb("<name>"), "Insert a slide from a template (see 'deck templates')")
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(themesCmd, templatesCmd, verbsCmd)
}
