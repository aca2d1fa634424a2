package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/fixup"
	"github.com/coolbeans/lexhun/pkg/lines"
	"github.com/coolbeans/lexhun/pkg/parser"
	"github.com/coolbeans/lexhun/pkg/semantic"
)

var version = "0.1.0"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexhun",
		Short: "Hungarian statute parser and reference analyzer",
		Long: `Lexhun parses the plain text of Hungarian acts into a structured
element tree and analyzes the legal sublanguage inside it.

It produces:
  - The article/paragraph/point/subpoint structure as JSON
  - Outgoing references with exact character spans
  - Abbreviation definitions ("a továbbiakban: ...") and their uses
  - Amendment, repeal and enforcement date events
  - Re-parsed block amendment content`,
		Version: version,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log recovered errors and progress")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(refsCmd())
	rootCmd.AddCommand(abbrevsCmd())
	rootCmd.AddCommand(fixupsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// addInputFlags registers the flags shared by every command that reads an
// act from a text file.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("id", "", "act identifier, e.g. \"2013. évi V. törvény\"")
	cmd.Flags().String("subject", "", "act subject line")
	cmd.Flags().String("fixups", "", "directory of fixup files to apply before parsing")
}

// loadAct reads a text file, applies fixups when configured and parses it.
func loadAct(cmd *cobra.Command, path string) (*act.Act, error) {
	identifier, _ := cmd.Flags().GetString("id")
	subject, _ := cmd.Flags().GetString("subject")
	fixupDir, _ := cmd.Flags().GetString("fixups")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ls := lines.FromText(string(data))

	if fixupDir != "" {
		registry, err := fixup.NewRegistryWithDirectory(fixupDir, logger())
		if err != nil {
			return nil, err
		}
		ls, err = registry.Apply(identifier, ls)
		if err != nil {
			return nil, err
		}
	}

	parsed, err := parser.ParseAct(identifier, subject, ls)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parsed, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	output, _ := cmd.Flags().GetString("output")
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0644)
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an act into its element tree",
		Long: `Parse the plain text of an act into its structural element tree.

The input is plain text with indentation preserved as leading spaces.

Example:
  lexhun parse ptk.txt --id "2013. évi V. törvény" --output ptk.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := loadAct(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, parsed)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "write JSON here instead of stdout")
	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Parse an act and run semantic analysis",
		Long: `Parse an act and attach references, abbreviations and events to
every element, including re-parsed block amendment content.

Example:
  lexhun analyze modtv.txt --id "2012. évi CCVIII. törvény"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := loadAct(cmd, args[0])
			if err != nil {
				return err
			}
			analyzed := semantic.NewAnalyzer(logger()).Analyze(parsed)
			return writeJSON(cmd, analyzed)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "write JSON here instead of stdout")
	return cmd
}

// elementText returns the text the element's reference spans index into.
func elementText(e *act.SubArticleElement) string {
	if e.Text != "" {
		return e.Text
	}
	return e.Intro
}

func elementLabel(parent string, e *act.SubArticleElement) string {
	if e.Identifier == "" {
		return parent
	}
	if e.Kind == act.KindParagraph {
		return fmt.Sprintf("%s (%s)", parent, e.Identifier)
	}
	return fmt.Sprintf("%s %s)", parent, e.Identifier)
}

// walkElements visits every sub-article element in document order with a
// human-readable path like "12. § (2) b)".
func walkElements(a *act.Act, fn func(path string, e *act.SubArticleElement)) {
	var walk func(path string, e *act.SubArticleElement)
	walk = func(path string, e *act.SubArticleElement) {
		path = elementLabel(path, e)
		fn(path, e)
		for _, block := range e.Children {
			if sub, ok := block.(*act.SubArticleElement); ok {
				walk(path, sub)
			}
		}
	}
	for _, child := range a.Children {
		article, ok := child.(*act.Article)
		if !ok {
			continue
		}
		for _, paragraph := range article.Children {
			walk(article.Identifier+". §", paragraph)
		}
	}
}

func refsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs [file]",
		Short: "List outgoing references with their spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := loadAct(cmd, args[0])
			if err != nil {
				return err
			}
			analyzed := semantic.NewAnalyzer(logger()).Analyze(parsed)

			asJSON, _ := cmd.Flags().GetBool("json")
			type located struct {
				Path      string        `json:"path"`
				Span      string        `json:"span"`
				Reference act.Reference `json:"reference"`
			}
			var all []located
			walkElements(analyzed, func(path string, e *act.SubArticleElement) {
				text := elementText(e)
				for _, r := range e.OutgoingReferences {
					all = append(all, located{Path: path, Span: text[r.Start:r.End], Reference: r.Reference})
				}
			})
			if asJSON {
				return writeJSON(cmd, all)
			}
			for _, l := range all {
				fmt.Printf("%-20s %q -> %s\n", l.Path, l.Span, l.Reference.String())
			}
			fmt.Printf("\n%d references\n", len(all))
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("json", false, "emit JSON instead of text")
	cmd.Flags().StringP("output", "o", "", "write JSON here instead of stdout")
	return cmd
}

func abbrevsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abbrevs [file]",
		Short: "List abbreviation definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := loadAct(cmd, args[0])
			if err != nil {
				return err
			}
			analyzed := semantic.NewAnalyzer(logger()).Analyze(parsed)

			table := act.NewAbbreviationTable()
			walkElements(analyzed, func(_ string, e *act.SubArticleElement) {
				for _, a := range e.Abbreviations {
					table.Add(a)
				}
			})

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeJSON(cmd, table.Entries())
			}
			for _, entry := range table.Entries() {
				fmt.Printf("%-16s %s\n", entry.Abbreviation, entry.ActID)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("json", false, "emit JSON instead of text")
	cmd.Flags().StringP("output", "o", "", "write JSON here instead of stdout")
	return cmd
}

func fixupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixups",
		Short: "Inspect and author fixup files",
	}
	cmd.AddCommand(fixupsListCmd())
	cmd.AddCommand(fixupsDiffCmd())
	cmd.AddCommand(fixupsWatchCmd())
	return cmd
}

func fixupsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded fixups per act",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			registry, err := fixup.NewRegistryWithDirectory(dir, logger())
			if err != nil {
				return err
			}
			for _, actID := range registry.Acts() {
				fmt.Printf("%-32s %d fixups\n", actID, len(registry.OpsFor(actID)))
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "fixups", "fixup directory")
	return cmd
}

func fixupsDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [file]",
		Short: "Show what the act's fixups change in a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			identifier, _ := cmd.Flags().GetString("id")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			before := lines.FromText(string(data))

			registry, err := fixup.NewRegistryWithDirectory(dir, logger())
			if err != nil {
				return err
			}
			after, err := registry.Apply(identifier, before)
			if err != nil {
				return err
			}
			fmt.Print(fixup.RenderDiff(before, after))
			return nil
		},
	}
	cmd.Flags().String("dir", "fixups", "fixup directory")
	cmd.Flags().String("id", "", "act identifier, e.g. \"2013. évi V. törvény\"")
	return cmd
}

func fixupsWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a fixup directory and reload on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			registry, err := fixup.NewRegistryWithDirectory(dir, logger())
			if err != nil {
				return err
			}
			registry.SetOnChange(func(actID string) {
				fmt.Printf("reloaded fixups for %s\n", actID)
			})
			if err := registry.Watch(); err != nil {
				return err
			}
			defer registry.StopWatch()

			fmt.Printf("watching %s, Ctrl-C to stop\n", dir)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}
	cmd.Flags().String("dir", "fixups", "fixup directory")
	return cmd
}
