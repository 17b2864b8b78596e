package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/coolbeans/draftsman/pkg/assemble"
	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/fix"
	"github.com/coolbeans/draftsman/pkg/fragment"
	"github.com/coolbeans/draftsman/pkg/metadata"
	"github.com/coolbeans/draftsman/pkg/render"
	"github.com/coolbeans/draftsman/pkg/style"
	"github.com/coolbeans/draftsman/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "draftsman",
		Short: "Legal draft assembly and validation",
		Long: `Draftsman assembles legal documents from ordered markdown fragments.

It joins numbered fragments into a single draft and produces:
  - Globally numbered paragraphs across all fragments
  - Resolved cross-references via {{LABEL:name}} / {{REF:name}} tokens
  - Style validation against configurable drafting rules
  - Markdown, HTML, and JSON renditions of the assembled draft`,
		Version: version,
	}

	rootCmd.AddCommand(assembleCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(fixCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func assembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a draft from a fragment directory",
		Long: `Assemble numbered markdown fragments into a single draft.

Fragments are read in lexical filename order (01_intro.md, 02_facts.md, ...),
paragraphs are numbered globally, and cross-references are resolved.

Example:
  draftsman assemble --source ./draft --type complaint
  draftsman assemble --source ./draft --output draft.md --format markdown --stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			docType, _ := cmd.Flags().GetString("type")
			rulesPath, _ := cmd.Flags().GetString("rules")
			metadataPath, _ := cmd.Flags().GetString("metadata")
			output, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("format")
			showStats, _ := cmd.Flags().GetBool("stats")
			skipValidation, _ := cmd.Flags().GetBool("skip-validation")

			opts, err := buildOptions(source, docType, rulesPath, metadataPath)
			if err != nil {
				return err
			}
			opts.SkipValidation = skipValidation

			assembler, err := assemble.New(opts)
			if err != nil {
				return err
			}

			startTime := time.Now()
			doc, err := assembler.Assemble(fragment.DirSource{Dir: source}, opts)
			if err != nil {
				return err
			}

			var rendered string
			switch format {
			case "markdown":
				rendered = render.Markdown(doc)
			case "html":
				rendered, err = render.HTML(doc, opts.Metadata)
				if err != nil {
					return fmt.Errorf("failed to render HTML: %w", err)
				}
			case "json":
				data, jsonErr := doc.ToJSON()
				if jsonErr != nil {
					return fmt.Errorf("failed to marshal document: %w", jsonErr)
				}
				rendered = string(data)
			default:
				return fmt.Errorf("unknown format: %s (expected json, markdown, or html)", format)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				fmt.Printf("Assembled draft written to: %s\n", output)
			} else {
				fmt.Println(rendered)
			}

			if showStats {
				fmt.Fprintf(os.Stderr, "\nAssembly statistics:\n")
				fmt.Fprintf(os.Stderr, "  Paragraphs: %d\n", doc.TotalParagraphs)
				fmt.Fprintf(os.Stderr, "  Labels:     %d\n", len(doc.Labels))
				fmt.Fprintf(os.Stderr, "  Errors:     %d\n", len(doc.Issues.Errors()))
				fmt.Fprintf(os.Stderr, "  Warnings:   %d\n", len(doc.Issues.Warnings()))
				fmt.Fprintf(os.Stderr, "  Duration:   %v\n", time.Since(startTime).Round(time.Millisecond))
			}

			if !doc.Issues.Valid() {
				fmt.Fprintf(os.Stderr, "\n%d issue(s) found; run 'draftsman validate' for details\n", len(doc.Issues))
			}
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", ".", "Fragment directory")
	cmd.Flags().StringP("type", "t", "", "Document type (complaint, motion)")
	cmd.Flags().String("rules", "", "Style rules file (YAML)")
	cmd.Flags().String("metadata", "", "Case metadata file (default: metadata.yml in source directory)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "markdown", "Output format (json, markdown, html)")
	cmd.Flags().Bool("stats", false, "Show assembly statistics")
	cmd.Flags().Bool("skip-validation", false, "Assemble without running style checks")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a fragment directory against style rules",
		Long: `Validate fragments without writing any output document.

Reports formatting problems (unbold paragraph numbers, unformatted
citations), weak language, unresolved references, and missing required
sections for the chosen document type.

Example:
  draftsman validate --source ./draft --type complaint
  draftsman validate --source ./draft --rules house_style.yml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			docType, _ := cmd.Flags().GetString("type")
			rulesPath, _ := cmd.Flags().GetString("rules")
			metadataPath, _ := cmd.Flags().GetString("metadata")
			strict, _ := cmd.Flags().GetBool("strict")

			opts, err := buildOptions(source, docType, rulesPath, metadataPath)
			if err != nil {
				return err
			}

			assembler, err := assemble.New(opts)
			if err != nil {
				return err
			}

			doc, err := assembler.Assemble(fragment.DirSource{Dir: source}, opts)
			if err != nil {
				return err
			}

			fmt.Println(render.IssueReport(doc))

			if len(doc.Issues.Errors()) > 0 {
				os.Exit(1)
			}
			if strict && len(doc.Issues.Warnings()) > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", ".", "Fragment directory")
	cmd.Flags().StringP("type", "t", "", "Document type (complaint, motion)")
	cmd.Flags().String("rules", "", "Style rules file (YAML)")
	cmd.Flags().String("metadata", "", "Case metadata file (default: metadata.yml in source directory)")
	cmd.Flags().Bool("strict", false, "Exit non-zero on warnings as well as errors")

	return cmd
}

func fixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply automatic formatting fixes to fragments",
		Long: `Rewrite fragments in place, fixing mechanical formatting problems.

Fixes applied: legacy **P1** markers converted to **1.**, unbold
paragraph numbers bolded, statute citations bolded, case names
italicized, header levels clamped.

Example:
  draftsman fix --source ./draft
  draftsman fix --source ./draft --convert-p --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			convertOnly, _ := cmd.Flags().GetBool("convert-p")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			entries, err := filepath.Glob(filepath.Join(source, "*.md"))
			if err != nil {
				return fmt.Errorf("failed to list fragments: %w", err)
			}
			if len(entries) == 0 {
				return fmt.Errorf("no markdown fragments found in %s", source)
			}

			totalFixes := 0
			for _, path := range entries {
				raw, readErr := os.ReadFile(path)
				if readErr != nil {
					return fmt.Errorf("failed to read %s: %w", path, readErr)
				}

				var fixed string
				var fixes []fix.Fix
				if convertOnly {
					converted, count := fix.ConvertLegacyMarkers(string(raw))
					fixed = converted
					for i := 0; i < count; i++ {
						fixes = append(fixes, fix.Fix{Type: "legacy_marker", Message: "converted legacy paragraph marker"})
					}
				} else {
					fixed, fixes = fix.FixText(string(raw))
				}

				if len(fixes) == 0 {
					continue
				}
				totalFixes += len(fixes)

				fmt.Printf("%s: %d fix(es)\n", filepath.Base(path), len(fixes))
				for _, applied := range fixes {
					if applied.Line > 0 {
						fmt.Printf("  line %d: %s\n", applied.Line, applied.Message)
					} else {
						fmt.Printf("  %s\n", applied.Message)
					}
				}

				if dryRun {
					continue
				}
				if writeErr := os.WriteFile(path, []byte(fixed), 0644); writeErr != nil {
					return fmt.Errorf("failed to write %s: %w", path, writeErr)
				}
			}

			if totalFixes == 0 {
				fmt.Println("No fixes needed")
			} else if dryRun {
				fmt.Printf("\n%d fix(es) found (dry run, nothing written)\n", totalFixes)
			} else {
				fmt.Printf("\n%d fix(es) applied\n", totalFixes)
			}
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", ".", "Fragment directory")
	cmd.Flags().Bool("convert-p", false, "Only convert legacy **P1** markers")
	cmd.Flags().Bool("dry-run", false, "Report fixes without writing files")

	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a fragment directory and re-assemble on change",
		Long: `Continuously re-assemble the draft as fragments change.

Each save triggers a fresh assembly; a short validation summary is
printed after every rebuild. Press Ctrl+C to stop.

Example:
  draftsman watch --source ./draft --type complaint --output preview.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			docType, _ := cmd.Flags().GetString("type")
			rulesPath, _ := cmd.Flags().GetString("rules")
			metadataPath, _ := cmd.Flags().GetString("metadata")
			output, _ := cmd.Flags().GetString("output")

			opts, err := buildOptions(source, docType, rulesPath, metadataPath)
			if err != nil {
				return err
			}

			assembler, err := assemble.New(opts)
			if err != nil {
				return err
			}

			watcher := watch.New(source, assembler, opts, func(result watch.Result) {
				timestamp := time.Now().Format("15:04:05")
				if result.Err != nil {
					fmt.Printf("[%s] assembly failed: %v\n", timestamp, result.Err)
					return
				}
				doc := result.Document
				fmt.Printf("[%s] assembled: %d paragraphs, %d errors, %d warnings\n",
					timestamp, doc.TotalParagraphs, len(doc.Issues.Errors()), len(doc.Issues.Warnings()))
				for _, issue := range doc.Issues.Errors() {
					fmt.Printf("  %s\n", issue.String())
				}
				if output != "" {
					if writeErr := writeRendition(doc, opts.Metadata, output); writeErr != nil {
						fmt.Printf("  failed to write %s: %v\n", output, writeErr)
					}
				}
			})

			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", source)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			fmt.Println("\nStopped")
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", ".", "Fragment directory")
	cmd.Flags().StringP("type", "t", "", "Document type (complaint, motion)")
	cmd.Flags().String("rules", "", "Style rules file (YAML)")
	cmd.Flags().String("metadata", "", "Case metadata file (default: metadata.yml in source directory)")
	cmd.Flags().StringP("output", "o", "", "Rendition written after each rebuild (.md or .html)")

	return cmd
}

// buildOptions loads the rule set and metadata shared by every command.
func buildOptions(source, docType, rulesPath, metadataPath string) (assemble.Options, error) {
	opts := assemble.Options{DocumentType: docType}

	if rulesPath != "" {
		rules, err := style.LoadRuleSet(rulesPath)
		if err != nil {
			return opts, fmt.Errorf("failed to load rules: %w", err)
		}
		opts.Rules = rules
	}

	var meta *metadata.Metadata
	var err error
	if metadataPath != "" {
		raw, readErr := os.ReadFile(metadataPath)
		if readErr != nil {
			return opts, fmt.Errorf("failed to read metadata: %w", readErr)
		}
		meta, err = metadata.Parse(raw)
	} else {
		meta, err = metadata.Load(source)
	}
	if err != nil {
		return opts, fmt.Errorf("failed to load metadata: %w", err)
	}
	opts.Metadata = meta

	return opts, nil
}

// writeRendition picks the output format from the file extension.
func writeRendition(doc *document.Document, meta *metadata.Metadata, output string) error {
	var rendered string
	var err error
	switch strings.ToLower(filepath.Ext(output)) {
	case ".html", ".htm":
		rendered, err = render.HTML(doc, meta)
		if err != nil {
			return err
		}
	case ".json":
		data, jsonErr := doc.ToJSON()
		if jsonErr != nil {
			return jsonErr
		}
		rendered = string(data)
	default:
		rendered = render.Markdown(doc)
	}
	return os.WriteFile(output, []byte(rendered), 0644)
}
