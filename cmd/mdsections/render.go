package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdsections"
)

func newRenderCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render one markdown file, or stdin, to HTML.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, logger, err := opts.converter(cmd, nil)
			if err != nil {
				return err
			}

			var source []byte
			if len(args) == 0 || args[0] == "-" {
				source, err = io.ReadAll(cmd.InOrStdin())
			} else {
				source, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read markdown: %w", err)
			}

			html, err := conv.Convert(cmd.Context(), source)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("write html: %w", err)
			}
			logger.Info("render.written", "path", output, "bytes", len(html))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write HTML to this file instead of stdout")
	return cmd
}

func newRenderDirCmd(opts *options) *cobra.Command {
	var (
		outDir    string
		pattern   string
		recursive bool
		workers   int
		locales   []string
	)

	cmd := &cobra.Command{
		Use:   "render-dir <dir>",
		Short: "Render every markdown file below a directory.",
		Long: `Render every markdown file below a directory. Front matter is parsed and
stripped, drafts are skipped, and each document is written next to its
relative path under --out with an .html extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, logger, err := opts.converter(cmd, func(cfg *mdsections.Config) {
				cfg.Markdown.ContentDir = args[0]
				cfg.Markdown.Pattern = pattern
				cfg.Markdown.Recursive = recursive
				cfg.Markdown.Workers = workers
				cfg.Markdown.Locales = locales
			})
			if err != nil {
				return err
			}

			svc, err := conv.Documents()
			if err != nil {
				return err
			}

			result, err := svc.RenderDirectory(cmd.Context(), ".", mdsections.LoadOptions{})
			if err != nil {
				return err
			}

			for _, doc := range result.Documents {
				if doc.BodyHTML == nil {
					continue
				}
				if outDir == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "<!-- %s -->\n%s", doc.FilePath, doc.BodyHTML)
					continue
				}
				target := filepath.Join(outDir, filepath.FromSlash(htmlName(doc.FilePath)))
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
				if err := os.WriteFile(target, doc.BodyHTML, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
			}

			for _, docErr := range result.Errors {
				logger.Error("render_dir.document_failed", "error", docErr)
			}
			logger.Info("render_dir.completed",
				"rendered", result.Rendered,
				"skipped", result.Skipped,
				"errors", len(result.Errors),
			)
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d document(s) failed to render", len(result.Errors))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&outDir, "out", "", "Directory to write rendered HTML into (stdout when empty)")
	flags.StringVar(&pattern, "pattern", "*.md", "Glob matched against file names")
	flags.BoolVar(&recursive, "recursive", true, "Descend into sub-directories")
	flags.IntVar(&workers, "workers", 4, "Documents rendered concurrently")
	flags.StringSliceVar(&locales, "locale", nil, "Locale codes recognised as leading path segments")
	return cmd
}

func htmlName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".html"
}
