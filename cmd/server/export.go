package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ayush/paper-studio/internal/llm"
)

var exportCmd = &cobra.Command{
	Use:   "export <document>",
	Short: "Write a stored paper as Markdown",
	Long: `Export renders a stored paper exactly as the download endpoint does. On a
terminal the Markdown is pretty-printed unless --raw is given; redirected
output and --output files always get the plain Markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, llm.NewGemini(cfg.LLM.BaseURL, logger), logger)
		if err != nil {
			return err
		}
		defer a.close()

		body, filename, err := a.writing.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		raw, _ := cmd.Flags().GetBool("raw")
		switch out {
		case "":
			if !raw && stdoutIsTerminal(cmd) {
				if body, err = renderMarkdown(body); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		case ".":
			out = filename
		}
		if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "wrote", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", `output file; "." uses the paper's title as the file name (default stdout)`)
	exportCmd.Flags().Bool("raw", false, "print plain Markdown even on a terminal")
	rootCmd.AddCommand(exportCmd)
}

func stdoutIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(md)
}
