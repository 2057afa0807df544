package cmd

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/brogergvhs/tocpdf/internal/config"
	"github.com/brogergvhs/tocpdf/internal/render"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
)

type rendererCheck struct {
	Name  string
	Path  string
	Found bool
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that a PDF renderer is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := config.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		checks := runDoctor(cfg.RendererBin, cfg.Renderer)
		printDoctor(cmd.OutOrStdout(), checks)

		return checkConfigured(checks, cfg.Renderer)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor looks up both renderers; bin overrides the lookup for the
// configured one.
func runDoctor(bin, configured string) []rendererCheck {
	configured = rendererName(configured)

	wk := rendererCheck{Name: render.Wkhtmltopdf}
	wkBin := render.Wkhtmltopdf
	if configured == render.Wkhtmltopdf && bin != "" {
		wkBin = bin
	}
	if p, err := exec.LookPath(wkBin); err == nil {
		wk.Path, wk.Found = p, true
	}

	ch := rendererCheck{Name: render.Chrome}
	if configured == render.Chrome && bin != "" {
		if p, err := exec.LookPath(bin); err == nil {
			ch.Path, ch.Found = p, true
		}
	} else if p, ok := launcher.LookPath(); ok {
		ch.Path, ch.Found = p, true
	}

	return []rendererCheck{wk, ch}
}

// rendererName matches render.New: case-insensitive, empty means wkhtmltopdf.
func rendererName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return render.Wkhtmltopdf
	}

	return name
}

func checkConfigured(checks []rendererCheck, configured string) error {
	name := rendererName(configured)
	for _, c := range checks {
		if c.Name == name && !c.Found {
			return fmt.Errorf("configured renderer %q is not available", configured)
		}
	}

	return nil
}

func printDoctor(w io.Writer, checks []rendererCheck) {
	for _, c := range checks {
		if c.Found {
			_, _ = fmt.Fprintf(w, "  [OK]      %-12s %s\n", c.Name, c.Path)
		} else {
			_, _ = fmt.Fprintf(w, "  [MISSING] %-12s\n", c.Name)
		}
	}
}
