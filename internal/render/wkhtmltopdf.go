package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandRunner abstracts command execution so the renderer can be tested
// without the binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

type WkhtmltopdfRenderer struct {
	Bin    string
	Runner CommandRunner
}

func NewWkhtmltopdf(bin string) *WkhtmltopdfRenderer {
	if bin == "" {
		bin = Wkhtmltopdf
	}

	return &WkhtmltopdfRenderer{Bin: bin, Runner: &ExecRunner{}}
}

// Render runs `wkhtmltopdf [options] in0 in1 ... out`.
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, files []string, output string, opts Options) error {
	if len(files) == 0 {
		return ErrNoInput
	}

	args := opts.Args()
	args = append(args, files...)
	args = append(args, output)

	_, stderr, err := r.Runner.Run(ctx, r.Bin, args...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%s: %s: %w", r.Bin, msg, err)
		}
		return fmt.Errorf("%s: %w", r.Bin, err)
	}

	return nil
}
