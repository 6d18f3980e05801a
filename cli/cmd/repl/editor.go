package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It writes the previous program to a temp file, opens the user's editor,
// and parses the result. On parse error the user is prompted to re-edit;
// declining exits the program.
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	opts    []lang.Option
	source  string // program text, updated by a successful edit
	program *lang.Program
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An empty file cancels the edit
// and leaves program nil. If the user declines to re-edit after a parse
// error, it returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "lox-repl-*.lox")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := c.source

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		// Treat a cleared file as a cancelled edit.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		content = string(data)

		program, parseErr := lang.ParseString(ctx, content, c.opts...)
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.source, c.program = content, program

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}
	}
}

// confirm reads one line from r and reports whether it is not a "no".
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))

	return response != "n" && response != "no"
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	// The editor variable may carry arguments, such as "code --wait".
	args := strings.Fields(os.Getenv("VISUAL"))
	if len(args) == 0 {
		args = strings.Fields(os.Getenv("EDITOR"))
	}

	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	args = append(args, path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
