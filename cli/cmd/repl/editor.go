package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/log"
)

const defaultEditor = "vi"

// editVarsCommand implements [tea.ExecCommand] for the edit-parse-retry loop
// over the session variables. It writes the variables as declarations to a
// temp file, opens the user's editor, and evaluates the result into a new
// context. On a parse error the user is prompted to re-edit; declining exits
// the program.
type editVarsCommand struct {
	vars    lang.Context
	newVars lang.Context
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	opts    []lang.Option
}

// SetStdin sets the stdin reader for the command.
func (c *editVarsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editVarsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editVarsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. If the user declines to re-edit,
// it returns [ErrEditDeclined]. An emptied file leaves newVars nil.
func (c *editVarsCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if _, err := c.vars.WriteTo(&buf); err != nil {
		return fmt.Errorf("write variables: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), "abmeta-repl-*.defines")
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

	content := buf.Bytes()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		vars := lang.Context{}
		parseErr := lang.Parse(ctx, string(data), vars, c.opts...)

		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newVars = vars

			return nil
		}

		fmt.Fprintln(c.stderr)

		var perr *lang.ParseError
		if errors.As(parseErr, &perr) {
			fmt.Fprint(c.stderr, perr.Render(string(data), tmpPath, lang.WithColorFor(c.stderr)))
		} else {
			fmt.Fprintf(c.stderr, "Parse error: %s\n", parseErr)
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = data
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	fields := strings.Fields(os.Getenv("EDITOR"))
	if len(fields) == 0 {
		fields = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
