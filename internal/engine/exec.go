package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// waitDelay bounds how long we wait for the output pipes to drain once the
// engine has been killed; post-processors spawned by the engine may hold them.
const waitDelay = 5 * time.Second

// Error is returned when the engine exits unsuccessfully. Message is the
// engine's own diagnostic, suitable for showing to a user.
type Error struct {
	ExitCode int
	Message  string
	Err      error
}

func (err *Error) Error() string { return err.Message }
func (err *Error) Unwrap() error { return err.Err }

type result struct {
	stdout []byte
	stderr []byte
}

// run executes the engine binary, capturing both output streams. When the
// context is cancelled the process is killed.
func run(ctx context.Context, bin string, args []string) (result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	log.Debugf("+ %s\n", commandLine(bin, args))
	err := cmd.Run()
	res := result{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	engineErr := &Error{ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		engineErr.ExitCode = exitErr.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		engineErr.Err = ctxErr
		engineErr.Message = fmt.Sprintf("engine did not finish: %s", ctxErr)
	} else {
		engineErr.Message = diagnostic(res.stderr, err)
	}

	return res, engineErr
}

// diagnostic extracts the most useful line from the engine's stderr: the last
// line carrying an ERROR marker, else the last non-empty line, else the
// process error itself.
func diagnostic(stderr []byte, fallback error) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")

	lastLine := ""
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
		if lastLine == "" {
			lastLine = line
		}
	}

	if lastLine != "" {
		return lastLine
	}

	return fallback.Error()
}

// commandLine renders a printable command line for debug logging.
func commandLine(bin string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(bin)
	for _, a := range args {
		b.WriteByte(' ')
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\$;&|()") {
			b.WriteString(strconv.Quote(a))
		} else {
			b.WriteString(a)
		}
	}

	return b.String()
}
