package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"
)

// Returned when a subprocess writes more output than the caller allowed.
var ErrOutputTooLarge = errors.New("subprocess output exceeds size limit")

type SubprocessErr struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (err SubprocessErr) Error() string {
	if err.Stderr != "" {
		return fmt.Sprintf(
			"Git subprocess exited with code %d. Error output:\n%s",
			err.ExitCode,
			err.Stderr,
		)
	}

	return fmt.Sprintf("Git subprocess exited with code %d", err.ExitCode)
}

func (err SubprocessErr) Unwrap() error {
	return err.Err
}

type Subprocess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

func (s Subprocess) StdoutText() (string, error) {
	b, err := io.ReadAll(s.stdout)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

// Reads all of stdout without trimming it. Fails with ErrOutputTooLarge once
// more than limit bytes have been read. A limit <= 0 means no limit.
func (s Subprocess) StdoutString(limit int64) (string, error) {
	var r io.Reader = s.stdout
	if limit > 0 {
		r = io.LimitReader(s.stdout, limit+1)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	if limit > 0 && int64(len(b)) > limit {
		return "", fmt.Errorf("%w (%d bytes)", ErrOutputTooLarge, limit)
	}

	return string(b), nil
}

// Returns a single-use iterator over the output of the command, line by line.
func (s Subprocess) StdoutLines() (iter.Seq[string], func() error) {
	var iterErr error

	seq := func(yield func(string) bool) {
		scanner := bufio.NewScanner(s.stdout)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}

		iterErr = scanner.Err()
	}

	finish := func() error {
		if iterErr != nil {
			iterErr = fmt.Errorf("error while scanning: %w", iterErr)
		}

		return iterErr
	}

	return seq, finish
}

func (s Subprocess) Wait() error {
	logger().Debug("waiting for subprocess...")

	stderr, err := io.ReadAll(s.stderr)
	if err != nil {
		return fmt.Errorf("could not read stderr: %w", err)
	}

	err = s.cmd.Wait()
	logger().Debug(
		"subprocess exited",
		"code",
		s.cmd.ProcessState.ExitCode(),
	)

	if err != nil {
		return SubprocessErr{
			ExitCode: s.cmd.ProcessState.ExitCode(),
			Stderr:   strings.TrimSpace(string(stderr)),
			Err:      err,
		}
	}

	return nil
}

// Starts git with the given args. If dir is non-empty the subprocess runs with
// dir as its working directory.
func run(
	ctx context.Context,
	dir string,
	args []string,
) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	logger().Debug("running subprocess", "cmd", cmd, "dir", dir)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start subprocess: %w", err)
	}

	return &Subprocess{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}, nil
}
