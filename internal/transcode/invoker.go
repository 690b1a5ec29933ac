package transcode

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"soundrip/internal/services"
)

// stderrTailLimit bounds the diagnostic carried on failures so log lines and
// chat messages stay a reasonable size.
const stderrTailLimit = 2000

// Executor abstracts subprocess execution for testability.
type Executor interface {
	// Run executes the binary and returns captured standard error. The
	// returned error reflects a non-zero exit or a start failure.
	Run(ctx context.Context, binary string, args []string) (stderr string, err error)
}

// Option configures the invoker.
type Option func(*Invoker)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(i *Invoker) {
		if exec != nil {
			i.exec = exec
		}
	}
}

// Invoker drives the external ffmpeg process.
type Invoker struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an invoker. A zero timeout leaves the subprocess unbounded.
func New(binary string, timeoutSeconds int, opts ...Option) (*Invoker, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	inv := &Invoker{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// Transcode converts inputPath into outputPath according to spec. Success
// requires a zero exit code and the output file existing afterwards; any
// other outcome carries the tail of the process's standard error.
func (i *Invoker) Transcode(ctx context.Context, inputPath, outputPath string, spec Spec) error {
	runCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	stderr, err := i.exec.Run(runCtx, i.binary, spec.Args(inputPath, outputPath))
	if err != nil {
		return services.Wrap(services.ErrTranscode, "transcode", "run ffmpeg", tail(stderr), err)
	}

	if _, statErr := os.Stat(outputPath); statErr != nil {
		return services.Wrap(services.ErrTranscode, "transcode", "verify output",
			"ffmpeg exited cleanly but produced no output file", nil)
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}
