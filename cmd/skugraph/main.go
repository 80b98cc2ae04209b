package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bowerhall/skugraph/internal/logger"
)

const (
	exitOK           = 0
	exitLoadFailed   = 1
	exitInvalidQuery = 2
)

func init() {
	godotenv.Load()
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(legacyArgs(os.Args[1:]))

	err := cmd.ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return exitOK
	}

	logger.Error("skugraph failed", "error", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitLoadFailed
}

// legacyArgs rewrites the single-dash long flags accepted by earlier releases
// (-subject, -object, -relation) into their double-dash form.
func legacyArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		for _, name := range []string{"subject", "object", "relation"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				out[i] = "-" + arg
				break
			}
		}
	}
	return out
}
