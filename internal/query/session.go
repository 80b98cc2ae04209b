package query

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/bowerhall/skugraph/internal/logger"
)

const prompt = "Enter your JSON query: "

// Session is an interactive loop reading one JSON query per line until
// quit, exit, end of input or cancellation.
type Session struct {
	ID  string
	idx Index
	in  io.Reader
	out io.Writer
}

func NewSession(idx Index, in io.Reader, out io.Writer) *Session {
	return &Session{
		ID:  uuid.New().String()[:8],
		idx: idx,
		in:  in,
		out: out,
	}
}

func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	logger.Debug("session started", "session", s.ID)
	queries := 0
	defer func() {
		logger.Debug("session ended", "session", s.ID, "queries", queries)
	}()

	for {
		fmt.Fprint(s.out, prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			fmt.Fprintln(s.out)
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		}

		queries++
		resp := ExecuteJSON(s.idx, line)
		if resp.Error != "" {
			logger.Debug("query rejected", "session", s.ID, "error", resp.Error)
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Fprintf(s.out, "Output: %s\n", data)
	}
}
