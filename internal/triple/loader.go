package triple

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const maxLineSize = 1024 * 1024

// LoadAll parses every line of every source in order. A malformed line is
// recorded in Result.Failures and loading carries on with the next line.
func LoadAll(sources []Source) Result {
	var res Result

	for _, src := range sources {
		for i, line := range src.Lines {
			t, ok, err := ParseLine(line)
			if err != nil {
				var perr *ParseError
				if !errors.As(err, &perr) {
					perr = &ParseError{Text: line, Reason: err.Error()}
				}
				perr.Source = src.Name
				perr.Line = i + 1
				res.Failures = append(res.Failures, perr)
				continue
			}

			if ok {
				res.Triples = append(res.Triples, t)
			}
		}
	}

	return res
}

// ReadSource reads r to the end and splits it into lines.
func ReadSource(name string, r io.Reader) (Source, error) {
	src := Source{Name: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		src.Lines = append(src.Lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return Source{}, fmt.Errorf("read %s: %w", name, err)
	}

	return src, nil
}
