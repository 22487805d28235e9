package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/logging"
	"github.com/agentstation/dimcheck/pkg/report"
)

// Prompter asks the operator whether to retry a blocked write.
type Prompter interface {
	Confirm(prompt string) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(prompt string) (bool, error)

// Confirm implements Prompter.
func (fn PrompterFunc) Confirm(prompt string) (bool, error) { return fn(prompt) }

// LinePrompter reads a yes/no answer from a line oriented input. An empty
// answer means yes. Unrecognised answers are rejected and the question is
// asked again; end of input means no.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a prompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm implements Prompter.
func (p *LinePrompter) Confirm(prompt string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(p.out, "%s (Y/n): ", prompt); err != nil {
			return false, err
		}
		answer, err := p.in.ReadString('\n')
		if err == io.EOF && answer == "" {
			return false, nil
		}
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if _, err := fmt.Fprintln(p.out, "Invalid input"); err != nil {
			return false, err
		}
	}
}

// RetryingSink retries writes that fail because the output file is locked,
// asking the prompter before every new attempt.
type RetryingSink struct {
	Sink       Sink
	Prompter   Prompter
	MaxRetries int
	Backoff    time.Duration
	Logger     *zerolog.Logger
}

// NewRetryingSink wraps sink with the default retry policy.
func NewRetryingSink(sink Sink, p Prompter) *RetryingSink {
	return &RetryingSink{
		Sink:       sink,
		Prompter:   p,
		MaxRetries: constants.MaxRetries,
		Backoff:    constants.RetryBackoff,
	}
}

// Write implements Sink.
func (s *RetryingSink) Write(ctx context.Context, path string, r *report.Report) error {
	logger := s.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = s.Sink.Write(ctx, path, r)
		if err == nil || !errors.IsFileLocked(err) {
			return err
		}
		if attempt+1 >= s.MaxRetries || s.Prompter == nil {
			break
		}

		logger.Warn().Str("path", path).Int("attempt", attempt+1).Msg("Output file is open in another program")
		ok, perr := s.Prompter.Confirm(fmt.Sprintf("Close %s and retry?", path))
		if perr != nil {
			return errors.Join(err, perr)
		}
		if !ok {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(errors.ErrCanceled, ctx.Err())
		case <-time.After(s.Backoff):
		}
	}
	return errors.WrapResource("export", "report", path, err)
}
