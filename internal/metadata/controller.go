package metadata

import (
	"context"
	"log/slog"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/metagen/internal/prompts/seo"
	"github.com/jackzampolin/metagen/internal/types"
)

// MaxRetries is the attempt budget per URL.
const MaxRetries = 3

// State is the position of a URL's run in the retry state machine.
type State int

const (
	// StateAttempting means another generation attempt is due.
	StateAttempting State = iota
	// StateSucceeded means a candidate passed validation.
	StateSucceeded
	// StateFailed means the attempt budget is exhausted.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt records one generation call.
type Attempt struct {
	Index             int      `json:"index"`
	Kind              seo.Kind `json:"kind"`
	Temperature       float64  `json:"temperature"`
	TitleLength       int      `json:"title_length,omitempty"`
	DescriptionLength int      `json:"description_length,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// Outcome is the terminal state of one URL's run.
type Outcome struct {
	URL       string
	State     State
	Candidate types.Candidate // Valid only when State is StateSucceeded
	Attempts  []Attempt
	Err       error // Set when State is StateFailed
}

// Result converts the outcome into the record handed to callers.
func (o Outcome) Result() types.Result {
	if o.State == StateSucceeded {
		return types.SuccessResult(o.URL, o.Candidate)
	}
	msg := "An unknown error occurred."
	if o.Err != nil {
		msg = o.Err.Error()
	}
	return types.ErrorResult(o.URL, msg)
}

// Controller drives the attempt loop for a single URL.
type Controller struct {
	gen    CandidateGenerator
	logger *slog.Logger
}

// NewController creates a Controller around gen.
func NewController(gen CandidateGenerator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{gen: gen, logger: logger}
}

// run is the mutable state of one URL's workflow. It is owned by a single
// goroutine.
type run struct {
	url       string
	state     State
	previous  *types.Candidate
	candidate types.Candidate
	attempts  []Attempt
	err       error
}

// Run executes up to MaxRetries attempts for url and always returns an
// outcome in a terminal state.
func (c *Controller) Run(ctx context.Context, url string) Outcome {
	r := &run{url: url, state: StateAttempting}
	logger := c.logger.With("url", url)

	err := retry.Do(
		func() error { return c.step(ctx, r, logger) },
		retry.Context(ctx),
		retry.Attempts(MaxRetries),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool { return r.state == StateAttempting }),
	)

	// The loop can stop early on context cancellation.
	if r.state == StateAttempting {
		if err == nil {
			err = ctx.Err()
		}
		r.fail(&ExhaustedError{Attempts: len(r.attempts), Err: err})
	}

	switch r.state {
	case StateSucceeded:
		logger.Info("metadata generated",
			"attempts", len(r.attempts),
			"title_length", r.candidate.TitleLength(),
			"description_length", r.candidate.DescriptionLength(),
		)
	case StateFailed:
		logger.Warn("metadata generation failed", "attempts", len(r.attempts), "error", r.err)
	}

	return Outcome{
		URL:       url,
		State:     r.state,
		Candidate: r.candidate,
		Attempts:  r.attempts,
		Err:       r.err,
	}
}

// step performs Attempting(n) and applies the resulting transition. A nil
// return means Succeeded; any error means the run either continues with
// Attempting(n+1) or has moved to Failed.
func (c *Controller) step(ctx context.Context, r *run, logger *slog.Logger) error {
	n := len(r.attempts)
	final := n == MaxRetries-1

	if err := ctx.Err(); err != nil {
		r.fail(&ExhaustedError{Attempts: n, Err: err})
		return err
	}

	att := Attempt{Index: n, Temperature: Temperature(n)}
	candidate, err := c.attempt(ctx, r, &att)
	if err != nil {
		att.Error = err.Error()
		r.attempts = append(r.attempts, att)
		logger.Warn("generation attempt failed", "attempt", n+1, "kind", att.Kind, "error", err)
		if final {
			r.fail(&ExhaustedError{Attempts: MaxRetries, Err: err})
		}
		return err
	}

	att.TitleLength = candidate.TitleLength()
	att.DescriptionLength = candidate.DescriptionLength()
	r.attempts = append(r.attempts, att)
	r.previous = &candidate

	if candidate.Validate().Valid() {
		r.state = StateSucceeded
		r.candidate = candidate
		return nil
	}

	violation := &ConstraintError{
		TitleLength:       att.TitleLength,
		DescriptionLength: att.DescriptionLength,
	}
	logger.Debug("candidate out of bounds", "attempt", n+1,
		"title_length", att.TitleLength, "description_length", att.DescriptionLength)
	if final {
		r.fail(&ExhaustedError{Attempts: MaxRetries, Err: violation})
	}
	return violation
}

func (c *Controller) attempt(ctx context.Context, r *run, att *Attempt) (types.Candidate, error) {
	prompt, err := seo.Build(r.url, att.Index, r.previous)
	if err != nil {
		return types.Candidate{}, err
	}
	att.Kind = prompt.Kind
	return c.gen.Generate(ctx, prompt, att.Index, r.previous)
}

func (r *run) fail(err error) {
	r.state = StateFailed
	r.err = err
}
