// Package integrate drives one evaluation: check which task artifacts exist,
// pull fenced fragments out of the finished ones, rewrite them, and hand them
// to an Applier. Each task is isolated; a failure in one never stops the run.

package integrate

import (
	"fmt"
	"io"

	"github.com/kingrea/graft/internal/artifact"
	"github.com/kingrea/graft/internal/extract"
	"github.com/kingrea/graft/internal/logbook"
	"github.com/kingrea/graft/internal/logging"
	"github.com/kingrea/graft/internal/rewrite"
	"github.com/kingrea/graft/internal/task"
)

// Outcome classifies what happened to one task during a run.
type Outcome string

const (
	OutcomePending     Outcome = "pending"
	OutcomeCheckError  Outcome = "check-error"
	OutcomeReadError   Outcome = "read-error"
	OutcomeNoFragments Outcome = "no-fragments"
	OutcomeApplyError  Outcome = "apply-error"
	OutcomeApplied     Outcome = "applied"
	OutcomeExtracted   Outcome = "extracted" // rewritten, not handed to an Applier
)

// TaskResult is the per-task result of a run.
type TaskResult struct {
	Status    artifact.Status
	Outcome   Outcome
	Fragments []extract.Fragment
	Err       error
}

// Task is a shorthand for the descriptor behind the result.
func (r TaskResult) Task() task.Descriptor {
	return r.Status.Task
}

// Summary aggregates a run.
type Summary struct {
	Artifacts artifact.Summary
	Results   []TaskResult
}

// Count returns how many tasks ended with the given outcome.
func (s Summary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Applier receives the rewritten fragments of one task. Where and how they
// land in the target tree is up to the implementation.
type Applier interface {
	Apply(d task.Descriptor, fragments []extract.Fragment) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(task.Descriptor, []extract.Fragment) error

// Apply calls f.
func (f ApplierFunc) Apply(d task.Descriptor, fragments []extract.Fragment) error {
	return f(d, fragments)
}

// Options wires a Runner. Tracker is required; Applier defaults to a
// PreviewApplier writing to Out.
type Options struct {
	Registry  task.Registry
	Tracker   *artifact.Tracker
	Extractor extract.Extractor
	Rules     rewrite.Rules
	Applier   Applier
	Out       io.Writer
	Logger    *logging.Logger
	Journal   *logbook.Logbook
	Title     string
	NextSteps []string
}

// Runner evaluates the registry once per call.
type Runner struct {
	opts    Options
	printer *printer
}

// New builds a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("integrate: tracker is required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Title == "" {
		opts.Title = "graft: task output integration"
	}
	p := newPrinter(opts.Out)
	if opts.Applier == nil {
		opts.Applier = &PreviewApplier{printer: p}
	}
	return &Runner{opts: opts, printer: p}, nil
}

// Check reports the completion state of every task.
func (r *Runner) Check() []artifact.Status {
	statuses := r.opts.Tracker.Check(r.opts.Registry)
	for _, st := range statuses {
		r.opts.Logger.Debug("artifact checked", "task", st.Task.ID, "path", st.Path, "state", st.State)
	}
	return statuses
}

// Process reads one completed artifact, extracts its fragments and rewrites
// each of them. It does not call the Applier.
func (r *Runner) Process(st artifact.Status) TaskResult {
	result := TaskResult{Status: st}
	switch st.State {
	case artifact.StatePending:
		result.Outcome = OutcomePending
		return result
	case artifact.StateError:
		result.Outcome = OutcomeCheckError
		result.Err = st.Err
		return result
	}
	text, err := r.opts.Tracker.Read(st.Path)
	if err != nil {
		result.Outcome = OutcomeReadError
		result.Err = err
		r.opts.Logger.Error("artifact unreadable", "task", st.Task.ID, "path", st.Path, "err", err)
		return result
	}
	fragments := r.opts.Extractor.Extract(text)
	if len(fragments) == 0 {
		result.Outcome = OutcomeNoFragments
		r.opts.Logger.Warn("no fragments", "task", st.Task.ID, "fence", r.opts.Extractor.Lang())
		return result
	}
	for i := range fragments {
		fragments[i].Body = r.opts.Rules.Apply(fragments[i].Body)
	}
	result.Outcome = OutcomeExtracted
	result.Fragments = fragments
	r.opts.Logger.Info("fragments extracted", "task", st.Task.ID, "fragments", len(fragments))
	return result
}

// Evaluate checks every task and processes the completed ones without
// printing or applying anything.
func (r *Runner) Evaluate() Summary {
	statuses := r.Check()
	sum := Summary{Artifacts: artifact.Summarize(statuses)}
	for _, st := range statuses {
		sum.Results = append(sum.Results, r.Process(st))
	}
	return sum
}

// Run performs a full reported evaluation. Missing or broken artifacts are
// reported per task and never make the run fail.
func (r *Runner) Run() Summary {
	p := r.printer
	statuses := r.Check()
	sum := Summary{Artifacts: artifact.Summarize(statuses)}
	journal := r.opts.Journal.StartRun(fmt.Sprintf("%d/%d tasks completed", sum.Artifacts.Completed, sum.Artifacts.Total))

	p.banner(r.opts.Title)
	p.statusList(statuses)
	p.totals(sum.Artifacts)

	if sum.Artifacts.Completed == 0 {
		for _, st := range statuses {
			res := TaskResult{Status: st, Outcome: outcomeFor(st), Err: st.Err}
			sum.Results = append(sum.Results, res)
			journal.Record(levelFor(res.Outcome), st.Task.ID, describe(res))
		}
		p.waiting(statuses)
		return sum
	}

	p.section("Starting integration...")
	for _, st := range statuses {
		if !st.Completed() {
			res := TaskResult{Status: st, Outcome: outcomeFor(st), Err: st.Err}
			sum.Results = append(sum.Results, res)
			journal.Record(levelFor(res.Outcome), st.Task.ID, describe(res))
			continue
		}
		p.taskHeader(st)
		res := r.Process(st)
		if res.Outcome == OutcomeExtracted {
			res = r.apply(res)
		}
		p.taskResult(res)
		sum.Results = append(sum.Results, res)
		journal.Record(levelFor(res.Outcome), st.Task.ID, describe(res))
	}
	p.section("Integration complete!")
	p.nextSteps(r.opts.NextSteps)
	return sum
}

func (r *Runner) apply(res TaskResult) (out TaskResult) {
	out = res
	defer func() {
		if rec := recover(); rec != nil {
			out.Outcome = OutcomeApplyError
			out.Err = fmt.Errorf("integrate: applier panicked: %v", rec)
			r.opts.Logger.Error("apply panicked", "task", res.Task().ID, "panic", rec)
		}
	}()
	r.printer.found(len(res.Fragments))
	if err := r.opts.Applier.Apply(res.Task(), res.Fragments); err != nil {
		out.Outcome = OutcomeApplyError
		out.Err = err
		r.opts.Logger.Error("apply failed", "task", res.Task().ID, "err", err)
		return out
	}
	out.Outcome = OutcomeApplied
	return out
}

func outcomeFor(st artifact.Status) Outcome {
	if st.State == artifact.StateError {
		return OutcomeCheckError
	}
	return OutcomePending
}

func levelFor(o Outcome) logbook.Level {
	switch o {
	case OutcomeReadError, OutcomeApplyError, OutcomeCheckError:
		return logbook.LevelError
	case OutcomeNoFragments:
		return logbook.LevelWarn
	default:
		return logbook.LevelInfo
	}
}

func describe(res TaskResult) string {
	switch {
	case res.Err != nil:
		return fmt.Sprintf("%s: %v", res.Outcome, res.Err)
	case len(res.Fragments) > 0:
		return fmt.Sprintf("%s: %d fragment(s)", res.Outcome, len(res.Fragments))
	default:
		return string(res.Outcome)
	}
}
