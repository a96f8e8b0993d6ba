package model

import (
	"errors"
	"fmt"
	"time"
)

// Stage names a pass over the corpus.
type Stage string

const (
	StageBasic     Stage = "basic"
	StageAdvanced  Stage = "advanced"
	StageFrequency Stage = "frequency"
)

// DocumentStatus is the outcome of one document within a stage.
type DocumentStatus string

const (
	StatusOK      DocumentStatus = "ok"
	StatusFailed  DocumentStatus = "failed"
	StatusSkipped DocumentStatus = "skipped" // not processed because the stage stopped early
)

// DocumentOutcome records what a stage did with one document.
type DocumentOutcome struct {
	ID       int            `json:"id"`
	Status   DocumentStatus `json:"status"`
	Artifact string         `json:"artifact,omitempty"` // path written on success
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration_ns"`

	err error
}

// NewDocumentOutcome builds an outcome from a document error; nil is success.
func NewDocumentOutcome(id int, artifact string, err error, skipped bool, d time.Duration) DocumentOutcome {
	o := DocumentOutcome{ID: id, Duration: d, err: err}
	switch {
	case err == nil:
		o.Status = StatusOK
		o.Artifact = artifact
	case skipped:
		o.Status = StatusSkipped
		o.Error = err.Error()
	default:
		o.Status = StatusFailed
		o.Error = err.Error()
	}
	return o
}

// Err returns the document error, if any.
func (o DocumentOutcome) Err() error {
	return o.err
}

// RunReport summarizes one stage over the corpus, documents in id order.
type RunReport struct {
	Stage     Stage             `json:"stage"`
	RunID     string            `json:"run_id,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration_ns"`
	Documents []DocumentOutcome `json:"documents"`
}

// Count returns the number of documents with status s.
func (r *RunReport) Count(s DocumentStatus) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == s {
			n++
		}
	}
	return n
}

// OK reports whether every document succeeded.
func (r *RunReport) OK() bool {
	return r.Count(StatusOK) == len(r.Documents)
}

// Err joins the errors of failed documents; nil when none failed.
func (r *RunReport) Err() error {
	var errs []error
	for _, d := range r.Documents {
		if d.Status != StatusFailed {
			continue
		}
		err := d.err
		if err == nil {
			err = errors.New(d.Error)
		}
		errs = append(errs, fmt.Errorf("document %d: %w", d.ID, err))
	}
	return errors.Join(errs...)
}

// Summary is a one-line human readable account of the report.
func (r *RunReport) Summary() string {
	return fmt.Sprintf("%s: %d ok, %d failed, %d skipped in %s",
		r.Stage, r.Count(StatusOK), r.Count(StatusFailed), r.Count(StatusSkipped), r.Duration.Round(time.Millisecond))
}
