package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ppiankov/morphcorp/internal/model"
)

// ErrAborted marks documents that were never processed because the batch
// stopped early.
var ErrAborted = errors.New("batch aborted")

// DocumentFunc processes the document with the given id
type DocumentFunc func(ctx context.Context, id int) error

// DocumentJob runs a DocumentFunc for one document
type DocumentJob struct {
	ID      int
	Process DocumentFunc
}

// Execute executes the document job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return &DocumentResult{ID: j.ID, Error: fmt.Errorf("%w: %v", ErrAborted, err)}
	}

	err := j.Process(ctx, j.ID)
	return &DocumentResult{
		ID:       j.ID,
		Error:    err,
		Duration: time.Since(start),
	}
}

// DocumentResult is the outcome of one document
type DocumentResult struct {
	ID       int
	Error    error
	Duration time.Duration
}

// GetError returns the error from the document result
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor processes documents concurrently
type BatchProcessor struct {
	concurrency int
	failFast    bool
	onDone      func(*DocumentResult)
}

// NewBatchProcessor creates a new batch processor. With failFast the batch
// stops at the first failed document.
func NewBatchProcessor(concurrency int, failFast bool) *BatchProcessor {
	return &BatchProcessor{
		concurrency: concurrency,
		failFast:    failFast,
	}
}

// OnDone registers a callback invoked once per finished document
func (b *BatchProcessor) OnDone(fn func(*DocumentResult)) {
	b.onDone = fn
}

// ProcessDocuments runs fn for every id and returns one result per id,
// sorted by id. Documents skipped after a fail-fast stop or a cancelled
// context carry ErrAborted. The returned error is the first failure when
// failing fast, or the context error.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, ids []int, fn DocumentFunc) ([]*DocumentResult, error) {
	if len(ids) == 0 {
		return []*DocumentResult{}, nil
	}

	pool := NewPool(ctx, b.concurrency)

	var firstErr error
	pool.OnResult(func(r Result) {
		res := r.(*DocumentResult)
		if b.onDone != nil {
			b.onDone(res)
		}
		if res.Error != nil && b.failFast && firstErr == nil && !errors.Is(res.Error, ErrAborted) {
			firstErr = fmt.Errorf("document %d: %w", res.ID, res.Error)
			pool.Cancel()
		}
	})
	pool.Start()

	stopped := false
	for _, id := range ids {
		if !pool.Submit(&DocumentJob{ID: id, Process: fn}) {
			stopped = true
			break
		}
	}

	var finished []Result
	if stopped {
		finished = pool.Shutdown()
	} else {
		finished = pool.Wait()
	}

	byID := make(map[int]*DocumentResult, len(ids))
	for _, r := range finished {
		res := r.(*DocumentResult)
		byID[res.ID] = res
	}

	results := make([]*DocumentResult, 0, len(ids))
	for _, id := range ids {
		res, ok := byID[id]
		if !ok {
			res = &DocumentResult{ID: id, Error: ErrAborted}
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	if firstErr != nil {
		return results, firstErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Outcomes converts results into report entries. artifact names the file a
// successful document produced.
func Outcomes(results []*DocumentResult, artifact func(id int) string) []model.DocumentOutcome {
	out := make([]model.DocumentOutcome, len(results))
	for i, r := range results {
		path := ""
		if r.Error == nil && artifact != nil {
			path = artifact(r.ID)
		}
		out[i] = model.NewDocumentOutcome(r.ID, path, r.Error, errors.Is(r.Error, ErrAborted), r.Duration)
	}
	return out
}
