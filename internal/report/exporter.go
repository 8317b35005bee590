package report

import (
	"context"
	"fmt"

	"hvac-pq-report/internal/hvac"
)

// Artifact is a finished export held in memory
type Artifact struct {
	Format   Format
	FileName string
	Data     []byte
}

// Render produces the export synchronously
func Render(ctx context.Context, data *hvac.ReportData, f Format) (Artifact, error) {
	var (
		b   []byte
		err error
	)
	switch f {
	case FormatXLSX:
		b, err = Tabular(ctx, data)
	case FormatPDF:
		b, err = Paginated(ctx, data)
	case FormatDOCX:
		b, err = Document(ctx, data)
	default:
		return Artifact{}, fmt.Errorf("unknown export format %q: %w", f, hvac.ErrValidation)
	}
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Format: f, FileName: FileName(data.GeneralInfo, f), Data: b}, nil
}

// Exporter runs exports in the background, at most limit at a time
type Exporter struct {
	slots chan struct{}
}

func NewExporter(limit int) *Exporter {
	if limit < 1 {
		limit = 1
	}
	return &Exporter{slots: make(chan struct{}, limit)}
}

// Task is one running export
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	art    Artifact
	err    error
}

// Start snapshots data and renders it on its own goroutine. Cancelling ctx
// or calling Task.Cancel abandons the export.
func (e *Exporter) Start(ctx context.Context, data *hvac.ReportData, f Format) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{done: make(chan struct{}), cancel: cancel}
	snapshot := data.Clone()

	go func() {
		defer close(t.done)
		defer cancel()

		select {
		case e.slots <- struct{}{}:
			defer func() { <-e.slots }()
		case <-ctx.Done():
			t.err = ctx.Err()
			return
		}
		t.art, t.err = Render(ctx, snapshot, f)
	}()
	return t
}

// Done is closed when the export has finished
func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the export finishes or ctx is done
func (t *Task) Wait(ctx context.Context) (Artifact, error) {
	select {
	case <-t.done:
		return t.art, t.err
	case <-ctx.Done():
		return Artifact{}, ctx.Err()
	}
}
