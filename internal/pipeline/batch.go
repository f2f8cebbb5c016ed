package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/psvident/internal/model"
)

// DefaultConcurrency processes dumps one at a time.
const DefaultConcurrency = 1

// PipelineFactory creates the pipeline for the dump directory dir.
type PipelineFactory func(dir string) *Pipeline

// BatchProcessor runs one pipeline per dump directory.
// It uses errgroup to bound the number of dumps processed at once.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline, and with it a fresh
	// device, for each dump.
	pipelineFactory PipelineFactory

	// concurrency is the maximum number of dumps processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports in input order.
	results []*model.DeviceReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of dumps processed at once.
// Non-positive values keep DefaultConcurrency.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per dump directory.
func NewBatchProcessor(pipelineFactory PipelineFactory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*model.DeviceReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch builds a report for every dump directory in dirs.
// Reports are returned in the order of dirs, including reports of dumps
// whose pipeline failed. A dump skipped because ctx was cancelled has a nil
// report, and the returned error is the context error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, dirs []string) ([]*model.DeviceReport, error) {
	bp.logger.Debug("starting batch processing",
		"total_dumps", len(dirs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.DeviceReport, len(dirs))

	err := bp.run(ctx, dirs, func(report *model.DeviceReport, index int) {
		bp.mu.Lock()
		bp.results[index] = report
		bp.mu.Unlock()
	})

	bp.logger.Debug("batch processing complete",
		"total_dumps", len(dirs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback builds reports like ProcessBatch and passes each
// one to callback as soon as it is done. callback runs on the worker
// goroutine and must be safe for concurrent use when concurrency is above 1.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	dirs []string,
	callback func(report *model.DeviceReport, index int),
) error {
	return bp.run(ctx, dirs, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, dirs []string, done func(*model.DeviceReport, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, dir := range dirs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing dump",
				"dump", dir,
				"index", i+1,
				"total", len(dirs),
			)

			report := model.NewDeviceReport(dir)
			if err := bp.pipelineFactory(dir).Execute(ctx, report); err != nil {
				// Recorded on the report; the other dumps keep going.
				bp.logger.Warn("dump failed", "dump", dir, "error", err)
			}
			done(report, i)
			return nil
		})
	}

	return g.Wait()
}
