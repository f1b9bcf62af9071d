// Package pipeline parses and analyzes independent AWR documents in
// parallel.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/awr"
)

// Input is one document. Data is parsed as-is when set; otherwise Name is
// read with awr.ReadInput.
type Input struct {
	Name string
	Data []byte
}

// Result is the outcome for one Input. Err is set instead of Report and
// Analysis when the document could not be read or parsed.
type Result struct {
	Name     string
	Size     int64
	Report   *awr.Report
	Analysis analyzer.AnalysisResult
	Duration time.Duration
	Err      error
}

// Run processes inputs with at most workers in flight (NumCPU when
// workers <= 0). Results are returned in input order. A failed document
// never stops the others; cancelling ctx stops work that has not started.
func Run(ctx context.Context, inputs []Input, engine *analyzer.Engine, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if engine == nil {
		engine = analyzer.DefaultEngine()
	}

	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		results[i].Name = in.Name

		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i] = process(in, engine)
			return nil
		})
	}

	// workers never return errors; failures travel in Result.Err
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("pipeline complete", "documents", len(inputs), "failed", failed, "workers", workers)

	return results
}

func process(in Input, engine *analyzer.Engine) Result {
	start := time.Now()
	res := Result{Name: in.Name}

	data := in.Data
	if data == nil {
		var err error
		if data, err = awr.ReadInput(in.Name); err != nil {
			res.Err = err
			res.Duration = time.Since(start)
			return res
		}
	}
	res.Size = int64(len(data))

	report, err := awr.ParseInput(data, in.Name)
	if err != nil {
		slog.Error("failed to parse document", "name", in.Name, "error", err)
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	res.Report = report
	res.Analysis = analyzer.Analyze(report, engine)
	res.Duration = time.Since(start)

	slog.Debug("document processed",
		"name", in.Name,
		"findings", len(res.Analysis.Findings),
		"duration_ms", res.Duration.Milliseconds())

	return res
}
