// Package pipeline chunks advert streams and drives the three measurers
// over them, assembling per-advert green measures in input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"greenjobs/internal/domain/advert"
	"greenjobs/internal/domain/measures"
)

type SkillMeasurer interface {
	MeasureBatch(ctx context.Context, adverts []advert.Advert) ([]measures.SkillMeasures, measures.NullCounts, error)
}

type OccupationMeasurer interface {
	MeasureBatch(ctx context.Context, adverts []advert.Advert) ([]measures.OccupationMatch, measures.NullCounts, error)
}

type IndustryMeasurer interface {
	MeasureBatch(ctx context.Context, adverts []advert.Advert) ([]measures.IndustryMatch, measures.NullCounts, error)
}

// Notifier receives run lifecycle events. Implementations must not block.
type Notifier interface {
	RunStarted(runID uuid.UUID, adverts, chunks int)
	BatchFinished(runID uuid.UUID, res BatchResult)
	RunFinished(runID uuid.UUID, nulls measures.NullCounts, failed int)
}

type NopNotifier struct{}

func (NopNotifier) RunStarted(uuid.UUID, int, int)                  {}
func (NopNotifier) BatchFinished(uuid.UUID, BatchResult)            {}
func (NopNotifier) RunFinished(uuid.UUID, measures.NullCounts, int) {}

type Options struct {
	ChunkSize int
	Workers   int
}

type Runner struct {
	skills      SkillMeasurer
	occupations OccupationMeasurer
	industries  IndustryMeasurer
	notifier    Notifier
	logger      *log.Logger
	opts        Options
}

func NewRunner(
	skills SkillMeasurer,
	occupations OccupationMeasurer,
	industries IndustryMeasurer,
	notifier Notifier,
	opts Options,
	logger *log.Logger,
) *Runner {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Runner{
		skills:      skills,
		occupations: occupations,
		industries:  industries,
		notifier:    notifier,
		logger:      logger,
		opts:        opts,
	}
}

// Report summarises one run.
type Report struct {
	RunID        uuid.UUID
	Adverts      int
	Chunks       int
	FailedChunks int
	Nulls        measures.NullCounts
	Duration     time.Duration
}

// Run measures every advert. Chunks are independent and run on the worker
// pool; output order matches input order. Any chunk failing batch-scoped
// makes the whole run fail (partial results are never written downstream),
// but the remaining chunks still complete and are reported.
func (r *Runner) Run(ctx context.Context, adverts []advert.Advert) ([]measures.GreenMeasures, Report, error) {
	start := time.Now()
	runID := uuid.New()

	out := make([]measures.GreenMeasures, len(adverts))
	chunks := (len(adverts) + r.opts.ChunkSize - 1) / r.opts.ChunkSize
	r.notifier.RunStarted(runID, len(adverts), chunks)

	pool := NewWorkerPool(r.opts.Workers, chunks)
	results := pool.Run(ctx)

	for lo := 0; lo < len(adverts); lo += r.opts.ChunkSize {
		hi := lo + r.opts.ChunkSize
		if hi > len(adverts) {
			hi = len(adverts)
		}
		lo, hi := lo, hi
		idx := lo / r.opts.ChunkSize
		pool.Submit(func(ctx context.Context) BatchResult {
			return r.runChunk(ctx, idx, adverts[lo:hi], out[lo:hi])
		})
	}
	pool.Close()

	report := Report{RunID: runID, Adverts: len(adverts), Chunks: chunks}
	var errs []error
	received := 0
	for res := range results {
		received++
		report.Nulls.Add(res.Nulls)
		if res.Err != nil {
			report.FailedChunks++
			errs = append(errs, fmt.Errorf("chunk %d: %w", res.Index, res.Err))
		}
		r.notifier.BatchFinished(runID, res)
	}
	report.Duration = time.Since(start)
	r.notifier.RunFinished(runID, report.Nulls, report.FailedChunks)

	// Cancellation skips queued chunks; the run is then incomplete.
	if received < chunks && ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}

	r.logger.Printf("pipeline=run run_id=%s adverts=%d chunks=%d failed=%d duration=%s",
		runID, report.Adverts, report.Chunks, report.FailedChunks, report.Duration)

	if len(errs) > 0 {
		return nil, report, errors.Join(errs...)
	}
	return out, report, nil
}

// runChunk runs the three measurers over one chunk and assembles the joined
// measures record per advert.
func (r *Runner) runChunk(ctx context.Context, idx int, adverts []advert.Advert, out []measures.GreenMeasures) BatchResult {
	start := time.Now()
	res := BatchResult{Index: idx, Size: len(adverts)}

	skills, skillNulls, err := r.skills.MeasureBatch(ctx, adverts)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	occ, occNulls, err := r.occupations.MeasureBatch(ctx, adverts)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	ind, indNulls, err := r.industries.MeasureBatch(ctx, adverts)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	res.Nulls.Add(skillNulls)
	res.Nulls.Add(occNulls)
	res.Nulls.Add(indNulls)

	for i, a := range adverts {
		gm := measures.GreenMeasures{
			AdvertID: a.ID,
			Region:   a.Region(),
			ITL1Code: a.ITL1Code,
			ITL2Code: a.ITL2Code,
			ITL3Code: a.ITL3Code,
		}
		s := skills[i]
		gm.Skills = &s
		if occ[i].Matched() {
			o := occ[i]
			gm.Occupation = &o
		}
		if ind[i].Matched() {
			d := ind[i]
			gm.Industry = &d
		}
		if sal := meanSalary(a); sal != nil {
			gm.MeanSalary = sal
		}
		out[i] = gm
	}

	res.Duration = time.Since(start)
	return res
}

func meanSalary(a advert.Advert) *float64 {
	switch {
	case a.MinSalary != nil && a.MaxSalary != nil:
		v := (*a.MinSalary + *a.MaxSalary) / 2
		return &v
	case a.MinSalary != nil:
		return a.MinSalary
	case a.MaxSalary != nil:
		return a.MaxSalary
	}
	return nil
}
