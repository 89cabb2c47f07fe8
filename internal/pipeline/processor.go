package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/entity"
	"github.com/arogya-labs/referral-digitizer/internal/llm"
	"github.com/arogya-labs/referral-digitizer/internal/persist"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

// Side identifies which of the two independent extractions failed.
type Side string

const (
	SideChecklist Side = "checklist"
	SideDetails   Side = "personal_details"
)

// OrchestrationError carries which extraction side failed and why. No partial
// record is ever persisted behind one of these.
type OrchestrationError struct {
	Side Side
	Err  error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Side, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }

// Processor coordinates one operator-triggered digitization: fetch the scan,
// run both extraction contracts against it, merge, persist. Each call is a
// fresh run with no state shared across invocations.
type Processor struct {
	Logger    *slog.Logger
	Store     store.ArtifactStore
	Checklist llm.Client // checkbox-extraction model
	Details   llm.Client // personal-details model
	Persister *persist.Persister
}

func NewProcessor(logger *slog.Logger, st store.ArtifactStore, checklist, details llm.Client, pers *persist.Persister) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Store:     st,
		Checklist: checklist,
		Details:   details,
		Persister: pers,
	}
}

// ProcessImage runs the full flow for one image key. The two model calls run
// concurrently and both must settle before the merge; a failure on either side
// aborts the run and discards the other result. The record is only written
// after both extractions succeed.
func (p *Processor) ProcessImage(ctx context.Context, key string) (*entity.PersistedRecord, error) {
	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)
	start := time.Now()

	p.Logger.Info("pipeline.extract.start", "req_id", rid, "key", key)

	img, err := p.Store.Get(ctx, key)
	if err != nil {
		p.Logger.Error("pipeline.extract.image_unavailable", "req_id", rid, "key", key, "error", err)
		return nil, fmt.Errorf("load image %q: %w", key, err)
	}
	input := llm.ImageInput{Data: img, MIMEType: store.MIMETypeForKey(key)}

	var (
		sections []entity.ChecklistSection
		details  entity.PersonalDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, _, err := llm.ExtractChecklist(gctx, p.Checklist, input, p.Logger)
		if err != nil {
			return &OrchestrationError{Side: SideChecklist, Err: err}
		}
		sections = s
		return nil
	})
	g.Go(func() error {
		d, _, err := llm.ExtractPersonalDetails(gctx, p.Details, input, p.Logger)
		if err != nil {
			return &OrchestrationError{Side: SideDetails, Err: err}
		}
		details = d
		return nil
	})
	if err := g.Wait(); err != nil {
		p.Logger.Error("pipeline.extract.failed", "req_id", rid, "key", key, "error", err)
		return nil, err
	}

	rec := entity.MergedRecord{
		PersonalDetails:      details,
		MedicalPrescriptions: sections,
	}
	// Both top-level keys are always present in the artifact, even when no
	// checkbox survived filtering.
	if rec.MedicalPrescriptions == nil {
		rec.MedicalPrescriptions = []entity.ChecklistSection{}
	}

	persisted, err := p.Persister.Persist(ctx, rec)
	if err != nil {
		p.Logger.Error("pipeline.persist.failed", "req_id", rid, "key", key, "error", err)
		return nil, err
	}

	p.Logger.Info("pipeline.extract.ok",
		"req_id", rid,
		"key", key,
		"record_key", persisted.Key,
		"sections", len(rec.MedicalPrescriptions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &persisted, nil
}
