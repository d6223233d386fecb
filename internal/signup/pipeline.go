package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/analytics"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository"
)

// Result is returned for a successful submission.
type Result struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Submitter is implemented by Pipeline; Form depends on this.
type Submitter interface {
	Submit(ctx context.Context, schema Schema, values map[string]string, source string) (Result, error)
}

// Pipeline runs submissions for every schema against one store.
type Pipeline struct {
	store    repository.Store
	sink     analytics.Sink
	logger   *slog.Logger
	validate *validator.Validate

	// inflight collapses identical submissions that arrive while the first
	// one is still being inserted (double clicks, retried requests).
	inflight singleflight.Group
}

var _ Submitter = (*Pipeline)(nil)

func NewPipeline(store repository.Store, sink analytics.Sink, logger *slog.Logger) *Pipeline {
	if sink == nil {
		sink = analytics.Nop{}
	}
	return &Pipeline{
		store:    store,
		sink:     sink,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks values against schema without touching the store. It
// returns the same error Submit would for invalid input.
func (p *Pipeline) Validate(schema Schema, values map[string]string) error {
	_, err := schema.build(p.validate, values)
	return err
}

// Submit validates values against schema and inserts one row.
//
// A validation failure returns the first failing field's apperror and never
// touches the store. A uniqueness violation returns an ErrConflict carrying
// schema.ConflictMessage. Nothing is retried.
func (p *Pipeline) Submit(ctx context.Context, schema Schema, values map[string]string, source string) (Result, error) {
	rec, err := schema.build(p.validate, values)
	if err != nil {
		return Result{}, err
	}
	if source != "" {
		rec["source"] = source
	}

	key, err := submissionKey(schema, rec)
	if err != nil {
		return Result{}, fmt.Errorf("signup %s: %w", schema.Name, err)
	}

	// Callers that join this flight share its result, so the first
	// caller's cancellation must not fail them.
	v, err, shared := p.inflight.Do(key, func() (any, error) {
		return p.insert(context.WithoutCancel(ctx), schema, rec, source)
	})
	if shared {
		p.logger.Debug("collapsed duplicate submission", slog.String("variant", schema.Name))
	}
	if err != nil {
		return Result{}, err
	}
	return Result{ID: v.(string), Message: schema.SuccessMessage}, nil
}

func (p *Pipeline) insert(ctx context.Context, schema Schema, rec repository.Record, source string) (string, error) {
	id, err := p.store.Insert(ctx, schema.Table, rec)
	if err == nil {
		p.track(ctx, schema, "success", source)
		p.logger.Info("signup stored",
			slog.String("variant", schema.Name),
			slog.String("id", id),
			slog.String("source", source),
		)
		return id, nil
	}

	if errors.Is(err, apperror.ErrConflict) {
		p.track(ctx, schema, "conflict", source)
		return "", apperror.Conflict(schema.ConflictMessage, err)
	}

	p.track(ctx, schema, "failure", source)
	p.logger.Error("signup insert failed",
		slog.String("variant", schema.Name),
		slog.String("error", err.Error()),
	)
	return "", fmt.Errorf("signup %s: %w", schema.Name, err)
}

func (p *Pipeline) track(ctx context.Context, schema Schema, action, source string) {
	if !schema.Track {
		return
	}
	label := schema.Name
	if source != "" {
		label += ":" + source
	}
	p.sink.Track(ctx, analytics.Event{Category: "signup", Action: action, Label: label})
}

// submissionKey identifies a submission by variant and record content.
// encoding/json sorts map keys, so equal records give equal keys.
func submissionKey(schema Schema, rec repository.Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return schema.Name + "|" + schema.Table + "|" + string(b), nil
}
