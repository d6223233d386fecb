package signup

import (
	"context"
	"errors"
	"sync"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
)

// ErrInFlight is returned by Form.Submit while a previous submit is running.
var ErrInFlight = errors.New("submission already in progress")

// Form is the state of one visitor's form: the entered values, whether a
// submission is running, and the last message shown.
//
// A successful submit resets every field to empty. A failed one leaves the
// values exactly as entered so nothing has to be typed again.
type Form struct {
	schema Schema
	source string
	submit Submitter

	mu         sync.Mutex
	values     map[string]string
	submitting bool
	message    string
	field      string
}

func NewForm(submit Submitter, schema Schema, source string) *Form {
	return &Form{
		schema: schema,
		source: source,
		submit: submit,
		values: schema.Initial(),
	}
}

// Set updates one field. Unknown fields are ignored.
func (f *Form) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[name]; ok {
		f.values[name] = value
	}
}

func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Submitting reports whether the submit control should be disabled.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Message returns the last success or error message and, for validation
// errors, the field it refers to.
func (f *Form) Message() (message, field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message, f.field
}

func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Result{}, ErrInFlight
	}
	f.submitting = true
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	f.mu.Unlock()

	res, err := f.submit.Submit(ctx, f.schema, values, f.source)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.field = ""
	if err != nil {
		f.message = apperror.MessageFor(err)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			f.field = appErr.Field
		}
		return Result{}, err
	}
	f.values = f.schema.Initial()
	f.message = res.Message
	return res, nil
}
