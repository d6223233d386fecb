// Package signup implements the validate-then-insert flow shared by every
// form on the site: newsletter, contact, program and workshop enrolment,
// and the hackathon registration / team / submission flows.
//
// A form is described declaratively by a Schema. The Pipeline validates the
// submitted values against it, stops at the first failing field, and
// otherwise performs exactly one insert into the schema's table.
package signup

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository"
)

// Kind is how a field's text is converted before it is checked and stored.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindBool
)

// Field describes one form input.
//
// Rule is a go-playground/validator tag ("email", "url", "min=2",
// "min=4,max=18", ...). It is applied to the converted value, so for KindInt
// min/max are numeric bounds and for KindText they are lengths.
type Field struct {
	Name     string // column name and form key
	Label    string
	Kind     Kind
	Rule     string
	Required bool
	Message  string // shown when the field is missing or fails Rule

	// Default is stored when an optional field is left empty. nil means
	// the column is written as NULL.
	Default any
}

// Schema is one form variant.
type Schema struct {
	Name   string
	Table  string
	Fields []Field

	// Fixed columns written with every insert, e.g. the hackathon id of a
	// registration. They override submitted values of the same name.
	Fixed repository.Record

	// Track records signup analytics events for this variant.
	Track bool

	SuccessMessage  string
	ConflictMessage string
}

// WithFixed returns a copy of s with extra fixed columns.
func (s Schema) WithFixed(fixed repository.Record) Schema {
	merged := make(repository.Record, len(s.Fixed)+len(fixed))
	for k, v := range s.Fixed {
		merged[k] = v
	}
	for k, v := range fixed {
		merged[k] = v
	}
	s.Fixed = merged
	return s
}

// Initial returns the empty state of the form: every field present with an
// empty value.
func (s Schema) Initial() map[string]string {
	values := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		values[f.Name] = ""
	}
	return values
}

// build validates values in field order and returns the record to insert.
// Keys that are not schema fields are ignored. Optional fields left empty
// take their Default, which is nil (stored as NULL) unless set.
func (s Schema) build(v *validator.Validate, values map[string]string) (repository.Record, error) {
	rec := make(repository.Record, len(s.Fields)+len(s.Fixed))
	for _, f := range s.Fields {
		raw := strings.TrimSpace(values[f.Name])
		if raw == "" {
			if f.Required {
				return nil, apperror.ValidationFailed(f.Name, f.Message)
			}
			rec[f.Name] = f.Default
			continue
		}

		val, ok := convert(f.Kind, raw)
		if !ok {
			return nil, apperror.ValidationFailed(f.Name, f.Message)
		}
		if f.Rule != "" {
			if err := v.Var(val, f.Rule); err != nil {
				return nil, apperror.ValidationFailed(f.Name, f.Message)
			}
		}
		rec[f.Name] = val
	}
	for k, val := range s.Fixed {
		rec[k] = val
	}
	return rec, nil
}

func convert(kind Kind, raw string) (any, bool) {
	switch kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		return n, err == nil
	case KindBool:
		switch strings.ToLower(raw) {
		case "on", "yes":
			return true, true
		case "off", "no":
			return false, true
		}
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	default:
		return raw, true
	}
}
