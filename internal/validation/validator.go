// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package validation provides struct validation using go-playground/validator
// v10. It exposes a thread-safe singleton validator with custom rules for
// the racing domain, and translates failures into the API's error format.
//
// Example usage:
//
//	type recommendationsQuery struct {
//	    UserID     int    `validate:"required,gt=0"`
//	    Mode       string `validate:"omitempty,oneof=balanced irating_push safety_recovery"`
//	    Category   string `validate:"omitempty,racecategory"`
//	    MinScore   int    `validate:"min=0,max=100"`
//	    MaxResults int    `validate:"min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    respondError(w, http.StatusBadRequest, verr.Error())
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RequestValidationError is a collection of field validation failures.
type RequestValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface, joining all field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.Fields))
	for _, fe := range ve.Fields {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator. Thread-safe; the instance
// caches struct metadata across calls.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// racecategory accepts the known racing disciplines.
		_ = validate.RegisterValidation("racecategory", func(fl validator.FieldLevel) bool {
			return recommend.Category(fl.Field().String()).Valid()
		})

		// racemode accepts the recommendation mode names.
		_ = validate.RegisterValidation("racemode", func(fl validator.FieldLevel) bool {
			_, ok := recommend.ParseMode(fl.Field().String())
			return ok
		})
	})
	return validate
}

// ValidateStruct validates a struct with the singleton validator. Returns
// nil on success, or *RequestValidationError listing every failed field.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{Fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Fields: fields}
}

// translateError converts a validator.FieldError into a human-readable
// message matching the API's error style.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "racecategory":
		return fmt.Sprintf("%s must be a known racing category", field)
	case "racemode":
		return fmt.Sprintf("%s must be one of: balanced, irating_push, safety_recovery", field)
	default:
		return fmt.Sprintf("%s failed validation rule %q", field, fe.Tag())
	}
}
