package gateway

import (
	"errors"

	"github.com/julianstephens/habitlit/internal/storage"
)

// NotFoundError reports a missing record. It matches storage.ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == storage.ErrNotFound
}

func notFound(entity, id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// Result is the {data, error} envelope used by the JSON endpoints
type Result[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// NewResult wraps a (value, error) pair. Data is null whenever err is set.
func NewResult[T any](v T, err error) Result[T] {
	if err != nil {
		msg := err.Error()
		return Result[T]{Error: &msg}
	}
	return Result[T]{Data: &v}
}
