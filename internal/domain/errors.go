package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateRequest    = errors.New("duplicate client request")
	ErrActiveCoverageGap   = errors.New("a coverage gap is already open")
	ErrNoActiveCoverageGap = errors.New("no open coverage gap")
)
