package harmony

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedDegree  = errors.New("unsupported scale degree")
	ErrUnsupportedQuality = errors.New("unsupported chord quality")
	ErrUnsupportedRoot    = errors.New("unsupported chord root")
	ErrInvalidLength      = errors.New("progression length must be at least 1")
)

// DegreeError reports a degree label outside the degree table.
type DegreeError struct {
	Label     string
	Supported []string
}

func (e *DegreeError) Error() string {
	return fmt.Sprintf("%v: %q (supported: %s)", ErrUnsupportedDegree, e.Label, strings.Join(e.Supported, ", "))
}

func (e *DegreeError) Unwrap() error { return ErrUnsupportedDegree }

// QualityError reports a chord quality label that has no interval set.
type QualityError struct {
	Label     string
	Supported []string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("%v: %q (supported: %s)", ErrUnsupportedQuality, e.Label, strings.Join(e.Supported, ", "))
}

func (e *QualityError) Unwrap() error { return ErrUnsupportedQuality }

// RootError reports a note name that is not a pitch class.
type RootError struct {
	Label     string
	Supported []string
}

func (e *RootError) Error() string {
	return fmt.Sprintf("%v: %q (supported: %s)", ErrUnsupportedRoot, e.Label, strings.Join(e.Supported, " "))
}

func (e *RootError) Unwrap() error { return ErrUnsupportedRoot }
