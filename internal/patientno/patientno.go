// Package patientno derives human-readable patient numbers (P1000, P1001, ...)
// from the most recently registered patient.
package patientno

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
)

const (
	Prefix = "P"
	First  = 1000
)

var ErrMalformed = errors.New("patient number has no numeric suffix")

// LastFinder returns the most recently inserted patient or store.ErrNotFound.
type LastFinder interface {
	Last(ctx context.Context) (*models.Patient, error)
}

type Generator struct {
	patients LastFinder
}

func New(patients LastFinder) *Generator {
	return &Generator{patients: patients}
}

// Next reads the last inserted patient and returns its number plus one.
//
// Read and insert are separate steps, so two registrations running at the
// same time can both receive the same number. The unique index on
// patient_no makes the second insert fail instead of storing a duplicate.
func (g *Generator) Next(ctx context.Context) (string, error) {
	last, err := g.patients.Last(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return Format(First), nil
	}
	if err != nil {
		return "", fmt.Errorf("find last patient: %w", err)
	}
	n, err := Parse(last.PatientNo)
	if err != nil {
		return "", err
	}
	return Format(n + 1), nil
}

func Format(n int64) string {
	return Prefix + strconv.FormatInt(n, 10)
}

// Parse drops the one-character prefix and reads the leading digits.
func Parse(no string) (int64, error) {
	if len(no) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, no)
	}
	digits := no[1:]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, no)
	}
	n, err := strconv.ParseInt(digits[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, no)
	}
	return n, nil
}
