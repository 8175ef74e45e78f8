package extract

import (
	"errors"
	"fmt"

	"github.com/law-makers/prospect/pkg/models"
)

// ErrInvalidPage means the current document is not a target profile page at
// all (wrong URL family or an interstitial). Fatal to the extraction call and
// never retried.
var ErrInvalidPage = errors.New("page is not a target profile page")

// MissingFieldError reports that a mandatory field could not be recovered in
// the current attempt. The orchestrator retries these up to its attempt
// limit; every other field-level absence is encoded as data instead.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("mandatory field %q not found in page", e.Field)
}

// FailedError is the terminal error surfaced when the orchestrator exhausts
// its attempts. It carries the last attempt's classification so callers can
// report what was (and wasn't) recoverable.
type FailedError struct {
	Attempts      int
	Quality       models.Quality
	MissingFields []string
	Last          error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("extraction failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *FailedError) Unwrap() error {
	return e.Last
}
