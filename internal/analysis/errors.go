package analysis

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned by Analyze and Summarize on a model that has not
// completed FitPredict.
var ErrNotFitted = errors.New("cluster model is not fitted")

// MissingFieldError reports a required box-score field absent from a record.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("game record %d: missing required field %s", e.Index, e.Field)
}

// InsufficientDataError reports fewer input rows than requested clusters.
type InsufficientDataError struct {
	Rows     int
	Clusters int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d games to form %d clusters, got %d", e.Clusters, e.Clusters, e.Rows)
}
