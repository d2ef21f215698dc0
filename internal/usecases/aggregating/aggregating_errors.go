package aggregating

import "errors"

// ErrEmptyDataset is returned when aggregation is attempted over zero rows.
// An empty dataset is a distinct, reportable condition: revenue and average
// over an empty set are undefined, never zero.
var ErrEmptyDataset = errors.New("cannot aggregate an empty dataset")
