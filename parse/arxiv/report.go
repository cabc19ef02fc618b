package arxiv

import (
	"fmt"

	"go.uber.org/multierr"
)

// RecordError 描述一个被跳过的条目
type RecordError struct {
	Header string
	Index  int
	Text   string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record %d: %v", e.Header, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

type Report struct {
	Headers int
	Bodies  int
	Paired  int
	Records int
	Skipped []*RecordError
}

func (r *Report) Mismatched() bool {
	return r.Headers != r.Bodies
}

// Err combines every skipped record into one error, nil when nothing was skipped.
func (r *Report) Err() error {
	var err error
	for _, s := range r.Skipped {
		err = multierr.Append(err, s)
	}

	return err
}
