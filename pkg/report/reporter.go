// Package report writes per-message classification lines and run totals.
package report

import (
	"fmt"
	"io"

	"github.com/nbspam/spam-filter/pkg/learning"
	"github.com/pkg/errors"
)

// Reporter records classification results for a whole run
type Reporter struct {
	w io.Writer

	totalEmails         int
	correctlyClassified int
}

// New creates a reporter writing to w
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// MessageStarted counts a test message
func (r *Reporter) MessageStarted() {
	r.totalEmails++
}

// MessageScored writes the result line of a test message
func (r *Reporter) MessageScored(result learning.Result) error {
	if result.Correct {
		r.correctlyClassified++
	}

	_, err := fmt.Fprintf(r.w, "TEST %d %d/%d features true %.3f %.3f %s\n",
		result.Number,
		result.TrueFeatures,
		result.VocabularySize,
		result.Spam,
		result.Ham,
		result.Label,
	)
	return errors.Wrap(err, "writing report")
}

// Summary writes the final accuracy line
func (r *Reporter) Summary() error {
	_, err := fmt.Fprintf(r.w, "Total: %d/%d emails classified correctly.\n",
		r.correctlyClassified, r.totalEmails)
	return errors.Wrap(err, "writing summary")
}

// Total returns the number of test messages started
func (r *Reporter) Total() int { return r.totalEmails }

// Correct returns the number of correctly classified messages
func (r *Reporter) Correct() int { return r.correctlyClassified }

// Accuracy returns the fraction of correctly classified messages, 0 when
// nothing was tested.
func (r *Reporter) Accuracy() float64 {
	if r.totalEmails == 0 {
		return 0
	}
	return float64(r.correctlyClassified) / float64(r.totalEmails)
}

var _ learning.Recorder = (*Reporter)(nil)
