package learning

import "github.com/nbspam/spam-filter/pkg/email"

// Recorder receives classification progress from a Classifier
type Recorder interface {
	// MessageStarted is called at every start marker of a test corpus
	MessageStarted()
	// MessageScored is called at every end marker with the scored message
	MessageScored(result Result) error
}

// Ensure the segmenter handlers satisfy the interface
var _ email.Handler = (*trainingPass)(nil) // Trainer
var _ email.Handler = (*testingPass)(nil)  // Classifier
