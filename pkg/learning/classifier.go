package learning

import (
	"context"
	"math"

	"github.com/nbspam/spam-filter/pkg/email"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Score is the pair of class log-probabilities of one message
type Score struct {
	Spam           float64 `json:"spam"`
	Ham            float64 `json:"ham"`
	TrueFeatures   int     `json:"true_features"`
	VocabularySize int     `json:"vocabulary_size"`
}

// Outcome is the verdict on one test message
type Outcome struct {
	Correct bool   `json:"correct"`
	Label   string `json:"label"`
}

const (
	OutcomeSpamRight = "spam right"
	OutcomeHamWrong  = "ham wrong"
	OutcomeHamRight  = "ham right"
	OutcomeSpamWrong = "spam wrong"
)

// Result is a scored test message
type Result struct {
	Number int `json:"number"` // 1-based within its corpus
	Score
	Outcome
}

// Classifier scores messages against a finalized Model
type Classifier struct {
	model     *Model
	segmenter *email.Segmenter
	logger    *zap.Logger
}

// NewClassifier moves a finalized model to the testing phase and returns a
// classifier for it.
func NewClassifier(model *Model, segmenter *email.Segmenter, logger *zap.Logger) (*Classifier, error) {
	if err := model.beginTesting(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		model:     model,
		segmenter: segmenter,
		logger:    logger,
	}, nil
}

// Score computes the spam and ham log-probabilities of a message word set.
// Every vocabulary word contributes, present or absent; words outside the
// vocabulary are ignored.
func (c *Classifier) Score(words email.WordSet) Score {
	m := c.model
	spamNum := float64(m.totalSpamEmails)
	hamNum := float64(m.totalHamEmails)

	s := Score{
		Spam:           math.Log(spamNum / (spamNum + hamNum)),
		Ham:            math.Log(hamNum / (spamNum + hamNum)),
		VocabularySize: len(m.sorted),
	}

	for _, word := range m.sorted {
		spamCount := float64(m.spamWords[word])
		hamCount := float64(m.hamWords[word])

		if words.Contains(word) {
			s.TrueFeatures++
			s.Spam += math.Log((spamCount + 1) / (spamNum + 2))
			s.Ham += math.Log((hamCount + 1) / (hamNum + 2))
		} else {
			s.Spam += math.Log((spamNum - spamCount + 1) / (spamNum + 2))
			s.Ham += math.Log((hamNum - hamCount + 1) / (hamNum + 2))
		}
	}

	return s
}

// Decide judges a score against the true label of its message. The winning
// class must score strictly higher, so a tie is always wrong.
func Decide(s Score, label Label) Outcome {
	if label == Spam {
		if s.Spam > s.Ham {
			return Outcome{Correct: true, Label: OutcomeSpamRight}
		}
		return Outcome{Label: OutcomeHamWrong}
	}

	if s.Ham > s.Spam {
		return Outcome{Correct: true, Label: OutcomeHamRight}
	}
	return Outcome{Label: OutcomeSpamWrong}
}

// testingPass scores the messages of one corpus
type testingPass struct {
	classifier *Classifier
	label      Label
	recorder   Recorder
	number     int
	correct    int
	scored     int
}

func (p *testingPass) StartMessage() error {
	p.number++
	p.recorder.MessageStarted()
	return nil
}

func (p *testingPass) EndMessage(words email.WordSet) error {
	score := p.classifier.Score(words)
	outcome := Decide(score, p.label)

	p.scored++
	if outcome.Correct {
		p.correct++
	}

	return p.recorder.MessageScored(Result{
		Number:  p.number,
		Score:   score,
		Outcome: outcome,
	})
}

// Test classifies every message of a corpus whose true class is label and
// reports each result to rec. It returns the number of messages started.
func (c *Classifier) Test(ctx context.Context, lines email.Lines, label Label, rec Recorder) (int, error) {
	if c.model.Phase() != PhaseTesting {
		return 0, errors.Wrapf(ErrNotReady, "testing %s corpus", label)
	}

	pass := &testingPass{classifier: c, label: label, recorder: rec}
	if err := c.segmenter.Segment(ctx, lines, pass); err != nil {
		return pass.number, errors.Wrapf(err, "testing %s corpus", label)
	}

	c.logger.Info("Tested corpus",
		zap.Stringer("label", label),
		zap.Int("messages", pass.number),
		zap.Int("scored", pass.scored),
		zap.Int("correct", pass.correct))

	return pass.number, nil
}
