package learning

import (
	"context"

	"github.com/nbspam/spam-filter/pkg/email"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Trainer feeds labeled corpora into a Model
type Trainer struct {
	model     *Model
	segmenter *email.Segmenter
	logger    *zap.Logger
}

// NewTrainer creates a trainer for model. A nil logger disables logging.
func NewTrainer(model *Model, segmenter *email.Segmenter, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{
		model:     model,
		segmenter: segmenter,
		logger:    logger,
	}
}

// trainingPass counts and learns the messages of one corpus
type trainingPass struct {
	model    *Model
	label    Label
	messages int
}

func (p *trainingPass) StartMessage() error {
	if err := p.model.CountMessage(p.label); err != nil {
		return err
	}
	p.messages++
	return nil
}

func (p *trainingPass) EndMessage(words email.WordSet) error {
	return p.model.Learn(p.label, words)
}

// Train reads a whole corpus of label messages into the model and returns
// the number of messages seen.
func (t *Trainer) Train(ctx context.Context, lines email.Lines, label Label) (int, error) {
	if t.model.Phase() != PhaseTraining {
		return 0, errors.Wrapf(ErrNotTraining, "training %s corpus", label)
	}

	pass := &trainingPass{model: t.model, label: label}
	if err := t.segmenter.Segment(ctx, lines, pass); err != nil {
		return pass.messages, errors.Wrapf(err, "training %s corpus", label)
	}

	t.logger.Info("Trained corpus",
		zap.Stringer("label", label),
		zap.Int("messages", pass.messages),
		zap.Int("vocabulary", t.model.VocabularySize()))

	return pass.messages, nil
}

// TrainSpam trains the model on a spam corpus
func (t *Trainer) TrainSpam(ctx context.Context, lines email.Lines) (int, error) {
	return t.Train(ctx, lines, Spam)
}

// TrainHam trains the model on a ham corpus
func (t *Trainer) TrainHam(ctx context.Context, lines email.Lines) (int, error) {
	return t.Train(ctx, lines, Ham)
}
