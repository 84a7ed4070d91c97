package cmd

import (
	"context"
	"time"

	"github.com/nbspam/spam-filter/pkg/config"
	"github.com/nbspam/spam-filter/pkg/corpus"
	"github.com/nbspam/spam-filter/pkg/email"
	"github.com/nbspam/spam-filter/pkg/learning"
	"github.com/nbspam/spam-filter/pkg/profiler"
	"go.uber.org/zap"
)

func corpusOptions(cfg *config.Config) corpus.Options {
	return corpus.Options{
		MaxLineBytes:     cfg.Corpus.MaxLineBytes,
		RedisBatchSize:   cfg.Redis.BatchSize,
		RedisDialTimeout: time.Duration(cfg.Redis.DialTimeoutMs) * time.Millisecond,
	}
}

func newSegmenter(cfg *config.Config) *email.Segmenter {
	return email.NewSegmenter(email.Markers{
		Start:  cfg.Corpus.StartMarker,
		End:    cfg.Corpus.EndMarker,
		Markup: cfg.Corpus.MarkupIndicator,
	})
}

// openCorpora opens every identifier in order and stops at the first one
// that cannot be resolved, closing what was already opened.
func openCorpora(ctx context.Context, ids []string, opts corpus.Options) ([]corpus.Stream, error) {
	streams := make([]corpus.Stream, 0, len(ids))
	for _, id := range ids {
		s, err := corpus.Open(ctx, id, opts)
		if err != nil {
			closeCorpora(streams)
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, nil
}

func closeCorpora(streams []corpus.Stream) {
	for _, s := range streams {
		if err := s.Close(); err != nil {
			logger.Warn("Failed to close corpus", zap.Error(err))
		}
	}
}

// trainModel trains a fresh model on a spam and a ham corpus and finalizes it
func trainModel(ctx context.Context, seg *email.Segmenter, spam, ham email.Lines, prof *profiler.Profiler) (*learning.Model, error) {
	model := learning.NewModel()
	trainer := learning.NewTrainer(model, seg, logger)

	err := prof.Phase("train spam", func() error {
		_, err := trainer.TrainSpam(ctx, spam)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = prof.Phase("train ham", func() error {
		_, err := trainer.TrainHam(ctx, ham)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := prof.Phase("finalize", model.Finalize); err != nil {
		return nil, err
	}

	logger.Debug("Model finalized",
		zap.Int("spam_messages", model.Messages(learning.Spam)),
		zap.Int("ham_messages", model.Messages(learning.Ham)),
		zap.Int("vocabulary", model.VocabularySize()))

	return model, nil
}
