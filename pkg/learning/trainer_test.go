package learning

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/nbspam/spam-filter/pkg/email"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const spamCorpus = `<SUBJECT>
<BODY>
Buy now
cheap pills, buy now
</BODY>
<SUBJECT>
<BODY>
free money
</BODY>
`

const hamCorpus = `<SUBJECT>
<BODY>
hello friend
see you at the meeting
</BODY>
`

func corpusLines(text string) email.Lines {
	return bufio.NewScanner(strings.NewReader(text))
}

func newTrainer(m *Model) *Trainer {
	return NewTrainer(m, email.NewSegmenter(email.DefaultMarkers()), zap.NewNop())
}

func TestTrainerTrain(t *testing.T) {
	m := NewModel()
	tr := newTrainer(m)
	ctx := context.Background()

	n, err := tr.TrainSpam(ctx, corpusLines(spamCorpus))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = tr.TrainHam(ctx, corpusLines(hamCorpus))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, 2, m.Messages(Spam))
	assert.Equal(t, 1, m.Messages(Ham))

	count, _ := m.Count(Spam, "buy")
	assert.Equal(t, 1, count, "counted once per message")
	count, _ = m.Count(Spam, "pills,")
	assert.Equal(t, 1, count, "punctuation stays attached")

	for _, word := range []string{"buy", "now", "cheap", "pills,", "free", "money", "hello", "friend", "see", "you", "at", "the", "meeting"} {
		assert.True(t, m.InVocabulary(word), word)
	}
	assert.Equal(t, 13, m.VocabularySize())
}

func TestTrainerTwiceDoublesCounts(t *testing.T) {
	once := NewModel()
	_, err := newTrainer(once).TrainSpam(context.Background(), corpusLines(spamCorpus))
	require.NoError(t, err)

	twice := NewModel()
	tr := newTrainer(twice)
	for i := 0; i < 2; i++ {
		_, err := tr.TrainSpam(context.Background(), corpusLines(spamCorpus))
		require.NoError(t, err)
	}

	assert.Equal(t, 2*once.Messages(Spam), twice.Messages(Spam))
	assert.Equal(t, once.Vocabulary(), twice.Vocabulary())
	for _, word := range once.Vocabulary() {
		a, _ := once.Count(Spam, word)
		b, _ := twice.Count(Spam, word)
		assert.Equal(t, 2*a, b, word)
	}
}

func TestTrainerRejectsFinalizedModel(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Finalize())

	_, err := newTrainer(m).TrainHam(context.Background(), corpusLines(hamCorpus))
	assert.True(t, errors.Is(err, ErrNotTraining))
}

func TestTrainerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTrainer(NewModel()).TrainSpam(ctx, corpusLines(spamCorpus))
	assert.True(t, errors.Is(err, context.Canceled))
}
