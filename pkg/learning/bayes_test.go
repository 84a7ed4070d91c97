package learning

import (
	"bytes"
	"testing"

	"github.com/nbspam/spam-filter/pkg/email"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learnMessage(t *testing.T, m *Model, label Label, words ...string) {
	t.Helper()
	require.NoError(t, m.CountMessage(label))
	require.NoError(t, m.Learn(label, email.NewWordSet(words...)))
}

func TestModelCountsPresenceOncePerMessage(t *testing.T) {
	m := NewModel()
	learnMessage(t, m, Spam, "buy", "now")
	learnMessage(t, m, Spam, "buy", "cheap")
	learnMessage(t, m, Ham, "hello")

	n, ok := m.Count(Spam, "buy")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = m.Count(Ham, "buy")
	assert.False(t, ok, "no ham entry before finalize")

	assert.Equal(t, 2, m.Messages(Spam))
	assert.Equal(t, 1, m.Messages(Ham))
	assert.Equal(t, 4, m.VocabularySize())
	assert.Equal(t, []string{"buy", "cheap", "hello", "now"}, m.Vocabulary())
}

func TestModelFinalizeZeroFills(t *testing.T) {
	m := NewModel()
	learnMessage(t, m, Spam, "buy", "now")
	learnMessage(t, m, Ham, "hello", "now")
	require.NoError(t, m.Finalize())

	assert.Equal(t, PhaseReady, m.Phase())
	assert.Equal(t, m.VocabularySize(), m.Entries(Spam))
	assert.Equal(t, m.VocabularySize(), m.Entries(Ham))

	for _, label := range []Label{Spam, Ham} {
		table, err := m.table(label)
		require.NoError(t, err)
		keys := make([]string, 0, len(table))
		for word := range table {
			keys = append(keys, word)
		}
		assert.ElementsMatch(t, m.Vocabulary(), keys, "%s table keys", label)
	}

	for _, word := range m.Vocabulary() {
		for _, label := range []Label{Spam, Ham} {
			n, ok := m.Count(label, word)
			require.True(t, ok, "%s entry for %q", label, word)
			assert.GreaterOrEqual(t, n, 0)
			assert.LessOrEqual(t, n, m.Messages(label))
		}
	}

	n, _ := m.Count(Ham, "buy")
	assert.Equal(t, 0, n)
	n, _ = m.Count(Spam, "hello")
	assert.Equal(t, 0, n)
}

func TestModelEveryCountedWordIsInVocabulary(t *testing.T) {
	m := NewModel()
	learnMessage(t, m, Spam, "a", "b")
	learnMessage(t, m, Ham, "c", "")

	for _, label := range []Label{Spam, Ham} {
		table, err := m.table(label)
		require.NoError(t, err)
		for word := range table {
			assert.True(t, m.InVocabulary(word), "%q", word)
		}
	}
	assert.True(t, m.InVocabulary(""), "empty-string words are words")
}

func TestModelPhaseErrors(t *testing.T) {
	m := NewModel()
	learnMessage(t, m, Spam, "x")

	err := m.beginTesting()
	assert.True(t, errors.Is(err, ErrNotReady))

	require.NoError(t, m.Finalize())

	assert.True(t, errors.Is(m.CountMessage(Spam), ErrNotTraining))
	assert.True(t, errors.Is(m.Learn(Ham, email.NewWordSet("y")), ErrNotTraining))
	assert.True(t, errors.Is(m.Finalize(), ErrNotTraining))
	assert.False(t, m.InVocabulary("y"))

	require.NoError(t, m.beginTesting())
	assert.Equal(t, PhaseTesting, m.Phase())
	assert.True(t, errors.Is(m.CountMessage(Ham), ErrNotTraining))
}

func TestModelBadLabel(t *testing.T) {
	m := NewModel()
	assert.True(t, errors.Is(m.CountMessage(Label(7)), ErrBadLabel))
	assert.True(t, errors.Is(m.Learn(Label(7), email.NewWordSet("x")), ErrBadLabel))
	assert.Equal(t, "label(7)", Label(7).String())
}

func TestWordStats(t *testing.T) {
	m := NewModel()
	learnMessage(t, m, Spam, "viagra", "now")
	learnMessage(t, m, Spam, "viagra")
	learnMessage(t, m, Ham, "meeting", "now")
	learnMessage(t, m, Ham, "meeting")
	require.NoError(t, m.Finalize())

	stats := m.GetWordStats("viagra")
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.SpamCount)
	assert.Equal(t, 0, stats.HamCount)
	assert.InDelta(t, 0.75, stats.SpamProb, 1e-9)
	assert.InDelta(t, 0.25, stats.HamProb, 1e-9)
	assert.InDelta(t, 0.75, stats.Spamminess, 1e-9)

	assert.Nil(t, m.GetWordStats("unknown"))

	top := m.GetTopSpamWords(1)
	require.Len(t, top, 1)
	assert.Equal(t, "viagra", top[0].Word)

	top = m.GetTopHamWords(0)
	require.Len(t, top, 3)
	assert.Equal(t, "meeting", top[0].Word)
	assert.Equal(t, "now", top[1].Word)
}

func TestModelInfoAndPrintStats(t *testing.T) {
	m := NewModel()
	learnMessage(t, m, Spam, "buy", "now")
	learnMessage(t, m, Ham, "hello", "friend")
	require.NoError(t, m.Finalize())

	info := m.GetModelInfo()
	assert.Equal(t, &ModelInfo{
		Phase:           "ready",
		TotalSpamEmails: 1,
		TotalHamEmails:  1,
		VocabularySize:  4,
		SpamEntries:     4,
		HamEntries:      4,
	}, info)

	var buf bytes.Buffer
	m.PrintStats(&buf, 2)
	out := buf.String()
	assert.Contains(t, out, "Spam emails: 1")
	assert.Contains(t, out, "Vocabulary size: 4")
	assert.Contains(t, out, "Top Spam Words")
	assert.Contains(t, out, `"buy"`)

	buf.Reset()
	m.PrintStats(&buf, 0)
	assert.NotContains(t, buf.String(), "Top Spam Words")
}
