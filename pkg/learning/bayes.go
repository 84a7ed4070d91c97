package learning

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nbspam/spam-filter/pkg/email"
	"github.com/pkg/errors"
)

// Label is the class of a message
type Label int

const (
	Spam Label = iota
	Ham
)

func (l Label) String() string {
	switch l {
	case Spam:
		return "spam"
	case Ham:
		return "ham"
	default:
		return "label(" + strconv.Itoa(int(l)) + ")"
	}
}

// Phase is the lifecycle state of a Model
type Phase int

const (
	PhaseTraining Phase = iota
	PhaseReady
	PhaseTesting
)

func (p Phase) String() string {
	switch p {
	case PhaseTraining:
		return "training"
	case PhaseReady:
		return "ready"
	case PhaseTesting:
		return "testing"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

var (
	ErrNotTraining = errors.New("model is not accepting training data")
	ErrNotReady    = errors.New("model has not been finalized")
	ErrBadLabel    = errors.New("unknown label")
)

// Model holds the vocabulary and per-class word presence counts of a
// Bernoulli Naive Bayes spam filter.
//
// A model is trained, finalized, then used for testing; the phases are
// strictly ordered and a model never goes back to training.
type Model struct {
	phase Phase

	vocabulary email.WordSet

	// word -> number of training messages of the class containing it
	spamWords map[string]int
	hamWords  map[string]int

	totalSpamEmails int
	totalHamEmails  int

	// sorted vocabulary, fixed by Finalize
	sorted []string
}

// NewModel creates an empty model in the training phase
func NewModel() *Model {
	return &Model{
		phase:      PhaseTraining,
		vocabulary: email.NewWordSet(),
		spamWords:  make(map[string]int),
		hamWords:   make(map[string]int),
	}
}

// Phase returns the current lifecycle phase
func (m *Model) Phase() Phase {
	return m.phase
}

func (m *Model) table(label Label) (map[string]int, error) {
	switch label {
	case Spam:
		return m.spamWords, nil
	case Ham:
		return m.hamWords, nil
	default:
		return nil, errors.Wrapf(ErrBadLabel, "%d", int(label))
	}
}

// CountMessage records one more training message of the given class
func (m *Model) CountMessage(label Label) error {
	if m.phase != PhaseTraining {
		return errors.Wrapf(ErrNotTraining, "counting %s message in %s phase", label, m.phase)
	}

	switch label {
	case Spam:
		m.totalSpamEmails++
	case Ham:
		m.totalHamEmails++
	default:
		return errors.Wrapf(ErrBadLabel, "%d", int(label))
	}

	return nil
}

// Learn folds the word set of one training message into the class table
// and the vocabulary.
func (m *Model) Learn(label Label, words email.WordSet) error {
	if m.phase != PhaseTraining {
		return errors.Wrapf(ErrNotTraining, "learning %s message in %s phase", label, m.phase)
	}

	table, err := m.table(label)
	if err != nil {
		return err
	}

	words.Each(func(word string) bool {
		table[word]++
		m.vocabulary.Add(word)
		return false
	})

	return nil
}

// Finalize gives every vocabulary word an entry in both class tables,
// fixes the vocabulary order and moves the model to the ready phase.
func (m *Model) Finalize() error {
	if m.phase != PhaseTraining {
		return errors.Wrapf(ErrNotTraining, "finalizing in %s phase", m.phase)
	}

	m.sorted = make([]string, 0, m.vocabulary.Cardinality())
	m.vocabulary.Each(func(word string) bool {
		if _, ok := m.spamWords[word]; !ok {
			m.spamWords[word] = 0
		}
		if _, ok := m.hamWords[word]; !ok {
			m.hamWords[word] = 0
		}
		m.sorted = append(m.sorted, word)
		return false
	})
	sort.Strings(m.sorted)

	m.phase = PhaseReady
	return nil
}

// beginTesting moves a finalized model to the testing phase
func (m *Model) beginTesting() error {
	switch m.phase {
	case PhaseReady, PhaseTesting:
		m.phase = PhaseTesting
		return nil
	default:
		return errors.Wrapf(ErrNotReady, "model is in %s phase", m.phase)
	}
}

// Messages returns the number of training messages of a class
func (m *Model) Messages(label Label) int {
	switch label {
	case Spam:
		return m.totalSpamEmails
	case Ham:
		return m.totalHamEmails
	default:
		return 0
	}
}

// Count returns how many training messages of a class contain word, and
// whether the class table has an entry for it.
func (m *Model) Count(label Label, word string) (int, bool) {
	table, err := m.table(label)
	if err != nil {
		return 0, false
	}
	n, ok := table[word]
	return n, ok
}

// Entries returns the number of entries in a class table
func (m *Model) Entries(label Label) int {
	table, err := m.table(label)
	if err != nil {
		return 0
	}
	return len(table)
}

// InVocabulary reports whether word was seen in any training message
func (m *Model) InVocabulary(word string) bool {
	return m.vocabulary.Contains(word)
}

// VocabularySize returns the number of distinct training words
func (m *Model) VocabularySize() int {
	return m.vocabulary.Cardinality()
}

// Vocabulary returns the vocabulary in sorted order
func (m *Model) Vocabulary() []string {
	if m.sorted != nil {
		out := make([]string, len(m.sorted))
		copy(out, m.sorted)
		return out
	}

	out := m.vocabulary.ToSlice()
	sort.Strings(out)
	return out
}

// WordStats contains statistics about a word
type WordStats struct {
	Word       string  `json:"word"`
	SpamCount  int     `json:"spam_count"`
	HamCount   int     `json:"ham_count"`
	SpamProb   float64 `json:"spam_prob"` // smoothed P(word present | spam)
	HamProb    float64 `json:"ham_prob"`  // smoothed P(word present | ham)
	Spamminess float64 `json:"spamminess"`
}

// GetWordStats returns statistics for a vocabulary word, nil for unknown words
func (m *Model) GetWordStats(word string) *WordStats {
	if !m.vocabulary.Contains(word) {
		return nil
	}

	spamCount := m.spamWords[word]
	hamCount := m.hamWords[word]

	spamProb := float64(spamCount+1) / float64(m.totalSpamEmails+2)
	hamProb := float64(hamCount+1) / float64(m.totalHamEmails+2)

	return &WordStats{
		Word:       word,
		SpamCount:  spamCount,
		HamCount:   hamCount,
		SpamProb:   spamProb,
		HamProb:    hamProb,
		Spamminess: spamProb / (spamProb + hamProb),
	}
}

// GetTopSpamWords returns the most spammy words
func (m *Model) GetTopSpamWords(limit int) []*WordStats {
	return m.topWords(limit, func(a, b *WordStats) bool { return a.Spamminess > b.Spamminess })
}

// GetTopHamWords returns the most ham words
func (m *Model) GetTopHamWords(limit int) []*WordStats {
	return m.topWords(limit, func(a, b *WordStats) bool { return a.Spamminess < b.Spamminess })
}

func (m *Model) topWords(limit int, better func(a, b *WordStats) bool) []*WordStats {
	var words []*WordStats
	for _, word := range m.Vocabulary() {
		words = append(words, m.GetWordStats(word))
	}

	// Vocabulary is sorted, so ties stay in word order
	sort.SliceStable(words, func(i, j int) bool {
		return better(words[i], words[j])
	})

	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	return words
}

// ModelInfo contains model information
type ModelInfo struct {
	Phase           string `json:"phase"`
	TotalSpamEmails int    `json:"total_spam_emails"`
	TotalHamEmails  int    `json:"total_ham_emails"`
	VocabularySize  int    `json:"vocabulary_size"`
	SpamEntries     int    `json:"spam_entries"`
	HamEntries      int    `json:"ham_entries"`
}

// GetModelInfo returns information about the trained model
func (m *Model) GetModelInfo() *ModelInfo {
	return &ModelInfo{
		Phase:           m.phase.String(),
		TotalSpamEmails: m.totalSpamEmails,
		TotalHamEmails:  m.totalHamEmails,
		VocabularySize:  m.vocabulary.Cardinality(),
		SpamEntries:     len(m.spamWords),
		HamEntries:      len(m.hamWords),
	}
}

// PrintStats prints model statistics and the top indicative words
func (m *Model) PrintStats(w io.Writer, limit int) {
	info := m.GetModelInfo()

	fmt.Fprintf(w, "🧠 Bernoulli Naive Bayes Model (%s)\n", info.Phase)
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Spam emails: %d\n", info.TotalSpamEmails)
	fmt.Fprintf(w, "  Ham emails: %d\n", info.TotalHamEmails)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)

	if limit <= 0 {
		fmt.Fprintf(w, "\n")
		return
	}

	fmt.Fprintf(w, "\n📈 Top Spam Words:\n")
	for i, word := range m.GetTopSpamWords(limit) {
		fmt.Fprintf(w, "  %2d. %-15q (%.3f spamminess, %d/%d)\n",
			i+1, word.Word, word.Spamminess, word.SpamCount, word.HamCount)
	}

	fmt.Fprintf(w, "\n📉 Top Ham Words:\n")
	for i, word := range m.GetTopHamWords(limit) {
		fmt.Fprintf(w, "  %2d. %-15q (%.3f spamminess, %d/%d)\n",
			i+1, word.Word, word.Spamminess, word.SpamCount, word.HamCount)
	}

	fmt.Fprintf(w, "\n")
}
