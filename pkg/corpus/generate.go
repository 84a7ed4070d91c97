package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// Generator writes synthetic spam and ham corpora in the marker format
type Generator struct {
	rand *rand.Rand

	spamSubjects []string
	hamSubjects  []string
	spamBodies   []string
	hamBodies    []string
	spamDomains  []string
	names        []string
	companies    []string
}

// NewGenerator creates a generator; equal seeds give equal corpora
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rand: rand.New(rand.NewSource(seed)),

		spamSubjects: []string{
			"URGENT!!! FREE MONEY!!!",
			"You have won $1,000,000!!!",
			"ACT NOW - Limited time offer!",
			"Get rich quick - GUARANTEED!",
			"Work from home - Make $5000/week",
			"Click here for FREE gift cards",
		},
		hamSubjects: []string{
			"Meeting tomorrow at 2 PM",
			"Quarterly report attached",
			"Project update - Phase 2 complete",
			"Lunch invitation",
			"Re: Budget approval",
		},
		spamBodies: []string{
			"Congratulations! You have been selected to receive FREE MONEY!\nNo risk involved. GUARANTEED income! Act now: %s",
			"URGENT! Your account will be suspended unless you verify your details.\nClick here to avoid suspension: %s",
			"Make money fast with our proven system!\nThousands already earn $10,000 per week. Join now: %s",
			"You have won our lottery! Claim your prize now.\nSend your bank details to: %s",
			"Lose weight fast with our miracle pill!\nNo diet or exercise needed. Order now: %s",
		},
		hamBodies: []string{
			"Hi there,\nA reminder about our meeting tomorrow at 2 PM in the conference room.\nWe will review the quarterly reports.\nBest regards,\n%s",
			"Hello,\nPlease find attached the quarterly report for your review.\nLet me know if you have any questions.\nThanks,\n%s",
			"Hi team,\nPhase 2 has been completed and we are on track for the deadline.\nNext step is the review of deliverables.\nBest,\n%s",
			"Dear all,\nWe are planning a team lunch this Friday at 12:30 PM.\nPlease let me know if you can make it.\nRegards,\n%s",
		},
		spamDomains: []string{
			"get-rich-quick.com", "free-money.net", "lottery-scam.org", "dodgy-pharma.net",
		},
		names: []string{
			"John Smith", "Jane Doe", "Sarah Wilson", "David Brown", "Emily Davis",
		},
		companies: []string{
			"Tech Solutions Inc", "Global Dynamics", "Innovation Labs", "Future Systems",
		},
	}
}

// WriteSpam writes n spam messages to w
func (g *Generator) WriteSpam(w io.Writer, n int) error {
	return g.write(w, n, g.spamMessage)
}

// WriteHam writes n ham messages to w
func (g *Generator) WriteHam(w io.Writer, n int) error {
	return g.write(w, n, g.hamMessage)
}

func (g *Generator) write(w io.Writer, n int, message func() (string, string)) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < n; i++ {
		subject, body := message()
		fmt.Fprintf(bw, "<SUBJECT>%s</SUBJECT>\n<BODY>\n%s\n</BODY>\n", subject, body)
	}
	return errors.Wrap(bw.Flush(), "writing corpus")
}

func (g *Generator) spamMessage() (string, string) {
	subject := g.randomChoice(g.spamSubjects)
	if g.rand.Float64() < 0.5 {
		subject = strings.ToUpper(subject)
	}
	link := fmt.Sprintf("http://%s/click-here", g.randomChoice(g.spamDomains))
	return subject, fmt.Sprintf(g.randomChoice(g.spamBodies), link)
}

func (g *Generator) hamMessage() (string, string) {
	subject := g.randomChoice(g.hamSubjects)
	signature := g.randomChoice(g.names) + "\n" + g.randomChoice(g.companies)
	return subject, fmt.Sprintf(g.randomChoice(g.hamBodies), signature)
}

func (g *Generator) randomChoice(items []string) string {
	return items[g.rand.Intn(len(items))]
}
