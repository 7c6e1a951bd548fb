package conversation

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
)

var greetingPattern = regexp.MustCompile(`(?i)^(hi|hello|hey|good (morning|afternoon|evening))\b`)

// FallbackReplies picks a canned reply when the generation backend is
// degraded. Selection within a set is uniform over the set's templates.
type FallbackReplies struct {
	mu       sync.Mutex
	rng      *rand.Rand
	question []string
	greeting []string
	generic  []string
}

// NewFallbackReplies builds the fixed template sets. rng may be seeded for
// deterministic tests; nil uses a time-seeded source.
func NewFallbackReplies(rng *rand.Rand) *FallbackReplies {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FallbackReplies{
		rng: rng,
		question: []string{
			"That's a good question! I'm having trouble reaching my assistant right now - could you try asking again in a moment?",
			"I'd love to answer that, but I'm a bit overloaded at the moment. Please ask again shortly!",
		},
		greeting: []string{
			"Hello! I can help you find and book hotels. Try 'hotels in Paris' to get started.",
			"Hi there! Ask me about hotels - for example, 'hotels in Paris'.",
		},
		generic: []string{
			"Sorry, I didn't quite get that. You can search with 'hotels in <city>' or book with 'book <hotel name>'.",
			"I'm having trouble responding right now. Please try again in a moment.",
		},
	}
}

// Pick selects a fallback appropriate to the original text's shape:
// question mark endings get the question set, greetings the greeting set,
// everything else the generic set.
func (f *FallbackReplies) Pick(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasSuffix(trimmed, "?"):
		return f.choose(f.question)
	case greetingPattern.MatchString(trimmed):
		return f.choose(f.greeting)
	default:
		return f.choose(f.generic)
	}
}

func (f *FallbackReplies) choose(set []string) string {
	if len(set) == 1 {
		return set[0]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return set[f.rng.Intn(len(set))]
}
