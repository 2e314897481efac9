// Package match locates an expected snippet inside page text. It tries an
// exact substring search first and falls back to two cleaned comparisons
// (contiguous cleaned substring, then bounded-gap in-order token sequence),
// first keeping digits and then stripping them. Reported excerpts are always
// cut from the original, unnormalized page text.
//
// Everything in this package is a pure function of its inputs.
package match

// Level selects which transformations Normalize applies.
type Level int

const (
	Raw Level = iota
	CleanedWithDigits
	CleanedNoDigits
)

func (l Level) String() string {
	switch l {
	case Raw:
		return "raw"
	case CleanedWithDigits:
		return "cleaned"
	case CleanedNoDigits:
		return "cleaned-no-digits"
	}
	return "unknown"
}

// Outcome is the terminal classification of one lookup.
type Outcome int

const (
	NotFound Outcome = iota
	Exact
	Fuzzy
)

func (o Outcome) String() string {
	switch o {
	case Exact:
		return "EXACT"
	case Fuzzy:
		return "FUZZY"
	}
	return "NOT_FOUND"
}

// Method records which check produced a match.
type Method int

const (
	MethodNone Method = iota
	MethodExact
	MethodCleanedSubstring
	MethodSequence
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodCleanedSubstring:
		return "cleaned-substring"
	case MethodSequence:
		return "sequence"
	}
	return ""
}

// Context is the audit excerpt around a match. Found is always a contiguous
// substring of the original haystack.
type Context struct {
	Before string
	Found  string
	After  string

	// Position is the byte offset of the located span in the original text,
	// -1 when the span could not be mapped back.
	Position int

	FoundWords   []string
	MissingWords []string
	MatchRatio   float64
	Level        Level
	Method       Method
}

// Result is the outcome of one lookup. Context is set only for matches;
// ErrorMessage only when the page could not be obtained upstream.
type Result struct {
	Outcome      Outcome
	ErrorMessage string
	Context      *Context
}

// Failed reports whether the lookup carried an upstream error.
func (r Result) Failed() bool { return r.ErrorMessage != "" }

// Lookup is one (needle, haystack) pair as produced by the fetch layer. A
// non-nil Err means the haystack is unusable and is passed through as the
// result's ErrorMessage.
type Lookup struct {
	Haystack string
	Needle   string
	Err      error
}

// Config holds the classifier thresholds. Values are used as given.
type Config struct {
	MinFuzzyTextLength int
	MinMatchRatio      float64
	MinWordsInSequence int
	MaxWordsBetween    int
	ContextWordsBefore int
	ContextWordsAfter  int

	// RetainBestPrefix makes the sequence matcher report the longest chain
	// seen before a gap-overflow restart when it beats the final chain. Off by
	// default: an overflow discards the in-progress chain.
	RetainBestPrefix bool
}

const (
	DefaultMinFuzzyTextLength = 3
	DefaultMinMatchRatio      = 0.7
	DefaultMinWordsInSequence = 3
	DefaultMaxWordsBetween    = 1
	DefaultContextWords       = 20
)

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		MinFuzzyTextLength: DefaultMinFuzzyTextLength,
		MinMatchRatio:      DefaultMinMatchRatio,
		MinWordsInSequence: DefaultMinWordsInSequence,
		MaxWordsBetween:    DefaultMaxWordsBetween,
		ContextWordsBefore: DefaultContextWords,
		ContextWordsAfter:  DefaultContextWords,
	}
}

// Event is a trace point emitted by the classifier.
type Event struct {
	Stage   string
	Level   Level
	Outcome Outcome
	Ratio   float64
	Words   int
}

// Reporter receives classifier trace events. Implementations must be safe for
// concurrent use if the classifier is shared.
type Reporter interface {
	Report(Event)
}
