package rules

// Document is the on-disk (YAML) shape of a LanguageRules bundle. Load
// parses a Document and compiles it into an immutable, validated Rules
// value; the two are kept separate so the scanner never has to walk
// maps or run regexes at match time.
type Document struct {
	Metadata         Metadata                        `yaml:"metadata"`
	Terminators      Terminators                     `yaml:"terminators"`
	Ellipsis         Ellipsis                        `yaml:"ellipsis"`
	Enclosures       []Enclosure                      `yaml:"enclosures"`
	Suppression      Suppression                     `yaml:"suppression"`
	Abbreviations    map[string]AbbreviationCategory  `yaml:"abbreviations"`
	SentenceStarters SentenceStarters                 `yaml:"sentence_starters"`
}

type Metadata struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// TerminatorPattern is a multi-rune terminator sequence, such as an
// interrobang written as two ASCII punctuation marks.
type TerminatorPattern struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

type Terminators struct {
	// Chars are single-rune sentence terminators ('.', '!', '?', '。', ...).
	Chars []string `yaml:"chars"`
	// Patterns are terminators spanning more than one rune, checked
	// before the single-rune table so the longest match wins.
	Patterns []TerminatorPattern `yaml:"patterns"`
}

// EllipsisContextRule resolves whether a matched ellipsis pattern acts
// as a sentence boundary based on what follows it.
type EllipsisContextRule struct {
	// Condition names a predicate the scanner evaluates against the
	// text immediately following the ellipsis: "followed_by_capital",
	// "followed_by_lowercase", "followed_by_digit", or "at_end_of_input".
	Condition string `yaml:"condition"`
	Boundary  bool   `yaml:"boundary"`
}

type Ellipsis struct {
	// Patterns are matched longest-first ("...." before "...").
	Patterns []string `yaml:"patterns"`
	// TreatAsBoundary is the fallback when no context rule matches.
	TreatAsBoundary bool                  `yaml:"treat_as_boundary"`
	ContextRules    []EllipsisContextRule `yaml:"context_rules"`
	// Exceptions are regexes; a match suppresses boundary treatment
	// regardless of TreatAsBoundary or the context rules.
	Exceptions []string `yaml:"exceptions"`
}

// Enclosure pairs an opening and closing rune ("(" / ")"), or names a
// single symmetric quote rune used for both sides.
type Enclosure struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
	// Symmetric enclosures use the same rune to open and close (e.g.
	// straight quotes); depth tracking toggles rather than counts.
	Symmetric bool `yaml:"symmetric"`
	// BoundaryExtending enclosures (closing quotes) allow a terminator
	// immediately inside them to still close the sentence once the
	// enclosure itself closes.
	BoundaryExtending bool `yaml:"boundary_extending"`
}

// FastSuppressionPattern is a cheap, non-regex suppression rule keyed
// on the character classes immediately surrounding a candidate
// terminator (e.g. '.' flanked by digits on both sides, as in "3.14").
type FastSuppressionPattern struct {
	Char   string `yaml:"char"`
	Before string `yaml:"before_class"`
	After  string `yaml:"after_class"`
}

type Suppression struct {
	FastPatterns  []FastSuppressionPattern `yaml:"fast_patterns"`
	RegexPatterns []string                 `yaml:"regex_patterns"`
}

// AbbreviationCategory groups tokens that share a case-sensitivity
// policy. Tokens never include the trailing terminator rune itself;
// "U.S.A" matches the text preceding a '.', not "U.S.A.".
type AbbreviationCategory struct {
	Tokens          []string `yaml:"tokens"`
	CaseInsensitive bool     `yaml:"case_insensitive"`
}

type SentenceStarters struct {
	RequireFollowingSpace bool                `yaml:"require_following_space"`
	MinWordLength         int                 `yaml:"min_word_length"`
	Categories            map[string][]string `yaml:"categories"`
}
