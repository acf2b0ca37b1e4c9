// Package rules compiles declarative LanguageRules documents (YAML) into
// the immutable, validated lookup structures pkg/scanner consumes. A
// Rules value never changes after Load returns; the scanner treats it
// as read-only and shares one instance across every chunk and, in
// parallel mode, every worker.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/kuderr/sakurs-go/pkg/sakerr"
	"gopkg.in/yaml.v3"
)

// enclosureSide records what a single rune means when it appears in
// text: which enclosure it belongs to, and whether seeing it opens or
// closes that enclosure (symmetric enclosures toggle instead).
type enclosureSide struct {
	id                int
	opens             bool
	symmetric         bool
	boundaryExtending bool
}

type contextRule struct {
	condition string
	boundary  bool
}

type abbrevSet struct {
	exact           map[string]bool
	caseInsensitive map[string]bool // lowercased keys
	maxDots         int             // longest token's internal dot count, across the set
}

func (a *abbrevSet) contains(token string) bool {
	if a.exact[token] {
		return true
	}
	if len(a.caseInsensitive) > 0 && a.caseInsensitive[strings.ToLower(token)] {
		return true
	}
	return false
}

// Rules is the compiled, immutable form of a LanguageRules document.
type Rules struct {
	code string
	name string

	terminatorChars    map[rune]bool
	terminatorPatterns []string // sorted longest-first, runes

	ellipsisPatterns []string // sorted longest-first
	ellipsisDefault  bool
	ellipsisContext  []contextRule
	ellipsisExcept   []*regexp.Regexp

	enclosures    map[rune]enclosureSide
	numEnclosures int
	extending     []bool // per enclosure id, whether it is boundary-extending

	fastSuppression map[rune][]fastRule
	regexSuppress   []*regexp.Regexp

	abbrevCategories map[string]*abbrevSet
	maxAbbrevDots    int

	starterRequireSpace bool
	starterMinWordLen   int
	starterWords        map[string]bool // every word stored lowercased
	starterExact        map[string]bool

	// maxLookback bounds how many runes of left-context a chunk boundary
	// needs to carry so patterns spanning the split are not missed.
	maxLookback int
}

type fastRule struct {
	before CharClass
	after  CharClass
}

// Code returns the ISO-ish language code this bundle was compiled for.
func (r *Rules) Code() string { return r.code }

// Name returns the human-readable language name.
func (r *Rules) Name() string { return r.name }

// TerminatorCount reports how many single-rune terminators are
// registered, for logging (internal/logging.Logger.LogRuleLoad).
func (r *Rules) TerminatorCount() int { return len(r.terminatorChars) }

// AbbreviationCount reports the total number of abbreviation tokens
// across all categories, for logging.
func (r *Rules) AbbreviationCount() int {
	n := 0
	for _, set := range r.abbrevCategories {
		n += len(set.exact) + len(set.caseInsensitive)
	}
	return n
}

// Load parses and compiles a LanguageRules document from raw YAML.
func Load(data []byte) (*Rules, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, sakerr.NewConfigError("malformed rules document", err)
	}
	return compile(&doc)
}

// LoadFile reads and compiles a LanguageRules document from disk.
func LoadFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sakerr.NewConfigError("cannot read rules file "+path, err)
	}
	return Load(data)
}

func compile(doc *Document) (*Rules, error) {
	if doc.Metadata.Code == "" {
		return nil, sakerr.NewConfigError("metadata.code is required", nil)
	}

	r := &Rules{
		code:             doc.Metadata.Code,
		name:             doc.Metadata.Name,
		terminatorChars:  map[rune]bool{},
		enclosures:       map[rune]enclosureSide{},
		fastSuppression:  map[rune][]fastRule{},
		abbrevCategories: map[string]*abbrevSet{},
	}

	if err := compileTerminators(r, doc.Terminators); err != nil {
		return nil, err
	}
	if err := compileEllipsis(r, doc.Ellipsis); err != nil {
		return nil, err
	}
	if err := compileEnclosures(r, doc.Enclosures); err != nil {
		return nil, err
	}
	if err := compileSuppression(r, doc.Suppression); err != nil {
		return nil, err
	}
	if err := compileAbbreviations(r, doc.Abbreviations); err != nil {
		return nil, err
	}
	compileSentenceStarters(r, doc.SentenceStarters)

	r.maxLookback = computeMaxLookback(r)

	return r, nil
}

func compileTerminators(r *Rules, t Terminators) error {
	for _, c := range t.Chars {
		runes := []rune(c)
		if len(runes) != 1 {
			return sakerr.NewConfigError(fmt.Sprintf("terminators.chars entry %q must be exactly one rune", c), nil)
		}
		r.terminatorChars[runes[0]] = true
	}

	patterns := make([]string, 0, len(t.Patterns))
	for _, p := range t.Patterns {
		if p.Pattern == "" {
			return sakerr.NewConfigError("terminators.patterns entry has an empty pattern", nil)
		}
		patterns = append(patterns, p.Pattern)
	}
	sort.Slice(patterns, func(i, j int) bool { return len(patterns[i]) > len(patterns[j]) })
	r.terminatorPatterns = patterns

	return nil
}

func compileEllipsis(r *Rules, e Ellipsis) error {
	patterns := append([]string(nil), e.Patterns...)
	sort.Slice(patterns, func(i, j int) bool { return len(patterns[i]) > len(patterns[j]) })
	r.ellipsisPatterns = patterns
	r.ellipsisDefault = e.TreatAsBoundary

	for _, cr := range e.ContextRules {
		switch cr.Condition {
		case "followed_by_capital", "followed_by_lowercase", "followed_by_digit", "at_end_of_input":
		default:
			return sakerr.NewConfigError("unknown ellipsis context_rules condition: "+cr.Condition, nil)
		}
		r.ellipsisContext = append(r.ellipsisContext, contextRule{condition: cr.Condition, boundary: cr.Boundary})
	}

	for _, pat := range e.Exceptions {
		re, err := regexp.Compile(pat)
		if err != nil {
			return sakerr.NewConfigError("invalid ellipsis exception regex: "+pat, err)
		}
		r.ellipsisExcept = append(r.ellipsisExcept, re)
	}

	return nil
}

func compileEnclosures(r *Rules, encs []Enclosure) error {
	for i, e := range encs {
		openRunes := []rune(e.Open)
		if len(openRunes) != 1 {
			return sakerr.NewConfigError(fmt.Sprintf("enclosures[%d].open must be one rune", i), nil)
		}
		open := openRunes[0]

		if e.Symmetric {
			if _, exists := r.enclosures[open]; exists {
				return sakerr.NewConfigError(fmt.Sprintf("enclosures[%d] rune %q already registered", i, string(open)), nil)
			}
			r.enclosures[open] = enclosureSide{id: i, opens: true, symmetric: true, boundaryExtending: e.BoundaryExtending}
			r.numEnclosures++
			r.extending = append(r.extending, e.BoundaryExtending)
			continue
		}

		closeRunes := []rune(e.Close)
		if len(closeRunes) != 1 {
			return sakerr.NewConfigError(fmt.Sprintf("enclosures[%d].close must be one rune", i), nil)
		}
		close := closeRunes[0]
		if open == close {
			return sakerr.NewConfigError(fmt.Sprintf("enclosures[%d] has identical open/close but symmetric is false", i), nil)
		}
		if _, exists := r.enclosures[open]; exists {
			return sakerr.NewConfigError(fmt.Sprintf("enclosures[%d] open rune %q already registered", i, string(open)), nil)
		}
		if _, exists := r.enclosures[close]; exists {
			return sakerr.NewConfigError(fmt.Sprintf("enclosures[%d] close rune %q already registered", i, string(close)), nil)
		}
		r.enclosures[open] = enclosureSide{id: i, opens: true, boundaryExtending: e.BoundaryExtending}
		r.enclosures[close] = enclosureSide{id: i, opens: false, boundaryExtending: e.BoundaryExtending}
		r.numEnclosures++
		r.extending = append(r.extending, e.BoundaryExtending)
	}
	return nil
}

func compileSuppression(r *Rules, s Suppression) error {
	for i, fp := range s.FastPatterns {
		charRunes := []rune(fp.Char)
		if len(charRunes) != 1 {
			return sakerr.NewConfigError(fmt.Sprintf("suppression.fast_patterns[%d].char must be one rune", i), nil)
		}
		before, ok := parseClassName(fp.Before)
		if !ok {
			return sakerr.NewConfigError("unknown before_class: "+fp.Before, nil)
		}
		after, ok := parseClassName(fp.After)
		if !ok {
			return sakerr.NewConfigError("unknown after_class: "+fp.After, nil)
		}
		c := charRunes[0]
		r.fastSuppression[c] = append(r.fastSuppression[c], fastRule{before: before, after: after})
	}

	for _, pat := range s.RegexPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return sakerr.NewConfigError("invalid suppression regex: "+pat, err)
		}
		r.regexSuppress = append(r.regexSuppress, re)
	}

	return nil
}

func compileAbbreviations(r *Rules, cats map[string]AbbreviationCategory) error {
	for name, cat := range cats {
		set := &abbrevSet{exact: map[string]bool{}, caseInsensitive: map[string]bool{}}
		for _, tok := range cat.Tokens {
			if tok == "" {
				return sakerr.NewConfigError("abbreviations."+name+" contains an empty token", nil)
			}
			if cat.CaseInsensitive {
				set.caseInsensitive[strings.ToLower(tok)] = true
			} else {
				set.exact[tok] = true
			}
			dots := strings.Count(tok, ".")
			if dots > set.maxDots {
				set.maxDots = dots
			}
			if dots > r.maxAbbrevDots {
				r.maxAbbrevDots = dots
			}
		}
		r.abbrevCategories[name] = set
	}
	return nil
}

func compileSentenceStarters(r *Rules, s SentenceStarters) {
	r.starterRequireSpace = s.RequireFollowingSpace
	r.starterMinWordLen = s.MinWordLength
	r.starterWords = map[string]bool{}
	r.starterExact = map[string]bool{}
	for _, words := range s.Categories {
		for _, w := range words {
			r.starterExact[w] = true
			r.starterWords[strings.ToLower(w)] = true
		}
	}
}

func computeMaxLookback(r *Rules) int {
	max := 0
	grow := func(s string) {
		n := len([]rune(s))
		if n > max {
			max = n
		}
	}
	for _, p := range r.terminatorPatterns {
		grow(p)
	}
	for _, p := range r.ellipsisPatterns {
		grow(p)
	}
	for _, set := range r.abbrevCategories {
		for tok := range set.exact {
			grow(tok)
		}
		for tok := range set.caseInsensitive {
			grow(tok)
		}
	}
	if max < 8 {
		max = 8
	}
	return max
}

// MaxLookback returns the largest number of runes any single pattern
// in this bundle spans, but never less than 8, used to size
// chunk-boundary overlap windows.
func (r *Rules) MaxLookback() int { return r.maxLookback }

// IsAbbreviation reports whether token (with no trailing terminator)
// matches a configured abbreviation, and whether that token is itself
// a multi-dot acronym (which pkg/scanner never lets a sentence starter
// override).
func (r *Rules) IsAbbreviation(token string) (matched bool, multiDot bool) {
	for _, set := range r.abbrevCategories {
		if set.contains(token) {
			return true, strings.Count(token, ".") > 0
		}
	}
	return false, false
}

// IsSentenceStarter reports whether word is a configured sentence
// opener, applying the bundle's minimum word length.
func (r *Rules) IsSentenceStarter(word string) bool {
	if len([]rune(word)) < r.starterMinWordLen {
		return false
	}
	if r.starterExact[word] {
		return true
	}
	return r.starterWords[strings.ToLower(word)]
}

// RequireFollowingSpace reports whether a sentence starter must be
// preceded by whitespace to count.
func (r *Rules) RequireFollowingSpace() bool { return r.starterRequireSpace }

// IsTerminatorChar reports whether r is a registered single-rune
// terminator.
func (rl *Rules) IsTerminatorChar(r rune) bool { return rl.terminatorChars[r] }

// TerminatorPatterns returns the multi-rune terminator sequences,
// longest first.
func (r *Rules) TerminatorPatterns() []string { return r.terminatorPatterns }

// EllipsisPatterns returns the configured ellipsis sequences, longest
// first.
func (r *Rules) EllipsisPatterns() []string { return r.ellipsisPatterns }

// EllipsisDefaultBoundary is the fallback when no context rule fires.
func (r *Rules) EllipsisDefaultBoundary() bool { return r.ellipsisDefault }

// EllipsisBoundaryFor resolves whether a matched ellipsis, followed by
// `after` (the rune immediately past it, or 0 at end of input), is a
// sentence boundary.
func (r *Rules) EllipsisBoundaryFor(matched string, after rune, atEOF bool) bool {
	for _, ex := range r.ellipsisExcept {
		if ex.MatchString(matched) {
			return false
		}
	}
	for _, cr := range r.ellipsisContext {
		var ok bool
		switch cr.condition {
		case "followed_by_capital":
			ok = after != 0 && isUpperRune(after)
		case "followed_by_lowercase":
			ok = after != 0 && isLowerRune(after)
		case "followed_by_digit":
			ok = after != 0 && ClassOf(after) == ClassDigit
		case "at_end_of_input":
			ok = atEOF
		}
		if ok {
			return cr.boundary
		}
	}
	return r.ellipsisDefault
}

// EnclosureAt reports the enclosure side information for rune r, if
// any.
func (r *Rules) EnclosureAt(rn rune) (id int, opens bool, symmetric bool, boundaryExtending bool, ok bool) {
	side, found := r.enclosures[rn]
	if !found {
		return 0, false, false, false, false
	}
	return side.id, side.opens, side.symmetric, side.boundaryExtending, true
}

// NumEnclosures returns how many distinct enclosure pairs are
// registered, sizing the per-chunk depth-delta tables.
func (r *Rules) NumEnclosures() int { return r.numEnclosures }

// Extending reports whether enclosure id allows a terminator
// immediately inside it to still close the sentence once the
// enclosure itself closes (true for closing quotes, false for
// parentheses and brackets).
func (r *Rules) Extending(id int) bool {
	if id < 0 || id >= len(r.extending) {
		return false
	}
	return r.extending[id]
}

// SuppressesFast reports whether a candidate terminator rune is
// suppressed by a fast (non-regex) surrounding-character-class rule.
func (r *Rules) SuppressesFast(c, before, after rune) bool {
	rules, ok := r.fastSuppression[c]
	if !ok {
		return false
	}
	bc, ac := ClassOf(before), ClassOf(after)
	if before == 0 {
		bc = ClassNone
	}
	if after == 0 {
		ac = ClassNone
	}
	for _, fr := range rules {
		if (fr.before == classWildcard || fr.before == bc) && (fr.after == classWildcard || fr.after == ac) {
			return true
		}
	}
	return false
}

// SuppressesRegex reports whether window (text surrounding a
// candidate terminator) matches a configured regex suppression
// pattern.
func (r *Rules) SuppressesRegex(window string) bool {
	for _, re := range r.regexSuppress {
		if re.MatchString(window) {
			return true
		}
	}
	return false
}

func isUpperRune(r rune) bool {
	return r >= 'A' && r <= 'Z' || (r > 127 && strings.ToUpper(string(r)) == string(r) && strings.ToLower(string(r)) != string(r))
}

func isLowerRune(r rune) bool {
	return r >= 'a' && r <= 'z' || (r > 127 && strings.ToLower(string(r)) == string(r) && strings.ToUpper(string(r)) != string(r))
}
