package rules

// Builder assembles a LanguageRules document programmatically, as an
// alternative to Load for callers that want to construct or tweak a
// bundle in Go rather than YAML. It mirrors Document field-for-field
// and defers all validation to Build, which runs the same compile
// pipeline as Load.
type Builder struct {
	doc Document
}

// NewBuilder starts a Builder for the given language code and name.
func NewBuilder(code, name string) *Builder {
	b := &Builder{}
	b.doc.Metadata = Metadata{Code: code, Name: name}
	b.doc.Abbreviations = map[string]AbbreviationCategory{}
	return b
}

func (b *Builder) TerminatorChars(chars ...string) *Builder {
	b.doc.Terminators.Chars = append(b.doc.Terminators.Chars, chars...)
	return b
}

func (b *Builder) TerminatorPattern(pattern, name string) *Builder {
	b.doc.Terminators.Patterns = append(b.doc.Terminators.Patterns, TerminatorPattern{Pattern: pattern, Name: name})
	return b
}

func (b *Builder) EllipsisPatterns(patterns ...string) *Builder {
	b.doc.Ellipsis.Patterns = append(b.doc.Ellipsis.Patterns, patterns...)
	return b
}

func (b *Builder) EllipsisDefault(boundary bool) *Builder {
	b.doc.Ellipsis.TreatAsBoundary = boundary
	return b
}

func (b *Builder) EllipsisContextRule(condition string, boundary bool) *Builder {
	b.doc.Ellipsis.ContextRules = append(b.doc.Ellipsis.ContextRules, EllipsisContextRule{Condition: condition, Boundary: boundary})
	return b
}

func (b *Builder) EllipsisException(pattern string) *Builder {
	b.doc.Ellipsis.Exceptions = append(b.doc.Ellipsis.Exceptions, pattern)
	return b
}

func (b *Builder) Enclosure(open, close string, symmetric, boundaryExtending bool) *Builder {
	b.doc.Enclosures = append(b.doc.Enclosures, Enclosure{
		Open: open, Close: close, Symmetric: symmetric, BoundaryExtending: boundaryExtending,
	})
	return b
}

func (b *Builder) FastSuppression(char, beforeClass, afterClass string) *Builder {
	b.doc.Suppression.FastPatterns = append(b.doc.Suppression.FastPatterns, FastSuppressionPattern{
		Char: char, Before: beforeClass, After: afterClass,
	})
	return b
}

func (b *Builder) RegexSuppression(pattern string) *Builder {
	b.doc.Suppression.RegexPatterns = append(b.doc.Suppression.RegexPatterns, pattern)
	return b
}

func (b *Builder) AbbreviationCategory(name string, caseInsensitive bool, tokens ...string) *Builder {
	b.doc.Abbreviations[name] = AbbreviationCategory{Tokens: tokens, CaseInsensitive: caseInsensitive}
	return b
}

func (b *Builder) SentenceStarters(requireSpace bool, minWordLen int, categories map[string][]string) *Builder {
	b.doc.SentenceStarters = SentenceStarters{
		RequireFollowingSpace: requireSpace,
		MinWordLength:         minWordLen,
		Categories:            categories,
	}
	return b
}

// Build validates and compiles the accumulated document into a Rules
// value.
func (b *Builder) Build() (*Rules, error) {
	return compile(&b.doc)
}
