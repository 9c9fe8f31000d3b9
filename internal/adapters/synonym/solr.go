package synonym

import "strings"

// splitUnescaped splits s on sep, leaving backslash escapes in place.
func splitUnescaped(s, sep string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// unescape drops the backslash in front of any character.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// parseSolrLine parses one rule. It returns the explicit mapping sides, or
// only inputs for an equivalence group.
func (p *parser) parseSolrLine(line string) (inputs, outputs []string, reason string) {
	sides := splitUnescaped(line, "=>")
	switch len(sides) {
	case 1:
		terms, reason := p.analyzeTerms(sides[0])
		if reason != "" {
			return nil, nil, reason
		}
		if len(distinct(terms)) < 2 {
			return nil, nil, "equivalence group needs at least two distinct terms"
		}
		return terms, nil, ""
	case 2:
		if strings.TrimSpace(sides[0]) == "" || strings.TrimSpace(sides[1]) == "" {
			return nil, nil, "empty side in explicit mapping"
		}
		inputs, reason := p.analyzeTerms(sides[0])
		if reason != "" {
			return nil, nil, reason
		}
		outputs, reason := p.analyzeTerms(sides[1])
		if reason != "" {
			return nil, nil, reason
		}
		return inputs, outputs, ""
	default:
		return nil, nil, "more than one '=>' in rule"
	}
}

func (p *parser) analyzeTerms(side string) ([]string, string) {
	raw := splitUnescaped(side, ",")
	terms := make([]string, 0, len(raw))
	for _, r := range raw {
		term := strings.TrimSpace(unescape(strings.TrimSpace(r)))
		if term == "" {
			return nil, "empty term"
		}
		analyzed := p.analyzer.Analyze(term)
		if analyzed == "" {
			return nil, "term " + quote(term) + " analyzes to nothing"
		}
		terms = append(terms, analyzed)
	}
	return terms, ""
}

func quote(s string) string {
	return "'" + s + "'"
}

func distinct(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
