package synonym

import (
	"context"
	"strings"

	"go.trai.ch/thesaurus/internal/core/domain"
)

// parser turns rule lines into a term mapping for one build.
type parser struct {
	opts     domain.BuildOptions
	analyzer Analyzer
	// stopOnIssue ends parsing at the first malformed rule.
	stopOnIssue bool

	mapping map[string][]string
	rules   int
	issues  []domain.RuleIssue

	// pending wordnet group
	group     []string
	groupID   int64
	haveGroup bool
}

func newParser(opts domain.BuildOptions, analyzer Analyzer, stopOnIssue bool) *parser {
	return &parser{
		opts:        opts,
		analyzer:    analyzer,
		stopOnIssue: stopOnIssue,
		mapping:     make(map[string][]string),
	}
}

// run parses every line of every entry. Line numbers count across entries.
func (p *parser) run(ctx context.Context, entries []domain.RawEntry) error {
	lineNo := 0
	for _, entry := range entries {
		for line := range strings.Lines(entry.Text) {
			lineNo++
			if err := ctx.Err(); err != nil {
				return err
			}

			line = strings.TrimRight(line, "\r\n")
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}

			if reason := p.parseLine(trimmed); reason != "" {
				p.issues = append(p.issues, domain.RuleIssue{Line: lineNo, Text: trimmed, Reason: reason})
				if p.stopOnIssue {
					return nil
				}
			}
		}
	}
	p.flushGroup()
	return nil
}

func (p *parser) parseLine(line string) string {
	if p.opts.Format == domain.FormatWordnet {
		return p.parseWordnet(line)
	}

	inputs, outputs, reason := p.parseSolrLine(line)
	if reason != "" {
		return reason
	}
	if outputs != nil {
		p.addExplicit(inputs, outputs)
	} else {
		p.addEquivalence(inputs)
	}
	p.rules++
	return ""
}

func (p *parser) parseWordnet(line string) string {
	parsed, reason := parseWordnetLine(line)
	if reason != "" {
		return reason
	}
	word := p.analyzer.Analyze(parsed.word)
	if word == "" {
		return "term " + quote(parsed.word) + " analyzes to nothing"
	}

	if p.haveGroup && parsed.synset != p.groupID {
		p.flushGroup()
	}
	p.groupID = parsed.synset
	p.haveGroup = true
	p.group = append(p.group, word)
	return ""
}

// flushGroup publishes the pending synset. Single-word synsets carry no synonyms.
func (p *parser) flushGroup() {
	if !p.haveGroup {
		return
	}
	terms := distinct(p.group)
	if len(terms) > 1 {
		p.addEquivalence(terms)
		p.rules++
	}
	p.group = nil
	p.haveGroup = false
}

func (p *parser) addExplicit(inputs, outputs []string) {
	for _, in := range inputs {
		p.mapping[in] = append(p.mapping[in], outputs...)
	}
}

// addEquivalence maps every term to every term when expanding, else to the first term.
func (p *parser) addEquivalence(terms []string) {
	if p.opts.Expand {
		for _, t := range terms {
			p.mapping[t] = append(p.mapping[t], terms...)
		}
		return
	}
	for _, t := range terms {
		p.mapping[t] = append(p.mapping[t], terms[0])
	}
}
