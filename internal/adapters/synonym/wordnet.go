package synonym

import (
	"strconv"
	"strings"
)

// wordnetLine is one parsed s(...) fact.
type wordnetLine struct {
	synset int64
	word   string
}

// parseWordnetLine parses s(<synset>,<n>,'<word>',<pos>,<n>,<n>).
func parseWordnetLine(line string) (wordnetLine, string) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "s(")
	if !ok {
		return wordnetLine{}, "missing 's(' prefix"
	}

	idText, rest, ok := strings.Cut(rest, ",")
	if !ok {
		return wordnetLine{}, "missing synset id"
	}
	synset, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
	if err != nil {
		return wordnetLine{}, "synset id " + quote(idText) + " is not a number"
	}

	open := strings.IndexByte(rest, '\'')
	if open < 0 {
		return wordnetLine{}, "missing quoted word"
	}

	var word strings.Builder
	closed := false
	for i := open + 1; i < len(rest); i++ {
		if rest[i] != '\'' {
			word.WriteByte(rest[i])
			continue
		}
		if i+1 < len(rest) && rest[i+1] == '\'' {
			word.WriteByte('\'')
			i++
			continue
		}
		closed = true
		break
	}
	if !closed {
		return wordnetLine{}, "missing closing quote"
	}

	return wordnetLine{synset: synset, word: word.String()}, ""
}
