package gateway

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// splitReasoning separates <think>...</think> blocks from the answer. An
// unterminated block runs to the end of the text.
func splitReasoning(text string) (content, reasoning string) {
	if !strings.Contains(text, thinkOpen) {
		return text, ""
	}

	var answer, thoughts strings.Builder
	rest := text
	for {
		before, after, found := strings.Cut(rest, thinkOpen)
		answer.WriteString(before)
		if !found {
			break
		}
		inside, tail, closed := strings.Cut(after, thinkClose)
		thoughts.WriteString(inside)
		if !closed {
			break
		}
		rest = tail
	}
	return strings.TrimSpace(answer.String()), strings.TrimSpace(thoughts.String())
}
