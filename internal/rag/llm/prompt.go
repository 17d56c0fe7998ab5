package llm

import (
	"fmt"
	"strings"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
)

const themesMarker = "THEMES:"

// BuildUserPrompt lays out the retrieved chunks with their citation
// labels, recent history, and the question, then asks the model for an
// answer followed by a THEMES: block so both providers can parse it
// the same way.
func BuildUserPrompt(userQuery string, matches []commonModels.RetrievedChunk, messageHistory []string) string {
	var b strings.Builder

	b.WriteString("Context chunks from the uploaded documents:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "[%d] (document: %s, page %d, chunk %d)\n%s\n\n",
			i+1, m.Citation.DocumentName, m.Citation.Page, m.Citation.ChunkOrder, m.Content)
	}

	if len(messageHistory) > 0 {
		b.WriteString("Recent conversation turns (newest first), question is what the user asked and answer is what you replied:\n")
		b.WriteString(strings.Join(messageHistory, "\n"))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "User Question: %s\n\n", userQuery)
	b.WriteString("Answer from the context chunks only, referencing them as [1], [2] and so on. ")
	b.WriteString("Then on a new line write \"" + themesMarker + "\" followed by up to three short themes")
	b.WriteString(" across the cited documents, one per line prefixed with \"- \".")
	return b.String()
}

// ParseAnswer splits the raw completion into answer text and themes.
// A model that skips the THEMES: block just yields an empty theme list.
func ParseAnswer(raw string) Answer {
	idx := strings.Index(raw, themesMarker)
	if idx < 0 {
		return Answer{Text: strings.TrimSpace(raw)}
	}

	answer := strings.TrimSpace(raw[:idx])
	var themes []string
	for _, line := range strings.Split(raw[idx+len(themesMarker):], "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimSpace(line)
		if line != "" {
			themes = append(themes, line)
		}
	}
	return Answer{Text: answer, Themes: themes}
}
