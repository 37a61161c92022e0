package answer

import (
	"fmt"
	"strings"

	"github.com/poiesic/newswire/core"
)

const rewriteSystemPrompt = `You turn user questions about financial news into a single search query.

Rules:
- Respond with the query text only, no explanation and no quotes.
- Keep company names, tickers, and financial terms intact.
- Drop conversational filler ("can you tell me", "I was wondering").
- If the question does not call for a news search at all (greetings,
  small talk, questions about you), respond with exactly NO_SEARCH.`

const multiRewriteSystemPrompt = `You turn a user question about financial news into three search queries.

Respond with JSON only, in this shape:
{"queries": ["direct rewrite", "broader phrasing", "alternate angle"]}

The first query is the most literal rewrite, the second widens the
topic, the third rephrases with different vocabulary. Keep company
names, tickers, and financial terms intact.
If the question does not call for a news search at all, respond with
exactly NO_SEARCH.`

const answerSystemPrompt = `You are a financial news assistant. Answer the user's question using
only the numbered articles provided. Cite articles inline as [1], [2]
and so on. If the articles do not contain enough information to answer,
say so plainly instead of guessing. Keep the answer concise.`

// noResultsAnswer is emitted verbatim when retrieval produced nothing;
// the model is never asked to answer from an empty context.
const noResultsAnswer = "I couldn't find any recent articles matching your question. " +
	"Try rephrasing it or asking about a different topic."

// buildAnswerPrompt lays out the numbered context block followed by the
// question. Citation numbers line up with the order of docs, which is
// the order sources are reported to the caller.
func buildAnswerPrompt(question string, docs []core.Document) string {
	var b strings.Builder
	b.WriteString("Articles:\n\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "[%d] %s", i+1, doc.Title)
		if doc.PublishedAt != "" {
			fmt.Fprintf(&b, " (%s)", doc.PublishedAt)
		}
		b.WriteString("\n")
		if doc.Content != "" {
			b.WriteString(doc.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
