// Package prompt assembles the structured input handed to the completion
// router: a system instruction block (persona framing, policy, grounding
// context, replayed history) and the user turn (the new question).
package prompt

import (
	"fmt"
	"strings"

	"github.com/resumecast/resume-chat-service/internal/grounding"
	"github.com/resumecast/resume-chat-service/internal/store"
)

// HistoryWindow is the bounded number of prior turns replayed into the
// prompt. Older turns are dropped, not summarized.
const HistoryWindow = 6

// Input carries everything the assembler needs for one chat exchange.
type Input struct {
	Persona  grounding.Persona
	Policy   string
	Context  string
	History  []store.Turn
	Question string
}

// Assemble renders the system prompt and user message for a chat request.
// History is replayed oldest-first as labeled lines. The single-block
// formatting contract is requested here because the post-processor does not
// re-enforce it.
func Assemble(in Input) (system, user string) {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional AI assistant helping visitors learn about %s's career and qualifications.\n\n", in.Persona.FullName)
	b.WriteString(in.Policy)
	b.WriteString("\n\nPROFESSIONAL INFORMATION:\n")
	b.WriteString(in.Context)

	if len(in.History) > 0 {
		b.WriteString("\n\nCONVERSATION SO FAR:\n")
		for _, t := range in.History {
			fmt.Fprintf(&b, "Recruiter: %s\n", t.Question)
			fmt.Fprintf(&b, "Assistant: %s\n", t.Answer)
		}
	}

	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- Answer accurately based only on the resume information provided above\n")
	b.WriteString("- Be professional, positive, and helpful\n")
	fmt.Fprintf(&b, "- If information is not available, say \"I don't have that information in %s's profile\"\n", in.Persona.FirstName)
	b.WriteString("- Respond in a single continuous block of text with no extra line breaks")

	return b.String(), in.Question
}

// Improve renders the prompt pair for the text-rewriting flow. kind names the
// kind of text being improved ("resume", "cover letter", ...).
func Improve(text, kind string) (system, user string) {
	if kind == "" {
		kind = "resume"
	}

	system = fmt.Sprintf(`You are an expert %s writer. Rewrite the text you are given so it is clear, concise, and professional.
Keep every stated fact; never invent accomplishments, numbers, or dates.
Return only the improved text itself in a single continuous block, with no introduction, explanation, or quotation marks.`, kind)

	user = fmt.Sprintf("Improve the following %s text:\n\n%s", kind, text)
	return system, user
}
