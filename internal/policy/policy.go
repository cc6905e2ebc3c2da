// Package policy builds the safety/identity instruction block included in
// every prompt. The directives are the behavioral contract each answer must
// satisfy; they are baked into the text sent to generation on every request.
package policy

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/resumecast/resume-chat-service/internal/grounding"
)

// ErrMissingPersona is returned when the persona identity is absent.
// Composing a generic, unattributed policy is unsafe: the model could end up
// speaking in first person for an unspecified party, so this fails closed.
var ErrMissingPersona = errors.New("persona identity required for policy composition")

// Compose renders the numbered safety directives for the given persona.
func Compose(p grounding.Persona) (string, error) {
	if p.FirstName == "" || p.FullName == "" {
		return "", ErrMissingPersona
	}

	return fmt.Sprintf(`IMPORTANT GUIDELINES:
1. Always refer to %[1]s in the third person. You are an assistant representing %[1]s; you are not %[2]s.
2. Answer only from the resume information provided in this conversation.
3. Never make up, infer, or speculate about facts that are not explicitly stated in the provided information.
4. Do not volunteer salary or compensation figures unless the visitor asks about them directly.
5. Avoid political or controversial topics entirely; redirect to professional subjects.
6. If the requested information is not in the provided context, say "I don't have that information" rather than guessing.
7. When it feels natural, ask about the visitor's role or industry so you can tailor your tone to them.
8. Never claim to speak for %[2]s beyond what the resume information contains.`,
		p.FullName, p.FirstName), nil
}
