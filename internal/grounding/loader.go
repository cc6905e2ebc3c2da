// Package grounding resolves a context identifier (resume slug) to the
// authoritative text the generator is restricted to answering from.
package grounding

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/resumecast/resume-chat-service/internal/store"
)

// ContextSeparator joins the public resume body and the private AI-only
// addendum into one opaque context blob. The generator sees the combined text
// only; nothing downstream distinguishes the two parts.
const ContextSeparator = "\n\n<!-- ADDITIONAL CONTEXT FOR AI -->\n"

// Persona identifies the third-person subject the assistant represents.
type Persona struct {
	FirstName string
	FullName  string
}

// Grounding is the immutable per-request context for one chat exchange.
// FullText includes the private addendum and is only ever sent to the
// generation backend; PublicText is safe to expose on diagnostics.
type Grounding struct {
	ResumeID   string
	Persona    Persona
	FullText   string
	PublicText string
}

type resumeSource interface {
	GetResumeForLLM(ctx context.Context, slug string) (store.ResumeContext, error)
}

// Loader fetches grounding contexts. Every request re-fetches so edits to
// the underlying resume are visible on the next message; there is no cache.
type Loader struct {
	src resumeSource
}

// NewLoader returns a Loader backed by the given resume source.
func NewLoader(src resumeSource) *Loader {
	return &Loader{src: src}
}

// Load resolves a slug to its grounding context and persona. An unknown,
// unpublished, or non-public slug returns store.ErrNotFound; store failures
// are wrapped as a distinct "context unavailable" condition.
func (l *Loader) Load(ctx context.Context, slug string) (Grounding, error) {
	rc, err := l.src.GetResumeForLLM(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return Grounding{}, err
	}
	if err != nil {
		return Grounding{}, errors.Wrap(err, "resume context unavailable")
	}

	full := rc.Content
	if addendum := strings.TrimSpace(rc.PrivateContext); addendum != "" {
		full = rc.Content + ContextSeparator + addendum
	}

	return Grounding{
		ResumeID: rc.ID,
		Persona: Persona{
			FirstName: strings.TrimSpace(rc.FirstName),
			FullName:  strings.TrimSpace(rc.FirstName + " " + rc.LastName),
		},
		FullText:   full,
		PublicText: rc.Content,
	}, nil
}
