package analytics

import (
	"context"
	"log"
	"time"

	"github.com/resumecast/resume-chat-service/internal/store"
	"github.com/resumecast/resume-chat-service/utils"
)

// Provenance column limits in the analytics table.
const (
	maxIPLength        = 45
	maxUserAgentLength = 256
	maxReferrerLength  = 512
)

// recordTimeout bounds the background write so a stalled store cannot pile
// up goroutines.
const recordTimeout = 10 * time.Second

type interactionStore interface {
	ResolveResumeID(ctx context.Context, slug string) (string, error)
	InsertInteraction(ctx context.Context, rec store.InteractionRecord) error
}

// Interaction describes one completed chat exchange to record.
type Interaction struct {
	Slug           string
	Question       string
	Answer         string
	ResponseTimeMs int64
	ConversationID string
	IPAddress      string
	UserAgent      string
	Referrer       string
}

// Recorder writes interaction records. All methods are best-effort: errors
// are logged and swallowed, never returned to the chat path.
type Recorder struct {
	store interactionStore
}

// NewRecorder returns a Recorder backed by the given store.
func NewRecorder(s interactionStore) *Recorder {
	return &Recorder{store: s}
}

// Record classifies and persists one exchange. It is designed to run as a
// fire-and-forget goroutine: it creates its own context, recovers from
// panics, and never reports failure.
func (r *Recorder) Record(in Interaction) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Interaction logging panicked: %v", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	resumeID, err := r.store.ResolveResumeID(ctx, in.Slug)
	if err != nil {
		log.Printf("Interaction logging skipped, could not resolve slug %q: %v", in.Slug, err)
		return
	}

	sentiment, answeredWell := ClassifySentiment(in.Answer)
	rec := store.InteractionRecord{
		ResumeID:        resumeID,
		Question:        in.Question,
		Answer:          in.Answer,
		Topics:          ClassifyTopics(in.Question),
		Sentiment:       sentiment,
		WasAnsweredWell: answeredWell,
		ResponseTimeMs:  in.ResponseTimeMs,
		ConversationID:  in.ConversationID,
		IPAddress:       utils.Truncate(in.IPAddress, maxIPLength),
		UserAgent:       utils.Truncate(in.UserAgent, maxUserAgentLength),
		Referrer:        utils.Truncate(in.Referrer, maxReferrerLength),
	}

	if err := r.store.InsertInteraction(ctx, rec); err != nil {
		log.Printf("Failed to record chat interaction for %q: %v", in.Slug, err)
	}
}
