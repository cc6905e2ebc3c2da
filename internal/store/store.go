// Package store is the data access layer for the externally-owned Postgres
// database that holds resumes, users, conversation history, and chat
// analytics. The schema (quoted CamelCase tables) is owned by the main API
// service; this service only reads resumes and appends history/analytics rows.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a slug does not resolve to a public, published
// resume. Any other visibility state is indistinguishable from non-existence.
var ErrNotFound = errors.New("resume not found")

// ResumeContext is the raw material for a grounding context: the public
// resume body, the owner's private AI-only context, and the owner's identity.
type ResumeContext struct {
	ID             string
	Content        string
	PrivateContext string
	FirstName      string
	LastName       string
}

// Turn is one question/answer pair in a conversation's history.
type Turn struct {
	Question  string
	Answer    string
	CreatedAt time.Time
}

// InteractionRecord is the write-only analytics row for one completed chat
// exchange.
type InteractionRecord struct {
	ResumeID        string
	Question        string
	Answer          string
	Topics          []string
	Sentiment       string
	WasAnsweredWell bool
	ResponseTimeMs  int64
	ConversationID  string
	IPAddress       string
	UserAgent       string
	Referrer        string
}

// Store wraps a Postgres connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to reach database")
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping reports database reachability for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// GetResumeForLLM fetches the resume matching the slug together with its
// owner's name. Only records that are both public and published resolve;
// everything else is ErrNotFound.
func (s *Store) GetResumeForLLM(ctx context.Context, slug string) (ResumeContext, error) {
	const q = `
		SELECT r."id", r."content", COALESCE(r."llmContext", ''),
		       u."firstName", u."lastName"
		FROM "Resume" r
		JOIN "User" u ON u."id" = r."userId"
		WHERE r."slug" = $1 AND r."isPublic" = true AND r."isPublished" = true`

	var rc ResumeContext
	err := s.pool.QueryRow(ctx, q, slug).Scan(
		&rc.ID, &rc.Content, &rc.PrivateContext, &rc.FirstName, &rc.LastName)
	if err == pgx.ErrNoRows {
		return ResumeContext{}, ErrNotFound
	}
	if err != nil {
		return ResumeContext{}, errors.Wrapf(err, "failed to load resume %q", slug)
	}
	return rc, nil
}

// ResolveResumeID maps a slug to its resume id, for analytics writes.
func (s *Store) ResolveResumeID(ctx context.Context, slug string) (string, error) {
	const q = `SELECT "id" FROM "Resume" WHERE "slug" = $1`

	var id string
	err := s.pool.QueryRow(ctx, q, slug).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve resume %q", slug)
	}
	return id, nil
}

// Turns returns the most recent turns of a conversation, oldest-first.
// A missing conversation yields an empty slice, not an error.
func (s *Store) Turns(ctx context.Context, resumeID, conversationID string, limit int) ([]Turn, error) {
	if conversationID == "" {
		return nil, nil
	}

	const q = `
		SELECT "question", "answer", "createdAt"
		FROM "ChatMessage"
		WHERE "resumeId" = $1 AND "conversationId" = $2
		ORDER BY "createdAt" DESC
		LIMIT $3`

	rows, err := s.pool.Query(ctx, q, resumeID, conversationID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load conversation history")
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Question, &t.Answer, &t.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan conversation turn")
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read conversation history")
	}

	// The query returns newest-first so LIMIT keeps the most recent window;
	// callers always replay oldest-first.
	return oldestFirst(turns), nil
}

// oldestFirst reverses a newest-first window in place so turns replay in
// insertion order.
func oldestFirst(turns []Turn) []Turn {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns
}

// AppendTurn records a completed exchange in the conversation history.
func (s *Store) AppendTurn(ctx context.Context, resumeID, conversationID, question, answer string) error {
	const q = `
		INSERT INTO "ChatMessage" ("id", "resumeId", "conversationId", "question", "answer", "createdAt")
		VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := s.pool.Exec(ctx, q, uuid.NewString(), resumeID, conversationID, question, answer)
	if err != nil {
		return errors.Wrap(err, "failed to append conversation turn")
	}
	return nil
}

// InsertInteraction appends one analytics row. Callers treat failures as
// non-fatal; the chat response never depends on this write.
func (s *Store) InsertInteraction(ctx context.Context, rec InteractionRecord) error {
	const q = `
		INSERT INTO "ChatInteraction"
			("id", "resumeId", "question", "answer", "topics", "sentiment",
			 "wasAnsweredWell", "responseTime", "sessionId", "ipAddress",
			 "userAgent", "referrer", "createdAt")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`

	_, err := s.pool.Exec(ctx, q,
		uuid.NewString(), rec.ResumeID, rec.Question, rec.Answer, rec.Topics,
		rec.Sentiment, rec.WasAnsweredWell, rec.ResponseTimeMs,
		rec.ConversationID, rec.IPAddress, rec.UserAgent, rec.Referrer)
	if err != nil {
		return errors.Wrap(err, "failed to insert chat interaction")
	}
	return nil
}

// InsertRecruiterInterest records a recruiter's contact request against a
// resume.
func (s *Store) InsertRecruiterInterest(ctx context.Context, resumeID, name, email, company, message string) error {
	const q = `
		INSERT INTO "RecruiterInterest" ("id", "resumeId", "name", "email", "company", "message", "createdAt")
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := s.pool.Exec(ctx, q, uuid.NewString(), resumeID, name, email, company, message)
	if err != nil {
		return errors.Wrap(err, "failed to insert recruiter interest")
	}
	return nil
}
