package endpoints

import (
	"context"
	"sync"

	"github.com/resumecast/resume-chat-service/config"
	"github.com/resumecast/resume-chat-service/internal/analytics"
	"github.com/resumecast/resume-chat-service/internal/grounding"
	"github.com/resumecast/resume-chat-service/internal/llm"
	"github.com/resumecast/resume-chat-service/internal/store"
)

// Test doubles for the Dependencies interfaces.

type fakeLoader struct {
	groundings map[string]grounding.Grounding
	err        error
}

func (f *fakeLoader) Load(ctx context.Context, slug string) (grounding.Grounding, error) {
	if f.err != nil {
		return grounding.Grounding{}, f.err
	}
	g, ok := f.groundings[slug]
	if !ok {
		return grounding.Grounding{}, store.ErrNotFound
	}
	return g, nil
}

type appendedTurn struct {
	resumeID, conversationID, question, answer string
}

type fakeHistory struct {
	turns     []store.Turn
	turnsErr  error
	appendErr error
	appended  []appendedTurn
}

func (f *fakeHistory) Turns(ctx context.Context, resumeID, conversationID string, limit int) ([]store.Turn, error) {
	if f.turnsErr != nil {
		return nil, f.turnsErr
	}
	return f.turns, nil
}

func (f *fakeHistory) AppendTurn(ctx context.Context, resumeID, conversationID, question, answer string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, appendedTurn{resumeID, conversationID, question, answer})
	return nil
}

type interestRecord struct {
	resumeID, name, email, company, message string
}

type fakeInterest struct {
	err      error
	recorded []interestRecord
}

func (f *fakeInterest) InsertRecruiterInterest(ctx context.Context, resumeID, name, email, company, message string) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, interestRecord{resumeID, name, email, company, message})
	return nil
}

// fakeRecorder captures interactions behind a channel so tests can wait for
// the fire-and-forget goroutine.
type fakeRecorder struct {
	mu       sync.Mutex
	recorded []analytics.Interaction
	done     chan struct{}
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{done: make(chan struct{}, 8)}
}

func (f *fakeRecorder) Record(in analytics.Interaction) {
	f.mu.Lock()
	f.recorded = append(f.recorded, in)
	f.mu.Unlock()
	f.done <- struct{}{}
}

func (f *fakeRecorder) last() analytics.Interaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recorded[len(f.recorded)-1]
}

type fakeLLM struct {
	result  llm.CompletionResult
	err     error
	pingErr error
	lastReq llm.GenerateRequest
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.GenerateRequest) (llm.CompletionResult, error) {
	f.lastReq = req
	if f.err != nil {
		return llm.CompletionResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeLLM) Ping(ctx context.Context) error { return f.pingErr }

type fakeEmbedder struct {
	vec   []float64
	err   error
	batch llm.BatchEmbedding
}

func (f *fakeEmbedder) Embed(ctx context.Context, text, model string) ([]float64, error) {
	return f.vec, f.err
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string, model string) (llm.BatchEmbedding, error) {
	if f.err != nil {
		return llm.BatchEmbedding{}, f.err
	}
	return f.batch, nil
}

func (f *fakeEmbedder) Model(requested string) string {
	if requested != "" {
		return requested
	}
	return "nomic-embed-text"
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

// testDeps assembles a working set of fakes for one test.
func testDeps() (*Dependencies, *fakeLLM, *fakeHistory, *fakeRecorder) {
	llmFake := &fakeLLM{result: llm.CompletionResult{Text: "She has ten years of experience.", Tokens: 21}}
	history := &fakeHistory{}
	recorder := newFakeRecorder()

	deps := &Dependencies{
		Config: &config.Config{
			BackendType: config.BackendLlamaCpp,
			BackendURL:  "http://localhost:8080",
			DefaultSlug: "jane-doe",
		},
		Loader: &fakeLoader{groundings: map[string]grounding.Grounding{
			"jane-doe": {
				ResumeID: "resume-1",
				Persona:  grounding.Persona{FirstName: "Jane", FullName: "Jane Doe"},
				FullText: "Senior engineer. Ten years of experience." +
					grounding.ContextSeparator + "Open to contract work.",
				PublicText: "Senior engineer. Ten years of experience.",
			},
		}},
		History:  history,
		Interest: &fakeInterest{},
		Recorder: recorder,
		LLM:      llmFake,
		Embedder: &fakeEmbedder{},
		DB:       &fakePinger{},
		Snapshot: &ContextSnapshot{},
	}
	return deps, llmFake, history, recorder
}
