package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"salonbook-backend/storage"

	"github.com/stretchr/testify/require"
)

func plainHash(s string) (string, error) { return s, nil }

func seededStore(t *testing.T) *storage.MemStorage {
	t.Helper()
	s := storage.NewMemStorage()
	require.NoError(t, storage.Seed(context.Background(), s, plainHash))
	return s
}

type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]*Intent
	created []IntentRequest
	getErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*Intent)}
}

func (g *fakeGateway) CreateIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, req)
	id := "pi_test_" + string(rune('a'+len(g.created)-1))
	in := &Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method",
		Amount: req.Amount, Currency: req.Currency, Metadata: req.Metadata}
	g.intents[id] = in
	return in, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return nil, g.getErr
	}
	in, ok := g.intents[id]
	if !ok {
		return nil, errors.New("no such payment intent")
	}
	cp := *in
	return &cp, nil
}

func (g *fakeGateway) setStatus(id, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id].Status = status
}

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(context.Context, string, string, bool) (string, error) {
	f.calls++
	return f.reply, f.err
}

type sentSMS struct{ to, body string }

type fakeSender struct {
	mu   sync.Mutex
	sent []sentSMS
	fail map[string]bool
}

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[to] {
		return errors.New("undeliverable")
	}
	f.sent = append(f.sent, sentSMS{to, body})
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
