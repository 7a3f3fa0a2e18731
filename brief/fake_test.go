package brief

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/model"
)

type sentMessage struct {
	ChatID int64
	Text   string
	HTML   bool
	Markup models.ReplyMarkup
}

type editedMarkup struct {
	Ref    model.MessageRef
	Markup models.ReplyMarkup
}

type ackedInteraction struct {
	ID   string
	Opts model.AckOptions
}

// fakeMessenger records everything the engine sends.
type fakeMessenger struct {
	mu     sync.Mutex
	sent   []sentMessage
	edits  []editedMarkup
	acks   []ackedInteraction
	nextID int

	sendErr error
	ackErr  error
}

func (f *fakeMessenger) SendText(ctx context.Context, chatID int64, text string, opts model.TextOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, HTML: opts.HTML})
	return nil
}

func (f *fakeMessenger) SendWithControl(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (model.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return model.MessageRef{}, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, HTML: true, Markup: markup})
	return model.MessageRef{ChatID: chatID, MessageID: f.nextID}, nil
}

func (f *fakeMessenger) EditControl(ctx context.Context, ref model.MessageRef, markup models.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editedMarkup{Ref: ref, Markup: markup})
	return nil
}

func (f *fakeMessenger) AcknowledgeInteraction(ctx context.Context, interactionID string, opts model.AckOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, ackedInteraction{ID: interactionID, Opts: opts})
	return f.ackErr
}

func (f *fakeMessenger) sentTo(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessenger) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// faultyStore wraps a store and injects failures.
type faultyStore struct {
	SessionStore
	saveErr error
	saves   int
	failAt  int // fail the n-th save, 0 fails all
}

func (f *faultyStore) Save(ctx context.Context, userID int64, s *model.Session, ttl time.Duration) error {
	f.saves++
	if f.saveErr != nil && (f.failAt == 0 || f.saves == f.failAt) {
		return f.saveErr
	}
	return f.SessionStore.Save(ctx, userID, s, ttl)
}
