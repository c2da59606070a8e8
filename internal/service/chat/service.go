package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zhouzirui/calm-companion/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/calm-companion/backend/internal/model/chat"
	"github.com/zhouzirui/calm-companion/backend/internal/model/profile"
	profilesvc "github.com/zhouzirui/calm-companion/backend/internal/service/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAwaitingReply   = errors.New("companion reply pending")
)

const (
	baseReplyDelay     = 1000 * time.Millisecond
	longReplyDelay     = 2000 * time.Millisecond
	longInputThreshold = 100
	maxReplyJitterMS   = 1500
	subscriberBuffer   = 16
)

// ProfileStore loads and saves the persisted user profile.
type ProfileStore interface {
	Load(ctx context.Context) profile.UserProfile
	Save(ctx context.Context, p profile.UserProfile) error
}

// ResponseSelector turns a classified message into a companion reply.
type ResponseSelector interface {
	Select(ctx context.Context, rawText string, result sentiment.Result, p profile.UserProfile) string
}

// Options carries the injectable collaborators. Zero values fall back to
// real timers, a runtime-seeded picker and time.Now.
type Options struct {
	Scheduler schedule.Scheduler
	Picker    schedule.Picker
	Now       func() time.Time
}

type sessionState struct {
	session     chat.Session
	messages    []chat.Message
	subscribers map[int]chan chat.Message
	nextSubID   int
}

// Service owns chat sessions and drives the idle → awaiting-reply → idle cycle.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState

	// profileMu serializes profile read-modify-write across sessions.
	profileMu sync.Mutex
	profiles  ProfileStore
	selector  ResponseSelector

	scheduler schedule.Scheduler
	picker    schedule.Picker
	now       func() time.Time
}

// NewService wires the conversation controller.
func NewService(profiles ProfileStore, selector ResponseSelector, opts Options) *Service {
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.TimerScheduler{}
	}
	if opts.Picker == nil {
		opts.Picker = schedule.NewRandPicker()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		sessions:  make(map[string]*sessionState),
		profiles:  profiles,
		selector:  selector,
		scheduler: opts.Scheduler,
		picker:    opts.Picker,
		now:       opts.Now,
	}
}

// Mount opens a chat session. The welcome message depends on how many times
// the chat was opened before; the counter is bumped whether or not the user
// ever sends anything.
func (s *Service) Mount(ctx context.Context) (chat.Session, chat.Message, error) {
	s.profileMu.Lock()
	p := s.profiles.Load(ctx)
	text := WelcomeMessage(p)
	p.ConversationCount++
	p.LastSeen = s.now().UTC()
	if err := s.profiles.Save(ctx, p); err != nil {
		log.Printf("[chat] failed to persist conversation count: %v", err)
	}
	s.profileMu.Unlock()

	now := s.now().UTC()
	session := chat.Session{
		ID:        uuid.NewString(),
		State:     chat.StateIdle,
		CreatedAt: now,
	}
	welcome := chat.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Sender:    chat.SenderCompanion,
		Content:   text,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionState{
		session:     session,
		messages:    append(make([]chat.Message, 0, 16), welcome),
		subscribers: make(map[int]chan chat.Message),
	}
	s.mu.Unlock()

	log.Printf("[chat] mounted session=%s conversations=%d", session.ID, p.ConversationCount)
	return session, welcome, nil
}

// Submit appends the user's message and schedules the companion reply.
// Blank input is ignored: it returns a nil message and a nil error.
func (s *Service) Submit(ctx context.Context, sessionID, text string) (*chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	result := sentiment.Classify(text)

	s.mu.Lock()
	state, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if state.session.State == chat.StateAwaitingReply {
		s.mu.Unlock()
		return nil, ErrAwaitingReply
	}

	userMsg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    chat.SenderUser,
		Content:   text,
		Sentiment: string(result.Category),
		Emotion:   result.Emotion,
		CreatedAt: s.now().UTC(),
	}
	state.messages = append(state.messages, userMsg)
	state.session.State = chat.StateAwaitingReply
	s.broadcastLocked(state, userMsg)
	s.mu.Unlock()

	s.profileMu.Lock()
	updated := profilesvc.Update(s.profiles.Load(ctx), text, result, s.picker, s.now())
	if err := s.profiles.Save(ctx, updated); err != nil {
		log.Printf("[chat] failed to persist profile update: %v", err)
	}
	s.profileMu.Unlock()

	delay := ReplyDelay(text, s.picker)
	s.scheduler.After(delay, func() {
		s.deliverReply(sessionID, text, result, updated)
	})

	return &userMsg, nil
}

// ReplyDelay returns the cosmetic typing delay for an input.
func ReplyDelay(text string, picker schedule.Picker) time.Duration {
	base := baseReplyDelay
	if utf8.RuneCountInString(text) > longInputThreshold {
		base = longReplyDelay
	}
	return base + time.Duration(picker.IntN(maxReplyJitterMS+1))*time.Millisecond
}

func (s *Service) deliverReply(sessionID, text string, result sentiment.Result, snapshot profile.UserProfile) {
	// 回复在定时器中生成，原请求的 ctx 此时可能已结束
	reply := s.selector.Select(context.Background(), text, result, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		log.Printf("[chat] dropping reply for closed session=%s", sessionID)
		return
	}

	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    chat.SenderCompanion,
		Content:   reply,
		CreatedAt: s.now().UTC(),
	}
	state.messages = append(state.messages, msg)
	state.session.State = chat.StateIdle
	s.broadcastLocked(state, msg)
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return state.session, nil
}

// LoadTranscript returns the session's messages in submission order.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(state.messages))
	copy(copied, state.messages)
	return copied, nil
}

// Close forgets a session. Replies still in flight for it are dropped.
func (s *Service) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	for id, ch := range state.subscribers {
		close(ch)
		delete(state.subscribers, id)
	}
	delete(s.sessions, sessionID)
}

// Subscribe streams every message appended to the session after the call.
// The returned cancel func must be called to release the subscription.
func (s *Service) Subscribe(sessionID string) (<-chan chat.Message, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	id := state.nextSubID
	state.nextSubID++
	ch := make(chan chat.Message, subscriberBuffer)
	state.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := state.subscribers[id]; ok {
			close(sub)
			delete(state.subscribers, id)
		}
	}
	return ch, cancel, nil
}

func (s *Service) broadcastLocked(state *sessionState, msg chat.Message) {
	for id, ch := range state.subscribers {
		select {
		case ch <- msg:
		default:
			log.Printf("[chat] subscriber %d on session=%s is slow, dropping message", id, state.session.ID)
		}
	}
}
