package app

import (
	"context"
	"sync"
	"time"

	"community_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockProfileRepository Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

// FindProfileByUserID mock find sender profile
func (m *MockProfileRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.SenderProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.SenderProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockModerationClassifier Mock ModerationClassifier
type MockModerationClassifier struct {
	mock.Mock
}

// Classify mock classify content
func (m *MockModerationClassifier) Classify(ctx context.Context, text string) (domain.Verdict, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.Verdict), args.Error(1)
}

// MockPubSub Mock MessagePubSub
type MockPubSub struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockPubSub) Publish(ctx context.Context, communityID string, msg domain.EnrichedMessage) error {
	args := m.Called(ctx, communityID, msg)
	return args.Error(0)
}

// Subscribe mock subscriber
func (m *MockPubSub) Subscribe(ctx context.Context, communityID string, handler func(msg domain.EnrichedMessage)) error {
	args := m.Called(ctx, communityID, handler)
	return args.Error(0)
}

// MockAuditPublisher Mock AuditPublisher
type MockAuditPublisher struct {
	mock.Mock
}

// Record mock record moderation event
func (m *MockAuditPublisher) Record(ctx context.Context, event domain.ModerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// loopbackPubSub in-memory pub/sub so hub tests run without redis
type loopbackPubSub struct {
	mu       sync.Mutex
	handlers map[string][]func(msg domain.EnrichedMessage)
}

func newLoopbackPubSub() *loopbackPubSub {
	return &loopbackPubSub{handlers: map[string][]func(msg domain.EnrichedMessage){}}
}

func (l *loopbackPubSub) Publish(ctx context.Context, communityID string, msg domain.EnrichedMessage) error {
	l.mu.Lock()
	handlers := append([]func(msg domain.EnrichedMessage){}, l.handlers[communityID]...)
	l.mu.Unlock()
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

func (l *loopbackPubSub) Subscribe(ctx context.Context, communityID string, handler func(msg domain.EnrichedMessage)) error {
	l.mu.Lock()
	l.handlers[communityID] = append(l.handlers[communityID], handler)
	l.mu.Unlock()
	return nil
}

// fakeConn records every frame written to it
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, append([]byte{}, data...))
	return nil
}

func (f *fakeConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeConn) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// stalledConn blocks every write until release is closed, imitating a peer
// whose receive buffers are full
type stalledConn struct {
	fakeConn
	release chan struct{}
}

func newStalledConn() *stalledConn {
	return &stalledConn{release: make(chan struct{})}
}

func (s *stalledConn) WriteMessage(messageType int, data []byte) error {
	<-s.release
	return s.fakeConn.WriteMessage(messageType, data)
}
