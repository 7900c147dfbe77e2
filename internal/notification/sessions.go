package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/identity"
)

// subscribeTimeout bounds opening or switching a session's channel.
const subscribeTimeout = 5 * time.Second

type ClaimsResolver interface {
	Resolve(ctx context.Context, userID string) (identity.Claims, error)
}

// Session is one viewer's notification state, shared by all of that viewer's
// open streams.
type Session struct {
	ViewerID string
	Store    *Store
	Effects  *Broadcaster
	Router   *Router

	refs int

	// mu serializes channel changes; it is never held with Sessions.mu.
	mu      sync.Mutex
	started bool
	closed  bool
}

// Sessions owns every live Session. A session opens with the viewer's first
// stream and closes with the last one.
type Sessions struct {
	feed     Subscriber
	resolver ClaimsResolver
	messages *Messages
	buffer   int
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewSessions(feed Subscriber, resolver ClaimsResolver, messages *Messages, buffer int, logger *zap.Logger) *Sessions {
	return &Sessions{
		feed:     feed,
		resolver: resolver,
		messages: messages,
		buffer:   buffer,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the viewer's session, opening it if needed, and the release
// function the caller must run when its stream ends. The viewer's role is
// resolved on every call; a changed role switches the session's channel.
// Subscribing happens outside the registry lock so a slow feed only delays
// its own viewer.
func (s *Sessions) Acquire(ctx context.Context, viewer identity.Viewer) (*Session, func(), error) {
	claims, err := s.resolver.Resolve(ctx, viewer.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving viewer: %w", err)
	}
	ch := ChannelFor(claims)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("notification sessions closed")
	}
	session, ok := s.sessions[viewer.UserID]
	if !ok {
		store := NewStore()
		effects := NewBroadcaster(s.buffer)
		logger := s.logger.With(zap.String("viewerId", viewer.UserID))
		session = &Session{
			ViewerID: viewer.UserID,
			Store:    store,
			Effects:  effects,
			Router:   NewRouter(s.feed, store, effects, s.messages, logger),
		}
		s.sessions[viewer.UserID] = session
	}
	session.refs++
	s.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() { s.release(session) })
	}

	if err := session.listen(ch); err != nil {
		release()
		return nil, nil, err
	}
	return session, release, nil
}

// listen starts the session on ch, or moves it there when the viewer's role
// changed since the session opened.
func (session *Session) listen(ch Channel) error {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return fmt.Errorf("notification session closed")
	}

	// the subscription outlives the request that opened it
	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()

	if !session.started {
		if err := session.Router.Start(ctx, ch); err != nil {
			return err
		}
		session.started = true
		return nil
	}

	if session.Router.Channel() != ch {
		if err := session.Router.Switch(ctx, ch); err != nil {
			return err
		}
		session.Store.ClearAll()
	}
	return nil
}

func (session *Session) close() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.closed = true
	session.Router.Close()
}

// Get returns the live session of viewerID, if any.
func (s *Sessions) Get(viewerID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[viewerID]
	return session, ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll tears down every session, ends their streams and refuses new
// sessions.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.close()
		session.Effects.Close()
	}
}

func (s *Sessions) release(session *Session) {
	s.mu.Lock()
	session.refs--
	last := session.refs <= 0
	if last {
		if current, ok := s.sessions[session.ViewerID]; ok && current == session {
			delete(s.sessions, session.ViewerID)
		}
	}
	s.mu.Unlock()

	if last {
		session.close()
	}
}
