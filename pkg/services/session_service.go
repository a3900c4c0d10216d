package services

import (
	"sync"
	"time"

	"food-demand-chat-api/pkg/models"

	"github.com/google/uuid"
)

// SessionState は1セッション分の予測キャッシュです。保持するのは直近の予測1件のみ。
type SessionState struct {
	mu         sync.RWMutex
	id         string
	createdAt  time.Time
	lastAccess time.Time
	last       *models.PredictionResult
}

// NewSessionState 空のセッション状態を作成
func NewSessionState(id string) *SessionState {
	now := time.Now()
	return &SessionState{id: id, createdAt: now, lastAccess: now}
}

func (s *SessionState) ID() string {
	return s.id
}

func (s *SessionState) CreatedAt() time.Time {
	return s.createdAt
}

// Set は直近の予測を無条件に上書きします。
func (s *SessionState) Set(result models.PredictionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := result
	s.last = &r
}

// Get はキャッシュされた予測を返します。空の場合はfalse。
func (s *SessionState) Get() (models.PredictionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return models.PredictionResult{}, false
	}
	return *s.last, true
}

// Clear はキャッシュを破棄します（セッション終了時）。
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
}

// SessionStore はセッションIDごとに独立したSessionStateを管理します。
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*SessionState
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessionStore はidleTimeoutを超えてアクセスのないセッションを遅延的に破棄するストアを作成します。
// idleTimeoutが0の場合は期限切れなし。
func NewSessionStore(idleTimeout time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*SessionState),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create は新しいセッションを作成します。期限切れのセッションはここで掃除する。
func (s *SessionStore) Create() *SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			sess.Clear()
			delete(s.sessions, id)
		}
	}

	sess := NewSessionState(uuid.New().String())
	sess.createdAt = now
	sess.lastAccess = now
	s.sessions[sess.id] = sess
	return sess
}

// Get はセッションを返し、最終アクセス時刻を更新します。
func (s *SessionStore) Get(id string) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, NewSessionNotFoundError(id)
	}
	now := s.now()
	if s.expired(sess, now) {
		sess.Clear()
		delete(s.sessions, id)
		return nil, NewSessionNotFoundError(id)
	}
	sess.lastAccess = now
	return sess, nil
}

// Delete はセッションを終了し、キャッシュを破棄します。
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Clear()
	delete(s.sessions, id)
	return true
}

// Count 保持しているセッション数
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *SessionState, now time.Time) bool {
	return s.idleTimeout > 0 && now.Sub(sess.lastAccess) > s.idleTimeout
}
