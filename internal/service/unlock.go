package service

import (
	"context"
	"sync"
	"time"

	"classhub/pkg/redis"
)

// UnlockStore 会话级挑战解锁状态
// 以会话标识为作用域：同一用户的另一个会话看不到这里的解锁记录。
// 状态只进不退（Locked→Unlocked），会话结束即遗忘，
// 不能当作完成挑战的持久凭证
type UnlockStore interface {
	MarkSolved(ctx context.Context, sessionID, challengeID string) error
	IsSolved(ctx context.Context, sessionID, challengeID string) (bool, error)
	Forget(ctx context.Context, sessionID string) error
}

// NewUnlockStore 创建解锁状态存储
// Redis 可用时用 Redis（带会话 TTL），否则退化为进程内存实现
func NewUnlockStore(rdb *redis.Client, sessionTTL time.Duration) UnlockStore {
	if rdb != nil {
		return &redisUnlockStore{rdb: rdb, ttl: sessionTTL}
	}
	return newMemoryUnlockStore(sessionTTL)
}

// ── Redis 实现 ──

type redisUnlockStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s *redisUnlockStore) MarkSolved(ctx context.Context, sessionID, challengeID string) error {
	return s.rdb.MarkChallengeSolved(ctx, sessionID, challengeID, s.ttl)
}

func (s *redisUnlockStore) IsSolved(ctx context.Context, sessionID, challengeID string) (bool, error) {
	return s.rdb.IsChallengeSolved(ctx, sessionID, challengeID)
}

func (s *redisUnlockStore) Forget(ctx context.Context, sessionID string) error {
	return s.rdb.ForgetSession(ctx, sessionID)
}

// ── 进程内存实现（Redis 不可用或单测时使用） ──

type memorySession struct {
	solved    map[string]bool
	expiresAt time.Time
}

type memoryUnlockStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
}

func newMemoryUnlockStore(ttl time.Duration) *memoryUnlockStore {
	return &memoryUnlockStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
	}
}

func (s *memoryUnlockStore) MarkSolved(_ context.Context, sessionID, challengeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()

	sess, ok := s.sessions[sessionID]
	if !ok || time.Now().After(sess.expiresAt) {
		sess = &memorySession{solved: make(map[string]bool)}
		s.sessions[sessionID] = sess
	}
	sess.solved[challengeID] = true
	sess.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *memoryUnlockStore) IsSolved(_ context.Context, sessionID, challengeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return false, nil
	}
	return sess.solved[challengeID], nil
}

// sweep 清掉所有已过期会话，防止废弃会话在进程生命周期内累积
// 调用方必须已持有 s.mu
func (s *memoryUnlockStore) sweep() {
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *memoryUnlockStore) Forget(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
