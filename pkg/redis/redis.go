package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"classhub/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单、会话级挑战解锁状态与登录限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 会话级挑战解锁状态 ──

const solvedPrefix = "session:solved:"

// MarkChallengeSolved 在指定会话中记录某挑战已解锁
// 键整体以会话剩余有效期续期，会话过期后解锁状态一并消失
func (c *Client) MarkChallengeSolved(ctx context.Context, sessionID, challengeID string, ttl time.Duration) error {
	key := solvedPrefix + sessionID
	pipe := c.rdb.TxPipeline()
	pipe.SAdd(ctx, key, challengeID)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// IsChallengeSolved 查询指定会话中某挑战是否已解锁
func (c *Client) IsChallengeSolved(ctx context.Context, sessionID, challengeID string) (bool, error) {
	return c.rdb.SIsMember(ctx, solvedPrefix+sessionID, challengeID).Result()
}

// ForgetSession 清除一个会话的全部解锁状态（登出时调用）
func (c *Client) ForgetSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, solvedPrefix+sessionID).Err()
}

// ── 限流 ──

// CheckRateLimit 固定窗口计数限流
// 返回 true 表示放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
