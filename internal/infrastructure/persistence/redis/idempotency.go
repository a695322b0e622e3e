package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

const (
	pendingMarker = "__pending__"
	// pendingTTL 处理中标记的过期时间，进程崩溃后该键自动释放
	pendingTTL = time.Minute
)

// ErrRequestInProgress 同一幂等键的请求正在处理
var ErrRequestInProgress = apperrors.New(apperrors.ErrCodeDuplicateEntry, "相同请求正在处理，请稍后重试")

// ErrIdempotencyKeyReused 幂等键已用于内容不同的请求
var ErrIdempotencyKeyReused = apperrors.New(apperrors.ErrCodeDuplicateEntry, "幂等键已用于其他结算请求")

// IdempotencyStore 结算请求幂等缓存
//
// Key设计：idempotency:{store_id}:{cashier_id}:{key}
// 值为处理中标记，或成功响应连同请求指纹的JSON，成功响应保留ttl（默认24小时）。
// 指纹不一致说明客户端把同一个键用在了另一笔结算上，拒绝而不是回放。
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedResponse 缓存的成功响应
type cachedResponse struct {
	Fingerprint string          `json:"fingerprint"`
	Response    json.RawMessage `json:"response"`
}

// NewIdempotencyStore 创建幂等缓存
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func idempotencyKey(storeID, cashierID uint, key string) string {
	return fmt.Sprintf("idempotency:%d:%d:%s", storeID, cashierID, key)
}

// Claim 占用幂等键
// 已有同一请求的成功响应时返回缓存内容；其他请求正在处理时返回ErrRequestInProgress；
// 键已被内容不同的请求使用时返回ErrIdempotencyKeyReused；
// 占用成功时返回(nil, nil)，调用方处理完必须调用Save或Release
func (s *IdempotencyStore) Claim(ctx context.Context, storeID, cashierID uint, key, fingerprint string) ([]byte, error) {
	k := idempotencyKey(storeID, cashierID, key)

	ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.WithMessage("占用幂等键失败: %v", err)
	}
	if ok {
		return nil, nil
	}

	cached, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// 标记刚好过期，交给客户端重试
			return nil, ErrRequestInProgress
		}
		return nil, apperrors.ErrRedisError.WithMessage("读取幂等缓存失败: %v", err)
	}
	return decodeCached(cached, fingerprint)
}

// decodeCached 解析缓存值并核对请求指纹
func decodeCached(raw []byte, fingerprint string) ([]byte, error) {
	if string(raw) == pendingMarker {
		return nil, ErrRequestInProgress
	}

	var entry cachedResponse
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, apperrors.ErrRedisError.WithMessage("幂等缓存格式错误: %v", err)
	}
	if entry.Fingerprint != fingerprint {
		return nil, ErrIdempotencyKeyReused
	}
	return entry.Response, nil
}

// Save 保存成功响应
func (s *IdempotencyStore) Save(ctx context.Context, storeID, cashierID uint, key, fingerprint string, body []byte) error {
	value, err := json.Marshal(cachedResponse{Fingerprint: fingerprint, Response: body})
	if err != nil {
		return apperrors.Wrap(err, "序列化幂等缓存失败")
	}
	if err := s.client.Set(ctx, idempotencyKey(storeID, cashierID, key), value, s.ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithMessage("保存幂等缓存失败: %v", err)
	}
	return nil
}

// Release 处理失败时释放幂等键，允许客户端用同一个键重试
func (s *IdempotencyStore) Release(ctx context.Context, storeID, cashierID uint, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(storeID, cashierID, key)).Err(); err != nil {
		return apperrors.ErrRedisError.WithMessage("释放幂等键失败: %v", err)
	}
	return nil
}
