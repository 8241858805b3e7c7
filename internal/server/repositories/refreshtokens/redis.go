package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxWatchRetries bounds optimistic-lock retries in DeleteByUserID.
const maxWatchRetries = 5

const (
	tokenKeyPrefix = "refresh_token:"
	userKeyPrefix  = "refresh_tokens:user:"
)

// RedisRepository stores each token as a JSON value under
// "refresh_token:<token>" expiring at ExpiresAt, and indexes the tokens of a
// user in the set "refresh_tokens:user:<id>".
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time

	// beforeRevoke runs between reading a user's index and deleting it.
	beforeRevoke func()
}

var (
	_ Repository = (*RedisRepository)(nil)
	_ Rotator    = (*RedisRepository)(nil)
)

type redisRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresIn string    `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRedisClient connects to addr and pings it before returning.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisRepository creates a Redis-backed token store.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func tokenKey(token string) string { return tokenKeyPrefix + token }
func userKey(userID string) string { return userKeyPrefix + userID }

func (r *RedisRepository) encode(rt *models.RefreshToken) ([]byte, time.Duration, error) {
	ttl := rt.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil, 0, fmt.Errorf("refresh token: expires_at must be in the future")
	}

	data, err := json.Marshal(redisRecord{
		ID:        rt.ID,
		UserID:    rt.UserID,
		Token:     rt.Token,
		ExpiresIn: rt.ExpiresIn,
		ExpiresAt: rt.ExpiresAt,
		CreatedAt: rt.CreatedAt,
		UpdatedAt: rt.UpdatedAt,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("refresh token: failed to marshal: %w", err)
	}
	return data, ttl, nil
}

// queueCreate adds the commands storing rt to pipe.
func (r *RedisRepository) queueCreate(ctx context.Context, pipe redis.Pipeliner, rt *models.RefreshToken) error {
	rt.ID = uuid.NewString()
	data, ttl, err := r.encode(rt)
	if err != nil {
		return err
	}
	pipe.Set(ctx, tokenKey(rt.Token), data, ttl)
	pipe.SAdd(ctx, userKey(rt.UserID), rt.Token)
	// tokens share one lifetime, so the newest one bounds the index
	pipe.Expire(ctx, userKey(rt.UserID), ttl)
	return nil
}

func (r *RedisRepository) Create(ctx context.Context, rt *models.RefreshToken) (*models.RefreshToken, error) {
	var qerr error
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		qerr = r.queueCreate(ctx, pipe, rt)
		return qerr
	})
	if qerr != nil {
		return nil, qerr
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return rt, nil
}

func (r *RedisRepository) get(ctx context.Context, c redis.Cmdable, token string) (*models.RefreshToken, error) {
	val, err := c.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("refresh token: failed to unmarshal: %w", err)
	}

	return &models.RefreshToken{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Token:     rec.Token,
		ExpiresIn: rec.ExpiresIn,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (r *RedisRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	return r.get(ctx, r.client, token)
}

func (r *RedisRepository) Delete(ctx context.Context, token string) (int64, error) {
	rt, err := r.get(ctx, r.client, token)
	if errors.Is(err, common.ErrorNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, tokenKey(token))
		pipe.SRem(ctx, userKey(rt.UserID), token)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return del.Val(), nil
}

// DeleteByUserID watches the user's index so a token created between reading
// the index and deleting it forces a retry instead of being left behind.
func (r *RedisRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	idx := userKey(userID)

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		var n int64
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			tokens, err := tx.SMembers(ctx, idx).Result()
			if err != nil {
				return err
			}
			if r.beforeRevoke != nil {
				r.beforeRevoke()
			}
			if len(tokens) == 0 {
				return nil
			}

			keys := make([]string, 0, len(tokens))
			for _, t := range tokens {
				keys = append(keys, tokenKey(t))
			}

			var del *redis.IntCmd
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				del = pipe.Del(ctx, keys...)
				pipe.Del(ctx, idx)
				return nil
			})
			if err != nil {
				return err
			}
			n = del.Val()
			return nil
		}, idx)

		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return 0, fmt.Errorf("redis error: %w", err)
		}
	}
	return 0, fmt.Errorf("redis error: revoke tokens of %s: %w", userID, redis.TxFailedErr)
}

// Rotate watches the old key so that of two concurrent rotations of the same
// token only one commits; the other reports common.ErrorNotFound.
func (r *RedisRepository) Rotate(ctx context.Context, oldToken string, next *models.RefreshToken) (*models.RefreshToken, error) {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		old, err := r.get(ctx, tx, oldToken)
		if err != nil {
			return err
		}

		var qerr error
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKey(oldToken))
			pipe.SRem(ctx, userKey(old.UserID), oldToken)
			qerr = r.queueCreate(ctx, pipe, next)
			return qerr
		})
		if qerr != nil {
			return qerr
		}
		return err
	}, tokenKey(oldToken))

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, redis.TxFailedErr):
		return nil, common.ErrorNotFound
	case errors.Is(err, common.ErrorNotFound):
		return nil, err
	default:
		return nil, fmt.Errorf("redis error: %w", err)
	}
}
