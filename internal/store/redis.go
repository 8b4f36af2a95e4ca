package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/callify/signaling/config"
)

const (
	userKeyPrefix     = "user:"
	emailKeyPrefix    = "user:email:"
	usernameKeyPrefix = "user:username:"
	userIndexKey      = "users"
)

// Redis is the user store backend for multi-process deployments, where
// accounts must outlive any one server instance. Relay state stays
// in-memory regardless of backend.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and pings the configured Redis instance.
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Create(ctx context.Context, user *User) error {
	// Check username/email indexes before writing
	for _, key := range []string{usernameKeyPrefix + user.Username, emailKeyPrefix + user.Email} {
		exists, err := r.client.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrDuplicate
		}
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, userKeyPrefix+user.ID, data, 0).Err(); err != nil {
		return err
	}
	if err := r.client.Set(ctx, usernameKeyPrefix+user.Username, user.ID, 0).Err(); err != nil {
		return err
	}
	if err := r.client.Set(ctx, emailKeyPrefix+user.Email, user.ID, 0).Err(); err != nil {
		return err
	}
	return r.client.SAdd(ctx, userIndexKey, user.ID).Err()
}

func (r *Redis) FindByID(ctx context.Context, id string) (*User, error) {
	return r.get(ctx, userKeyPrefix+id)
}

func (r *Redis) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.getByIndex(ctx, emailKeyPrefix+email)
}

func (r *Redis) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.getByIndex(ctx, usernameKeyPrefix+username)
}

func (r *Redis) ListExcept(ctx context.Context, excludeID string) ([]*User, error) {
	ids, err := r.client.SMembers(ctx, userIndexKey).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*User, 0, len(ids))
	for _, id := range ids {
		if id == excludeID {
			continue
		}
		u, err := r.get(ctx, userKeyPrefix+id)
		if err == ErrNotFound {
			// Index entry outlived the record; skip it
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *Redis) Search(ctx context.Context, query string) (*User, error) {
	u, err := r.FindByUsername(ctx, query)
	if err == ErrNotFound {
		return r.FindByEmail(ctx, query)
	}
	return u, err
}

func (r *Redis) get(ctx context.Context, key string) (*User, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}
	return &user, nil
}

func (r *Redis) getByIndex(ctx context.Context, indexKey string) (*User, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.get(ctx, userKeyPrefix+id)
}
