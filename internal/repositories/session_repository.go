package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"rds-portal/internal/models"
)

// SessionRepository keeps authenticated sessions in Redis. Each session is a
// hash under session:<id>; the TTL enforces expiry (30 days for remember-me,
// one day otherwise — the cookie itself expires with the browser session).
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {
	key := sessionKey(session.ID)

	fields := map[string]interface{}{
		"username":   session.Username,
		"strategy":   session.Strategy,
		"welcomed":   boolField(session.Welcomed),
		"created_at": session.CreatedAt.Format(time.RFC3339),
	}

	if err := r.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, key, ttl).Err()
}

// Get returns nil, nil when the session does not exist or has expired.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	fields, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	session := &models.Session{
		ID:       id,
		Username: fields["username"],
		Strategy: fields["strategy"],
		Welcomed: fields["welcomed"] == "1",
	}
	if createdAt, err := time.Parse(time.RFC3339, fields["created_at"]); err == nil {
		session.CreatedAt = createdAt
	}

	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, sessionKey(id)).Err()
}

// SetWelcomed marks the one-time dashboard welcome as shown for this session.
func (r *SessionRepository) SetWelcomed(ctx context.Context, id string) error {
	return r.rdb.HSet(ctx, sessionKey(id), "welcomed", "1").Err()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
