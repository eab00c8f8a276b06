package verifiersession

import (
	"context"
	"sync"
	"time"

	verifdb "walletdisclosure/pkg/openid4vp/db"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Store is the persistence contract for verifier disclosure sessions. The
// store, not the engine, is responsible for serializing concurrent writers
// to the same token (§5): CompareAndSwap rejects a write whose observed
// antecedent status no longer matches what is stored.
type Store interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	CompareAndSwap(ctx context.Context, token string, expected Status, next *Session) error
	ScanActiveOlderThan(ctx context.Context, now time.Time, maxAge time.Duration) ([]*Session, error)
	DeleteExpiredOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// memoryStore is the in-memory Store backing development and single-process
// deployments; it wraps the generic InMemoryRepo used elsewhere for
// ephemeral, non-relational collections.
type memoryStore struct {
	mu   sync.Mutex
	repo *verifdb.InMemoryRepo[*Session]
}

// NewMemoryStore returns a bounded in-memory Store.
func NewMemoryStore(capacity int) Store {
	return &memoryStore{repo: verifdb.NewInMemoryRepo[*Session](capacity)}
}

func (m *memoryStore) Create(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.repo.Create(&verifdb.Entry[*Session]{ID: session.Token, Data: session})
	if err == verifdb.ErrIDExists {
		return ErrStateConflict
	}
	return err
}

func (m *memoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, found := m.repo.Read(token)
	if !found {
		return nil, ErrSessionNotFound
	}
	cp := *entry.Data
	return &cp, nil
}

func (m *memoryStore) CompareAndSwap(_ context.Context, token string, expected Status, next *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, found := m.repo.Read(token)
	if !found {
		return ErrSessionNotFound
	}
	if entry.Data.Status != expected {
		return ErrStateConflict
	}
	return m.repo.Update(&verifdb.Entry[*Session]{ID: token, Data: next})
}

func (m *memoryStore) ScanActiveOlderThan(_ context.Context, now time.Time, maxAge time.Duration) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Session
	for _, entry := range m.repo.ReadAll() {
		if entry.Data.activeOlderThan(now, maxAge) {
			out = append(out, entry.Data)
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteExpiredOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, entry := range m.repo.ReadAll() {
		s := entry.Data
		if s.Status == StatusDone && s.Result != nil && s.Result.Status == ResultExpired && s.UpdatedAt.Before(cutoff) {
			if m.repo.Delete(s.Token) {
				removed++
			}
		}
	}
	return removed, nil
}

// mongoStore is the production Store, backing the session collection with a
// MongoDB replica set so multiple verifier instances can share session
// state and CompareAndSwap is enforced by the collection's filter.
type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore opens (but does not itself manage the lifecycle of) the
// session collection on an already-connected client.
func NewMongoStore(client *mongo.Client, database, collection string) Store {
	return &mongoStore{coll: client.Database(database).Collection(collection)}
}

func (s *mongoStore) Create(ctx context.Context, session *Session) error {
	_, err := s.coll.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		return ErrStateConflict
	}
	return err
}

func (s *mongoStore) Get(ctx context.Context, token string) (*Session, error) {
	var session Session
	err := s.coll.FindOne(ctx, bson.M{"_id": token}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *mongoStore) CompareAndSwap(ctx context.Context, token string, expected Status, next *Session) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": token, "status": expected}, next)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.Get(ctx, token); getErr == ErrSessionNotFound {
			return ErrSessionNotFound
		}
		return ErrStateConflict
	}
	return nil
}

func (s *mongoStore) ScanActiveOlderThan(ctx context.Context, now time.Time, maxAge time.Duration) ([]*Session, error) {
	cutoff := now.Add(-maxAge)
	cur, err := s.coll.Find(ctx, bson.M{
		"status":     bson.M{"$ne": StatusDone},
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Session
	for cur.Next(ctx) {
		var session Session
		if err := cur.Decode(&session); err != nil {
			return nil, err
		}
		cp := session
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (s *mongoStore) DeleteExpiredOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{
		"status":             StatusDone,
		"result.status":      ResultExpired,
		"updated_at":         bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}
