package identitytoolkit

import (
	"context"
	"database/sql"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/mynote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mynote/internal/dbx"
)

// StoredUser is the provider session persisted between runs.
type StoredUser struct {
	UID           string
	Email         string
	EmailVerified bool
	IDToken       string
	RefreshToken  string
}

// UserStore persists the signed-in user. Load returns (nil, nil) when
// nobody is stored.
type UserStore interface {
	Load(ctx context.Context) (*StoredUser, error)
	Save(ctx context.Context, u *StoredUser) error
	Clear(ctx context.Context) error
}

const keyPrefix = "auth."

const (
	keyUID           = keyPrefix + "uid"
	keyEmail         = keyPrefix + "email"
	keyEmailVerified = keyPrefix + "email_verified"
	keyIDToken       = keyPrefix + "id_token"
	keyRefreshToken  = keyPrefix + "refresh_token"
)

// SQLiteUserStore keeps the user in the metadata table under "auth.*" keys.
type SQLiteUserStore struct {
	db *sql.DB
}

func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

func (s *SQLiteUserStore) Load(ctx context.Context) (*StoredUser, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	uid, err := repo.Get(ctx, keyUID)
	if err != nil {
		return nil, err
	}
	if len(uid) == 0 {
		return nil, nil
	}

	u := &StoredUser{UID: string(uid)}
	fields := []struct {
		key string
		dst *string
	}{
		{keyEmail, &u.Email},
		{keyIDToken, &u.IDToken},
		{keyRefreshToken, &u.RefreshToken},
	}
	for _, f := range fields {
		v, err := repo.Get(ctx, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = string(v)
	}

	verified, err := repo.Get(ctx, keyEmailVerified)
	if err != nil {
		return nil, err
	}
	u.EmailVerified, _ = strconv.ParseBool(string(verified))

	return u, nil
}

// Save replaces the stored user in a single transaction.
func (s *SQLiteUserStore) Save(ctx context.Context, u *StoredUser) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.DeletePrefix(ctx, keyPrefix); err != nil {
			return err
		}
		values := map[string]string{
			keyUID:           u.UID,
			keyEmail:         u.Email,
			keyEmailVerified: strconv.FormatBool(u.EmailVerified),
			keyIDToken:       u.IDToken,
			keyRefreshToken:  u.RefreshToken,
		}
		for k, v := range values {
			if err := repo.Set(ctx, k, []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteUserStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).DeletePrefix(ctx, keyPrefix)
}

// MemoryUserStore keeps the user in memory only.
type MemoryUserStore struct {
	mu   sync.Mutex
	user *StoredUser
}

func (m *MemoryUserStore) Load(context.Context) (*StoredUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryUserStore) Save(_ context.Context, u *StoredUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.user = &c
	return nil
}

func (m *MemoryUserStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}
