package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"comanda-client/internal/domain"
)

// Session is the persisted identity snapshot for the current login. An empty
// AccessToken means logged out.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	Role         string `json:"role,omitempty"`
	Email        string `json:"email,omitempty"`
	Username     string `json:"username,omitempty"`
}

func (s Session) LoggedIn() bool { return s.AccessToken != "" }

func (s Session) IsAdmin() bool { return domain.Role(s.Role) == domain.RoleAdminStaff }

// Store holds the auth session. Reads are safe to call concurrently; writes
// replace the whole session atomically.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
	AccessToken() (string, bool)
}

// FileStore persists the session as a single JSON document, written via a
// temp file and rename so a crash mid-write never leaves a torn session.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated as logged out rather than a
		// hard failure; the next Save overwrites it.
		return Session{}, nil
	}
	return sess, nil
}

func (s *FileStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) AccessToken() (string, bool) {
	sess, err := s.Load()
	if err != nil || sess.AccessToken == "" {
		return "", false
	}
	return sess.AccessToken, true
}

var _ Store = (*FileStore)(nil)

// MemoryStore is the in-process Store used by tests.
type MemoryStore struct {
	mu   sync.RWMutex
	sess Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess, nil
}

func (s *MemoryStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	return nil
}

func (s *MemoryStore) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess.AccessToken == "" {
		return "", false
	}
	return s.sess.AccessToken, true
}

var _ Store = (*MemoryStore)(nil)
