package storage

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/printhaus/printhaus-api/models"
)

// UserFile is the data file backing the user registry.
const UserFile = "users.txt"

// UserStore is the in-memory user registry with flat-file persistence,
// deduplicated by username. The store owns its entities: it keeps copies
// of what it is handed and accessors return copies, so mutating a returned
// user never races a concurrent Save.
type UserStore struct {
	mu    sync.Mutex
	files *DataFileManager
	users []*models.User
}

// NewUserStore creates an empty user registry persisted through the given
// file manager.
func NewUserStore(files *DataFileManager) *UserStore {
	return &UserStore{files: files}
}

// Add registers a user. Rejects nil users, blank usernames and duplicates
// by username without overwriting.
func (s *UserStore) Add(user *models.User) bool {
	if user == nil || user.Username == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(user.Username) != nil {
		return false
	}
	owned := *user
	s.users = append(s.users, &owned)
	return true
}

// GetByUsername returns a copy of the user with the given username, or nil.
func (s *UserStore) GetByUsername(username string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.findLocked(username))
}

// GetAll returns a snapshot of the registry in insertion order.
func (s *UserStore) GetAll() []*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.User, len(s.users))
	for i, u := range s.users {
		out[i] = copyUser(u)
	}
	return out
}

// Update replaces the user with the same username. Returns false if no such
// user is registered.
func (s *UserStore) Update(user *models.User) bool {
	if user == nil || user.Username == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.users {
		if existing.Username == user.Username {
			owned := *user
			s.users[i] = &owned
			return true
		}
	}
	return false
}

// Remove deletes the user with the given username. Returns false if absent.
func (s *UserStore) Remove(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.users {
		if existing.Username == username {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of registered users.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Clear empties the registry without touching the data file.
func (s *UserStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
}

// Save serializes the registry to its data file.
func (s *UserStore) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := fileHeader("users", time.Now())
	for _, u := range s.users {
		lines = append(lines, serializeUser(u))
	}
	return s.files.WriteDataFile(UserFile, joinLines(lines))
}

// Load clears the registry and reloads it from the data file, skipping any
// record that fails to parse.
func (s *UserStore) Load() bool {
	lines, ok := s.files.ReadDataLines(UserFile)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = nil
	for _, line := range lines {
		if !isRecordLine(line) {
			continue
		}
		user, err := parseUser(line)
		if err != nil {
			log.Printf("Skipping bad user record: %v", err)
			continue
		}
		if s.findLocked(user.Username) != nil {
			log.Printf("Skipping duplicate user record %q", user.Username)
			continue
		}
		s.users = append(s.users, user)
	}
	return true
}

// copyUser returns a detached copy of the user, or nil for nil.
func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// findLocked looks a user up by username. Caller must hold s.mu.
func (s *UserStore) findLocked(username string) *models.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func serializeUser(u *models.User) string {
	return joinFields([]string{u.Username, u.Name, u.Email, u.Role})
}

func parseUser(line string) (*models.User, error) {
	fields := splitFields(line)
	if len(fields) != 4 {
		return nil, fmt.Errorf("user record has %d fields, want 4", len(fields))
	}
	if fields[0] == "" {
		return nil, fmt.Errorf("user record has empty username")
	}

	return &models.User{
		Username: fields[0],
		Name:     fields[1],
		Email:    fields[2],
		Role:     fields[3],
	}, nil
}
