package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/store"
	"github.com/ekarabulut/vblog/internal/utils"
)

// UserService owns the user collection: registration, credential
// validation, lookups and admin edits. All persistence goes through a
// single record store on users.json.
type UserService struct {
	users      *store.Store[model.User]
	bcryptCost int
}

func NewUserService(users *store.Store[model.User], bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Register creates a new account with the given role. Username and
// email must be unique under case-insensitive comparison; conflicts are
// reported with ErrUsernameTaken / ErrEmailTaken. The uniqueness check
// and the insert run under one store mutation so two concurrent
// registrations cannot both claim the same name.
func (s *UserService) Register(username, email, password string, role model.Role) (model.User, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		RegisteredAt: time.Now().UTC(),
	}

	err = s.users.Mutate(func(users []model.User) ([]model.User, bool, error) {
		for _, existing := range users {
			if strings.EqualFold(existing.Username, username) {
				return nil, false, ErrUsernameTaken
			}
			if strings.EqualFold(existing.Email, email) {
				return nil, false, ErrEmailTaken
			}
		}
		return append(users, u), true, nil
	})
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate looks up the user by username (case-insensitive) and
// verifies the password against the stored bcrypt hash.
func (s *UserService) Authenticate(username, password string) (model.User, error) {
	u, err := s.ByUsername(username)
	if err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// ByID fetches a user by id.
func (s *UserService) ByID(id uuid.UUID) (model.User, error) {
	u, ok, err := s.users.FindFirst(func(u model.User) bool { return u.ID == id })
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// ByUsername fetches a user by username, compared case-insensitively.
func (s *UserService) ByUsername(username string) (model.User, error) {
	u, ok, err := s.users.FindFirst(func(u model.User) bool {
		return strings.EqualFold(u.Username, username)
	})
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// ByEmail fetches a user by email, compared case-insensitively.
func (s *UserService) ByEmail(email string) (model.User, error) {
	u, ok, err := s.users.FindFirst(func(u model.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// All returns every registered user.
func (s *UserService) All() ([]model.User, error) {
	return s.users.LoadAll()
}

// Update overwrites username, email and role of the matching record.
// The password hash is replaced only when the incoming record carries a
// non-trivial one (longer than 20 bytes), so a blank or placeholder
// value can never clobber a real hash. Uniqueness of a changed username
// or email is NOT re-checked here; callers must validate before calling,
// as the admin handlers do. Updating a missing user is a no-op.
func (s *UserService) Update(u model.User) error {
	return s.users.Mutate(func(users []model.User) ([]model.User, bool, error) {
		for i := range users {
			if users[i].ID != u.ID {
				continue
			}
			users[i].Username = u.Username
			users[i].Email = u.Email
			users[i].Role = u.Role
			if len(u.PasswordHash) > 20 {
				users[i].PasswordHash = u.PasswordHash
			}
			return users, true, nil
		}
		return users, false, nil
	})
}

// Delete removes the user record. Posts and comments authored by the
// user are left in place; their author names resolve to a fallback on
// read. Deleting a missing user is a no-op.
func (s *UserService) Delete(id uuid.UUID) error {
	return s.users.RemoveFirst(func(u model.User) bool { return u.ID == id })
}
