package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCredentials is returned for any login the two credential
// policies do not accept, including an admin login with no seeded admin
// record to attach to.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticator validates logins against the two fixed credential policies
// and keeps the session pointer in the store.
type Authenticator struct {
	store *Store
	cfg   Config
}

func NewAuthenticator(store *Store, cfg Config) *Authenticator {
	return &Authenticator{store: store, cfg: cfg}
}

// Login authenticates email+password and records the result as the current
// session. Two policies exist: the admin credential, and the shared student
// credential for any address under the lab domain. Students are provisioned
// on first login; the admin never is.
func (a *Authenticator) Login(email, password string) (*User, error) {
	email = strings.TrimSpace(email)

	users, err := a.store.GetUsers()
	if err != nil {
		return nil, err
	}

	if email == a.cfg.AdminEmail && checkPassword(password, a.cfg.AdminPasswordHash) {
		for _, u := range users {
			if u.Email == email && u.Role == RoleAdmin {
				u.LastLogin = time.Now()
				if err := a.store.UpdateUser(u); err != nil {
					return nil, fmt.Errorf("stamp admin login: %w", err)
				}
				if err := a.store.SetCurrentUser(&u); err != nil {
					return nil, err
				}
				return &u, nil
			}
		}
		// Admin record missing: no account is synthesized for the admin.
		return nil, ErrInvalidCredentials
	}

	if strings.HasSuffix(email, a.cfg.StudentDomain) && checkPassword(password, a.cfg.StudentPasswordHash) {
		for _, u := range users {
			if u.Email == email && u.Role == RoleStudent {
				u.LastLogin = time.Now()
				if err := a.store.UpdateUser(u); err != nil {
					return nil, fmt.Errorf("stamp student login: %w", err)
				}
				if err := a.store.SetCurrentUser(&u); err != nil {
					return nil, err
				}
				return &u, nil
			}
		}

		now := time.Now()
		student := User{
			ID:         newID("student"),
			Name:       strings.SplitN(email, "@", 2)[0],
			Email:      email,
			Role:       RoleStudent,
			LastLogin:  now,
			JoinedDate: now,
		}
		if err := a.store.AddUser(student); err != nil {
			return nil, fmt.Errorf("provision student: %w", err)
		}
		if err := a.store.SetCurrentUser(&student); err != nil {
			return nil, err
		}
		return &student, nil
	}

	return nil, ErrInvalidCredentials
}

// Logout clears the session pointer.
func (a *Authenticator) Logout() error {
	return a.store.SetCurrentUser(nil)
}

// CurrentUser returns a snapshot of the authenticated user, or nil when
// nobody is logged in.
func (a *Authenticator) CurrentUser() (*User, error) {
	return a.store.GetCurrentUser()
}

func (a *Authenticator) IsAuthenticated() bool {
	u, err := a.store.GetCurrentUser()
	return err == nil && u != nil
}

func (a *Authenticator) IsAdmin() bool {
	u, err := a.store.GetCurrentUser()
	return err == nil && u != nil && u.Role == RoleAdmin
}

func (a *Authenticator) IsStudent() bool {
	u, err := a.store.GetCurrentUser()
	return err == nil && u != nil && u.Role == RoleStudent
}
