package state

import (
	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
	"comanda-client/internal/result"
)

type AuthSnapshot struct {
	LoggedIn bool
	Username string
	Email    string
	Role     domain.Role
	Loading  bool
	Error    string
}

// AuthState drives login/registration and session display.
type AuthState struct {
	*holder[AuthSnapshot]
	auth *repository.AuthRepository
}

func NewAuthState(auth *repository.AuthRepository) *AuthState {
	s := &AuthState{holder: newHolder(AuthSnapshot{}), auth: auth}
	s.restore()
	return s
}

// restore seeds the snapshot from the persisted session so the UI reflects
// an existing login before any network call.
func (s *AuthState) restore() {
	sess := s.auth.Session()
	s.replace(AuthSnapshot{
		LoggedIn: sess.LoggedIn(),
		Username: sess.Username,
		Email:    sess.Email,
		Role:     domain.Role(sess.Role),
	})
}

func (s *AuthState) Login(email, password string) {
	s.begin()
	go func() {
		s.applyPair(s.auth.Login(s.ctx, domain.LoginRequest{Email: email, Password: password}))
	}()
}

func (s *AuthState) Register(username, email, password string) {
	s.begin()
	go func() {
		s.applyPair(s.auth.Register(s.ctx, domain.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
		}))
	}()
}

func (s *AuthState) Logout() {
	s.begin()
	go func() {
		s.auth.Logout(s.ctx)
		s.replace(AuthSnapshot{})
	}()
}

func (s *AuthState) begin() {
	s.update(func(snap AuthSnapshot) AuthSnapshot {
		snap.Loading = true
		snap.Error = ""
		return snap
	})
}

func (s *AuthState) applyPair(res result.Result[domain.TokenPair]) {
	if res.IsError() {
		s.update(func(snap AuthSnapshot) AuthSnapshot {
			snap.Loading = false
			snap.Error = res.Message()
			return snap
		})
		return
	}
	s.restore()
}
