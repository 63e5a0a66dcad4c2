package repository

import (
	"context"
	"net/http"
	"strconv"

	"comanda-client/internal/api"
	"comanda-client/internal/domain"
	"comanda-client/internal/result"
	"comanda-client/internal/tokenstore"

	"github.com/rs/zerolog"
)

// AuthRepository wraps the auth/* endpoints and is the only repository with a
// side effect: it keeps the token store in sync with the server session.
type AuthRepository struct {
	client *api.Client
	store  tokenstore.Store
	log    zerolog.Logger
}

func NewAuthRepository(client *api.Client, store tokenstore.Store, log zerolog.Logger) *AuthRepository {
	return &AuthRepository{client: client, store: store, log: log}
}

func (r *AuthRepository) Register(ctx context.Context, req domain.RegisterRequest) result.Result[domain.TokenPair] {
	res := fetch[domain.TokenPair](ctx, r.client, http.MethodPost, "/auth/register", nil, req, api.StatusMessages{
		BadRequest: "username, email and password are required",
		Conflict:   "an account with this email already exists",
		Invalid:    "invalid registration data",
	})
	return r.persistOnSuccess(res)
}

func (r *AuthRepository) Login(ctx context.Context, req domain.LoginRequest) result.Result[domain.TokenPair] {
	res := fetch[domain.TokenPair](ctx, r.client, http.MethodPost, "/auth/login", nil, req, api.StatusMessages{
		BadRequest:   "email and password are required",
		Unauthorized: "invalid email or password",
		Invalid:      "invalid login data",
	})
	return r.persistOnSuccess(res)
}

// Refresh exchanges the stored refresh token for a new pair. A failed
// exchange clears the session: a dead refresh token means the client must
// not keep presenting itself as logged in.
func (r *AuthRepository) Refresh(ctx context.Context) result.Result[domain.TokenPair] {
	sess, err := r.store.Load()
	if err != nil || sess.RefreshToken == "" {
		return result.Err[domain.TokenPair](api.MsgSessionExpired)
	}

	body := map[string]string{"refresh_token": sess.RefreshToken}
	res := fetch[domain.TokenPair](ctx, r.client, http.MethodPost, "/auth/refresh", nil, body, api.StatusMessages{
		Unauthorized: api.MsgSessionExpired,
	})
	if res.IsError() {
		if err := r.store.Clear(); err != nil {
			r.log.Warn().Err(err).Msg("failed to clear session after refresh failure")
		}
		return res
	}
	return r.persistOnSuccess(res)
}

func (r *AuthRepository) Me(ctx context.Context) result.Result[domain.User] {
	return fetch[domain.User](ctx, r.client, http.MethodGet, "/auth/me", nil, nil, api.StatusMessages{})
}

// Logout clears the local session first and always reports success, even if
// the server-side call fails: the client must never stay in an
// authenticated-looking state after a failed network logout.
func (r *AuthRepository) Logout(ctx context.Context) result.Result[struct{}] {
	if err := r.store.Clear(); err != nil {
		r.log.Warn().Err(err).Msg("failed to clear local session on logout")
	}
	if res := execute(ctx, r.client, http.MethodPost, "/auth/logout", nil, nil, api.StatusMessages{}); res.IsError() {
		r.log.Debug().Str("reason", res.Message()).Msg("server-side logout failed, session cleared locally")
	}
	return result.Ok(struct{}{})
}

// Session exposes the stored session for screens that gate on role.
func (r *AuthRepository) Session() tokenstore.Session {
	sess, err := r.store.Load()
	if err != nil {
		return tokenstore.Session{}
	}
	return sess
}

func (r *AuthRepository) persistOnSuccess(res result.Result[domain.TokenPair]) result.Result[domain.TokenPair] {
	pair, ok := res.Data()
	if !ok {
		return res
	}
	sess := tokenstore.Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if pair.User != nil {
		sess.UserID = strconv.Itoa(pair.User.ID)
		sess.Role = string(pair.User.Role)
		sess.Email = pair.User.Email
		sess.Username = pair.User.Username
	}
	if err := r.store.Save(sess); err != nil {
		// Tokens that cannot be persisted would strand the user at the next
		// start; surface it instead of pretending the login stuck.
		return result.Err[domain.TokenPair]("could not save session: " + err.Error())
	}
	return res
}
