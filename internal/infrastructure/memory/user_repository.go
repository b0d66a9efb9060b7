package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.UserTokenRepository = (*TokenRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct{ s view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.write(func(d *state) error {
		for _, other := range d.users {
			if other.Username == u.Username {
				return domain.ErrUsernameExists
			}
		}
		cp := *u
		d.users[u.ID] = &cp
		d.track(u.ID)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *state) {
		if u, ok := d.users[id]; ok {
			cp := *u
			out = &cp
		}
	})
	return out, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *state) {
		for _, u := range d.users {
			if u.Username == username {
				cp := *u
				out = &cp
				return
			}
		}
	})
	return out, nil
}

// TokenRepo tokens activos en memoria (uno por usuario).
type TokenRepo struct{ s view }

func (r *TokenRepo) Save(_ context.Context, t *entity.UserToken) error {
	return r.s.write(func(d *state) error {
		cp := *t
		d.tokens[t.UserID] = &cp
		return nil
	})
}

func (r *TokenRepo) GetByUserID(_ context.Context, userID string) (*entity.UserToken, error) {
	var out *entity.UserToken
	r.s.read(func(d *state) {
		if t, ok := d.tokens[userID]; ok {
			cp := *t
			out = &cp
		}
	})
	return out, nil
}

func (r *TokenRepo) Delete(_ context.Context, userID string) error {
	return r.s.write(func(d *state) error {
		delete(d.tokens, userID)
		return nil
	})
}
