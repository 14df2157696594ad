package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/user"
	"library-circulation/pkg/password"
)

var ErrSamePassword = errors.New("new password must differ from the current one")

type Usecase struct {
	users   user.Repository
	patrons patron.Repository
	secret  []byte
	now     func() time.Time
}

func NewUsecase(users user.Repository, patrons patron.Repository, secret string) *Usecase {
	return &Usecase{users: users, patrons: patrons, secret: []byte(secret), now: time.Now}
}

func (u *Usecase) Secret() []byte { return u.secret }

// Login authenticates a librarian or admin account.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*TokenDTO, error) {
	acct, err := u.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrBadCredentials
		}
		return nil, err
	}
	if !acct.IsActive || !acct.Role.Staff() || !password.Matches(acct.PasswordHash, in.Password) {
		return nil, user.ErrBadCredentials
	}
	return u.issue(Actor{ID: acct.ID, Role: acct.Role}, acct.Username, false)
}

// PatronLogin authenticates an active patron by roll number.
func (u *Usecase) PatronLogin(ctx context.Context, in PatronLoginInput) (*TokenDTO, error) {
	p, err := u.patrons.GetByRollNo(ctx, strings.TrimSpace(in.RollNo))
	if err != nil {
		if errors.Is(err, patron.ErrNotFound) {
			return nil, patron.ErrBadCredentials
		}
		return nil, err
	}
	if !password.Matches(p.PasswordHash, in.Password) {
		return nil, patron.ErrBadCredentials
	}
	if !p.IsActive() {
		return nil, patron.ErrNotActive
	}
	return u.issue(Actor{ID: p.ID, Role: user.RolePatron}, p.Name, p.FirstLogin)
}

// ChangePatronPassword verifies the current password, stores the new one and
// clears the first-login flag. Contact fields are updated when given.
func (u *Usecase) ChangePatronPassword(ctx context.Context, patronID uint64, in ChangePasswordInput) (*patron.Patron, error) {
	p, err := u.patrons.GetByID(ctx, patronID)
	if err != nil {
		return nil, err
	}
	if !password.Matches(p.PasswordHash, in.CurrentPassword) {
		return nil, patron.ErrBadCredentials
	}
	if in.NewPassword == in.CurrentPassword {
		return nil, ErrSamePassword
	}
	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return nil, err
	}
	now := u.now().UTC()
	p.PasswordHash = hash
	p.FirstLogin = false
	p.PasswordChangedBy = &p.ID
	p.PasswordChangedAt = &now
	cols := []string{"password_hash", "first_login", "password_changed_by", "password_changed_at", "updated_at"}
	if e := strings.TrimSpace(in.Email); e != "" {
		p.Email = e
		cols = append(cols, "email")
	}
	if ph := strings.TrimSpace(in.Phone); ph != "" {
		p.Phone = ph
		cols = append(cols, "phone")
	}
	if err := u.patrons.Update(ctx, p, cols...); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *Usecase) CreateUser(ctx context.Context, in CreateUserInput) (*user.User, error) {
	if !in.Role.Staff() {
		return nil, errors.New("role must be admin or librarian")
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	acct := &user.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (u *Usecase) issue(a Actor, name string, mustChange bool) (*TokenDTO, error) {
	tok, exp, err := SignToken(u.secret, a, u.now())
	if err != nil {
		return nil, err
	}
	return &TokenDTO{Token: tok, ExpiresAt: exp, Actor: a, Name: name, MustChangePassword: mustChange}, nil
}
