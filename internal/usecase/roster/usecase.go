package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/uow"
	"library-circulation/pkg/pagination"
	"library-circulation/pkg/password"
)

var (
	ErrNotPending    = errors.New("patron is not pending approval")
	ErrInvalidStatus = errors.New("status must be one of pending, active, inactive, suspended")
)

type SettingsSource interface {
	Snapshot() *setting.Snapshot
}

type Usecase struct {
	patrons  patron.Repository
	uow      uow.UnitOfWork
	settings SettingsSource
	now      func() time.Time

	hashOnce    sync.Once
	defaultHash string
	hashErr     error
}

func NewUsecase(patrons patron.Repository, tx uow.UnitOfWork, settings SettingsSource) *Usecase {
	return &Usecase{patrons: patrons, uow: tx, settings: settings, now: func() time.Time { return time.Now().UTC() }}
}

// DefaultCredential hashes the default password once per process.
func (u *Usecase) DefaultCredential() (string, error) {
	u.hashOnce.Do(func() {
		u.defaultHash, u.hashErr = password.Hash(password.Default)
	})
	return u.defaultHash, u.hashErr
}

// Upsert adds or edits a patron keyed by roll number. Either way the password
// goes back to the default and the patron must change it on next login.
func (u *Usecase) Upsert(ctx context.Context, in PatronInput, src Source) (*patron.Patron, bool, error) {
	hash, err := u.DefaultCredential()
	if err != nil {
		return nil, false, fmt.Errorf("hash default password: %w", err)
	}

	p := &patron.Patron{
		RollNo:     strings.TrimSpace(in.RollNo),
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		PatronType: patron.Type(strings.ToLower(strings.TrimSpace(in.PatronType))),
		Department: strings.TrimSpace(in.Department),
		Division:   strings.TrimSpace(in.Division),
		Status:     patron.Status(in.Status),
		MaxBooks:   in.MaxBooks,
	}
	if p.PatronType == "" {
		p.PatronType = patron.TypeStudent
	}
	if p.MaxBooks <= 0 {
		p.MaxBooks = policy.New(u.settings.Snapshot()).ResolveMaxBooks(p.PatronType)
	}
	p.ResetCredential(hash)

	var created bool
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if p.Status == "" {
			// an edit without a status keeps the current one
			existing, err := r.Patrons.GetByRollNo(ctx, p.RollNo)
			switch {
			case err == nil:
				p.Status = existing.Status
			case errors.Is(err, patron.ErrNotFound):
				p.Status = src.defaultStatus()
			default:
				return err
			}
		}
		created, err = r.Patrons.UpsertByRollNo(ctx, p, patron.EnrollColumns())
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*patron.Patron, error) {
	return u.patrons.GetByID(ctx, id)
}

func (u *Usecase) GetByRollNo(ctx context.Context, rollNo string) (*patron.Patron, error) {
	return u.patrons.GetByRollNo(ctx, rollNo)
}

func (u *Usecase) List(ctx context.Context, q PatronQuery) (*pagination.Page[patron.Patron], error) {
	page, perPage := pagination.Normalize(q.Page, q.PerPage, 20, 100)
	rows, total, err := u.patrons.List(ctx, patron.ListFilter{
		Query:  q.Q,
		Status: patron.Status(q.Status),
		Type:   patron.Type(strings.ToLower(q.Type)),
		Limit:  perPage,
		Offset: pagination.Offset(page, perPage),
	})
	if err != nil {
		return nil, err
	}
	out := pagination.New(rows, total, page, perPage)
	return &out, nil
}

// Approve activates a pending registration.
func (u *Usecase) Approve(ctx context.Context, id, approverID uint64) (*patron.Patron, error) {
	p, err := u.patrons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != patron.StatusPending {
		return nil, ErrNotPending
	}
	now := u.now()
	p.Status = patron.StatusActive
	p.ApprovedBy = &approverID
	p.ApprovedAt = &now
	if err := u.patrons.Update(ctx, p, "status", "approved_by", "approved_at", "updated_at"); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStatus suspends, deactivates or reinstates a patron.
func (u *Usecase) SetStatus(ctx context.Context, id uint64, to patron.Status) (*patron.Patron, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	p, err := u.patrons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = to
	if err := u.patrons.Update(ctx, p, "status", "updated_at"); err != nil {
		return nil, err
	}
	return p, nil
}

// ResetPassword puts the patron back on the default password.
func (u *Usecase) ResetPassword(ctx context.Context, id, actorID uint64) (*patron.Patron, error) {
	hash, err := u.DefaultCredential()
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}
	p, err := u.patrons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := u.now()
	p.ResetCredential(hash)
	p.PasswordChangedBy = &actorID
	p.PasswordChangedAt = &now
	cols := append(append([]string{}, patron.CredentialColumns...), "password_changed_by", "password_changed_at", "updated_at")
	if err := u.patrons.Update(ctx, p, cols...); err != nil {
		return nil, err
	}
	return p, nil
}
