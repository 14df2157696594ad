package circulation

import (
	"context"

	"library-circulation/internal/domain/uow"
)

// DeletePatron removes a patron with no open loans together with its ledger rows.
func (u *Usecase) DeletePatron(ctx context.Context, patronID uint64) (*DeleteResult, error) {
	var res DeleteResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Patrons.GetByID(ctx, patronID)
		if err != nil {
			return err
		}
		open, err := r.Transactions.CountOpenByPatron(ctx, p.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return violation(CodeHasOpenLoans, "cannot delete patron with %d active transactions", open)
		}
		if res.DeletedTransactions, err = r.Transactions.DeleteByPatron(ctx, p.ID); err != nil {
			return err
		}
		return r.Patrons.Delete(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteBook removes a copy that is not on loan together with its ledger rows.
func (u *Usecase) DeleteBook(ctx context.Context, bookID uint64) (*DeleteResult, error) {
	var res DeleteResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Books.GetByID(ctx, bookID)
		if err != nil {
			return err
		}
		open, err := r.Transactions.CountOpenByBook(ctx, b.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return violation(CodeHasOpenLoans, "cannot delete book with %d active transactions", open)
		}
		if res.DeletedTransactions, err = r.Transactions.DeleteByBook(ctx, b.ID); err != nil {
			return err
		}
		return r.Books.Delete(ctx, b.ID)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
