package circulation

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
	"library-circulation/pkg/id"
)

// SettingsSource hands out the current settings snapshot.
type SettingsSource interface {
	Snapshot() *setting.Snapshot
}

type Usecase struct {
	books    book.Repository
	patrons  patron.Repository
	txns     transaction.Repository
	uow      uow.UnitOfWork
	settings SettingsSource
	clock    policy.Clock
	newRef   func() string
}

func NewUsecase(books book.Repository, patrons patron.Repository, txns transaction.Repository,
	tx uow.UnitOfWork, settings SettingsSource, clock policy.Clock) *Usecase {
	if clock == nil {
		clock = policy.SystemClock{}
	}
	return &Usecase{
		books: books, patrons: patrons, txns: txns, uow: tx,
		settings: settings, clock: clock, newRef: id.NewULID,
	}
}

func (u *Usecase) engine() policy.Engine { return policy.New(u.settings.Snapshot()) }

// txEngine reads the settings once, inside the DB transaction that uses them.
func (u *Usecase) txEngine(ctx context.Context, r uow.Repos) policy.Engine {
	rows, err := r.Settings.List(ctx)
	if err != nil {
		log.Printf("circulation: settings read failed, using process snapshot: %v", err)
		return u.engine()
	}
	return policy.New(setting.NewSnapshot(rows))
}

func (u *Usecase) Issue(ctx context.Context, in IssueInput) (*TransactionDTO, error) {
	var dto TransactionDTO
	today := policy.Today(u.clock)

	err := u.uow.WithinBookTx(ctx, in.AccessionNumber, func(r uow.Repos, b *book.Book) error {
		p, err := r.Patrons.GetByRollNo(ctx, in.RollNo)
		if err != nil {
			return err
		}
		if !p.IsActive() {
			return violation(CodePatronInactive, "patron %s is not active (status: %s)", p.RollNo, p.Status)
		}
		if b.Status != book.StatusAvailable {
			return violation(CodeBookUnavailable, "book %s is not available (status: %s)", b.AccessionNumber, b.Status)
		}
		if n, err := r.Transactions.CountOpenByBook(ctx, b.ID); err != nil {
			return err
		} else if n > 0 {
			return violation(CodeBookUnavailable, "book %s already has an open loan", b.AccessionNumber)
		}

		eng := u.txEngine(ctx, r)
		open, err := r.Transactions.CountOpenByPatron(ctx, p.ID)
		if err != nil {
			return err
		}
		if !eng.CanIssue(p, open) {
			return violation(CodeMaxBooks, "patron has reached maximum limit of %d books", p.MaxBooks)
		}

		// conditional flip: a concurrent issue that got here first leaves 0 rows
		ok, err := r.Books.SetStatusIf(ctx, b.ID, book.StatusAvailable, book.StatusIssued)
		if err != nil {
			return err
		}
		if !ok {
			return violation(CodeBookUnavailable, "book %s was issued concurrently", b.AccessionNumber)
		}

		t := &transaction.Transaction{
			Reference:  u.newRef(),
			PatronID:   p.ID,
			BookID:     b.ID,
			IssueDate:  today,
			DueDate:    eng.ComputeDueDate(today, p.PatronType),
			Status:     transaction.StatusIssued,
			FineAmount: decimal.Zero,
			IssuedBy:   in.IssuedBy,
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}
		b.Status = book.StatusIssued
		t.Patron, t.Book = p, b
		dto = ToDTO(t, eng, today)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (u *Usecase) Return(ctx context.Context, in ReturnInput) (*TransactionDTO, error) {
	var dto TransactionDTO
	today := policy.Today(u.clock)

	err := u.uow.WithinTransactionTx(ctx, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if !t.IsOpen() {
			return violation(CodeAlreadyReturned, "transaction %s is already returned", t.Reference)
		}
		eng := u.txEngine(ctx, r)

		// the fine is assessed before the status flips
		res := eng.AssessFine(t, today)
		if !res.OK() {
			log.Printf("circulation: fine for transaction %d not computed: %s", t.ID, res.Reason)
		}
		t.ReturnDate = &today
		t.FineAmount = res.Amount
		ok, err := r.Transactions.MarkReturned(ctx, t)
		if err != nil {
			return err
		}
		if !ok {
			return violation(CodeAlreadyReturned, "transaction %s is already returned", t.Reference)
		}
		t.Status = transaction.StatusReturned
		if err := r.Books.SetStatus(ctx, t.BookID, book.StatusAvailable); err != nil {
			return err
		}

		dto = ToDTO(t, eng, today)
		dto.DaysOverdue = res.DaysLate
		dto.Overdue = res.DaysLate > 0
		dto.FineUnresolved = !res.OK()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.decorate(ctx, dto), nil
}

func (u *Usecase) MarkFinePaid(ctx context.Context, txnID uint64) (*TransactionDTO, error) {
	var dto TransactionDTO
	err := u.uow.WithinTransactionTx(ctx, txnID, func(r uow.Repos, t *transaction.Transaction) error {
		if t.FinePaid {
			return violation(CodeAlreadyPaid, "fine already paid")
		}
		if !t.FineAmount.IsPositive() {
			return violation(CodeNoFine, "no fine to collect for transaction %s", t.Reference)
		}
		ok, err := r.Transactions.MarkFinePaid(ctx, t.ID)
		if err != nil {
			return err
		}
		if !ok {
			return violation(CodeAlreadyPaid, "fine already paid")
		}
		t.FinePaid = true
		dto = ToDTO(t, u.engine(), policy.Today(u.clock))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.decorate(ctx, dto), nil
}

// decorate fills patron and book labels after commit; a lookup miss leaves them blank.
func (u *Usecase) decorate(ctx context.Context, dto TransactionDTO) *TransactionDTO {
	if p, err := u.patrons.GetByID(ctx, dto.PatronID); err == nil {
		dto.RollNo, dto.PatronName = p.RollNo, p.Name
	} else if !errors.Is(err, patron.ErrNotFound) {
		log.Printf("circulation: load patron %d: %v", dto.PatronID, err)
	}
	if b, err := u.books.GetByID(ctx, dto.BookID); err == nil {
		dto.AccessionNumber, dto.BookTitle = b.AccessionNumber, b.Title
	} else if !errors.Is(err, book.ErrNotFound) {
		log.Printf("circulation: load book %d: %v", dto.BookID, err)
	}
	return &dto
}
