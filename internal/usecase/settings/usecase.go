package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/uow"
)

var ErrInvalidValue = errors.New("invalid setting value")

var validate = validator.New()

// Notifier fans reload notices out to other instances.
type Notifier interface {
	Publish(ctx context.Context, msg string) error
	Subscribe(ctx context.Context, fn func(msg string)) error
}

// Store owns the process-wide settings snapshot.
type Store struct {
	repo     setting.Repository
	uow      uow.UnitOfWork
	notifier Notifier
	snap     atomic.Pointer[setting.Snapshot]
}

// NewStore starts from the built-in defaults; call Reload once the DB is reachable.
func NewStore(repo setting.Repository, tx uow.UnitOfWork, n Notifier) *Store {
	s := &Store{repo: repo, uow: tx, notifier: n}
	s.snap.Store(setting.NewSnapshot(nil))
	return s
}

func (s *Store) Snapshot() *setting.Snapshot { return s.snap.Load() }

// Get never fails: unknown keys yield nil, missing known keys their default.
func (s *Store) Get(key string) any { return s.Snapshot().All()[key] }

func (s *Store) All() map[string]any { return s.Snapshot().All() }

func (s *Store) Seed(ctx context.Context) (int, error) {
	rows := make([]setting.Setting, 0, len(setting.Defaults))
	for _, d := range setting.Defaults {
		rows = append(rows, d.Row())
	}
	n, err := s.repo.SeedMissing(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("seed settings: %w", err)
	}
	return n, nil
}

// Reload swaps in a fresh snapshot; on failure the previous one stays.
func (s *Store) Reload(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	s.snap.Store(setting.NewSnapshot(rows))
	return nil
}

func (s *Store) Update(ctx context.Context, values map[string]any) (map[string]any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no settings given", ErrInvalidValue)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	encoded := make(map[string]setting.JSONValue, len(values))
	for _, k := range keys {
		raw, err := encode(k, values[k])
		if err != nil {
			return nil, err
		}
		encoded[k] = raw
	}

	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		for _, k := range keys {
			if err := r.Settings.Put(ctx, k, encoded[k], ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, strings.Join(keys, ",")); err != nil {
			log.Printf("settings: publish reload notice: %v", err)
		}
	}
	return s.All(), nil
}

// Listen reloads on every notice from other instances until ctx ends.
func (s *Store) Listen(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Subscribe(ctx, func(msg string) {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Reload(rctx); err != nil {
			log.Printf("settings: reload after notice %q: %v", msg, err)
		}
	})
}

func encode(key string, v any) (setting.JSONValue, error) {
	d, ok := setting.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", setting.ErrUnknownKey, key)
	}
	text := strings.TrimSpace(fmt.Sprint(v))
	switch d.Kind {
	case setting.KindInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			if f, ok := v.(float64); ok && f == float64(int(f)) {
				n, err = int(f), nil
			}
		}
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive whole number", ErrInvalidValue, key)
		}
		return marshal(n)
	case setting.KindDecimal:
		dec, err := decimal.NewFromString(text)
		if err != nil || dec.IsNegative() {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidValue, key)
		}
		return setting.JSONValue(dec.String()), nil
	default:
		s, ok := v.(string)
		s = strings.TrimSpace(s)
		if !ok || s == "" {
			return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidValue, key)
		}
		if key == setting.KeyLibrarianEmail {
			if err := validate.Var(s, "email"); err != nil {
				return nil, fmt.Errorf("%w: %s must be an email address", ErrInvalidValue, key)
			}
		}
		return marshal(s)
	}
}

func marshal(v any) (setting.JSONValue, error) {
	b, err := json.Marshal(v)
	return setting.JSONValue(b), err
}
