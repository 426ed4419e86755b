package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
	"github.com/alem-hub/mentorship-engine/pkg/retry"
)

// Store is the PostgreSQL implementation of mentorship.Store.
//
// A unit of work runs in one read-committed transaction. Before fn runs,
// a transaction-scoped advisory lock is taken for every lock key in
// sorted order, so two units of work touching the same mentor or mentee
// run one after the other and cannot deadlock on each other. Deadlocks
// and serialization failures from other writers are retried.
type Store struct {
	conn    *Connection
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewStore creates a store on conn.
func NewStore(conn *Connection, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("postgres_store"))

	return &Store{
		conn: conn,
		retrier: retry.DatabaseRetrier(
			retry.WithRetryIf(IsTransient),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				log.Warn("transaction conflict, retrying",
					logger.Int("attempt", attempt),
					logger.Duration("delay", delay),
					logger.Err(err),
				)
			}),
		),
		log: log,
	}
}

// Repositories returns repositories that run on the pool.
func (s *Store) Repositories() mentorship.Repositories {
	return repositoriesOn(s.conn.Pool(), false)
}

// Within implements mentorship.Store.
func (s *Store) Within(ctx context.Context, lockKeys []mentorship.UserID, fn func(ctx context.Context, tx mentorship.Repositories) error) error {
	keys := sortedLockKeys(lockKeys)

	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			for _, key := range keys {
				if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
					return fmt.Errorf("acquire lock %s: %w", key, err)
				}
			}
			return fn(ctx, repositoriesOn(tx, true))
		})
	})
	if err != nil && IsTransient(err) {
		s.log.Error("transaction conflict not resolved", logger.Err(err))
		return fmt.Errorf("%w: %w", shared.ErrStoreConflict, err)
	}
	return err
}

func repositoriesOn(q Querier, inTx bool) mentorship.Repositories {
	return mentorship.Repositories{
		Mentorships: &MentorshipRepository{q: q, inTx: inTx},
		Waitlist:    &WaitlistRepository{q: q},
		Candidates:  &CandidateRepository{q: q},
	}
}

// sortedLockKeys deduplicates keys and orders them so that every unit of
// work acquires locks in the same order.
func sortedLockKeys(ids []mentorship.UserID) []string {
	seen := make(map[mentorship.UserID]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || !id.IsValid() {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, "mentor:"+id.String())
	}
	sort.Strings(out)
	return out
}

// UUIDGenerator generates mentorship ids.
type UUIDGenerator struct{}

// NewID returns a random UUID.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
