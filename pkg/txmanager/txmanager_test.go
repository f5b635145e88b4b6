package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
)

// fakeTx транзакция, которая только считает Commit/Rollback
type fakeTx struct {
	commitErr error
	commits   int
	rollbacks int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

// fakeDB выдает заранее заданные транзакции по очереди
type fakeDB struct {
	txs      []*fakeTx
	begun    int
	beginErr error
	opts     []*sql.TxOptions
}

func (d *fakeDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.opts = append(d.opts, opts)

	var tx *fakeTx
	if d.begun < len(d.txs) {
		tx = d.txs[d.begun]
	} else {
		tx = &fakeTx{}
		d.txs = append(d.txs, tx)
	}
	d.begun++
	return tx, nil
}

func serializationFailure() error {
	return &pq.Error{Code: codeSerializationFailure, Message: "could not serialize access"}
}

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	var seen dbmetrics.TxExecutor
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		tx, ok := dbmetrics.TxFromContext(ctx)
		require.True(t, ok)
		seen = tx
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 1, db.begun)
	assert.Same(t, db.txs[0], seen)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
	assert.Equal(t, 1, db.txs[0].commits)
	assert.Zero(t, db.txs[0].rollbacks)
}

func TestDoSerializable_RetriesSerializationFailureFromFn(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("upsert demand: %w", serializationFailure())
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, db.txs[0].rollbacks)
	assert.Zero(t, db.txs[0].commits)
	assert.Equal(t, 1, db.txs[1].commits)
}

func TestDoSerializable_RetriesRetryableCommitError(t *testing.T) {
	db := &fakeDB{txs: []*fakeTx{
		{commitErr: &pq.Error{Code: codeDeadlockDetected}},
		{},
	}}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, db.begun)
}

func TestDoSerializable_NonRetryableErrorReturnedAsIs(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)
	errCapacity := errors.New("slot is full")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errCapacity
	})

	assert.Same(t, errCapacity, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, db.txs[0].rollbacks)
	assert.Zero(t, db.txs[0].commits)
}

func TestDoSerializable_UniqueViolationNotRetried(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return &pq.Error{Code: "23505"}
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
}

func TestDoSerializable_RetriesExhausted(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return serializationFailure()
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, DefaultMaxAttempts, calls)
	assert.Equal(t, DefaultMaxAttempts, db.begun)
	for _, tx := range db.txs {
		assert.Equal(t, 1, tx.rollbacks)
	}
}

func TestDoSerializable_CommitFailure(t *testing.T) {
	db := &fakeDB{txs: []*fakeTx{{commitErr: errors.New("connection reset")}}}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrCommitTx)
	assert.Equal(t, 1, db.begun)
}

func TestDoSerializable_BeginFailure(t *testing.T) {
	db := &fakeDB{beginErr: errors.New("too many connections")}
	m := NewTransactionManager(db)

	called := false
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
	assert.False(t, called)
}

func TestDoSerializable_NestedCallJoinsOuterTransaction(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		outer, _ := dbmetrics.TxFromContext(ctx)

		return m.DoSerializable(ctx, func(ctx context.Context) error {
			inner, ok := dbmetrics.TxFromContext(ctx)
			require.True(t, ok)
			assert.Same(t, outer, inner)
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.begun)
	assert.Equal(t, 1, db.txs[0].commits)
}

func TestDoSerializable_PanicRollsBack(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	assert.Panics(t, func() {
		_ = m.DoSerializable(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, db.txs[0].rollbacks)
	assert.Zero(t, db.txs[0].commits)
}
