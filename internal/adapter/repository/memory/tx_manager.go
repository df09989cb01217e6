// Package memory holds in-process implementations of the storage ports. They
// back STORAGE_DRIVER=memory and the use case tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/adbilling/internal/usecase"
)

var errTxDone = errors.New("memory: transaction already finished")

// TxManager implements usecase.TransactionManager.
type TxManager struct{}

// NewTxManager creates a new TxManager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{}, nil
}

// Tx buffers writes until Commit. Reads inside the transaction see committed
// state only. All staged writes must target stores sharing one lock.
type Tx struct {
	mu     sync.Mutex
	lock   sync.Locker
	writes []write
	done   bool
}

type write struct {
	check func() error
	apply func()
}

func (t *Tx) stage(lock sync.Locker, check func() error, apply func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	t.lock = lock
	t.writes = append(t.writes, write{check: check, apply: apply})
	return nil
}

// Commit validates every staged write and then applies them all, or none.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	t.done = true

	if len(t.writes) == 0 {
		return nil
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	for _, w := range t.writes {
		if err := w.check(); err != nil {
			return err
		}
	}
	for _, w := range t.writes {
		w.apply()
	}
	return nil
}

// Rollback discards staged writes. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
	t.writes = nil
	return nil
}

// Retrier runs the operation once; the memory stores have no transient failures.
type Retrier struct{}

// NewRetrier creates a new Retrier.
func NewRetrier() *Retrier {
	return &Retrier{}
}

// Retry executes operation once.
func (Retrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}
