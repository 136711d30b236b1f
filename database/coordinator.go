package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockledger/types"
)

// Coordinator runs units of work in one store transaction and snapshots the
// store once after every successful commit.
//
// Callers must serialize writers; the coordinator holds no lock of its own.
type Coordinator struct {
	store      *Store
	durability Durability
	log        *zap.Logger
}

func NewCoordinator(store *Store, durability Durability, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{store: store, durability: durability, log: log}
}

// DB is the root handle for reads outside a unit of work.
func (c *Coordinator) DB(ctx context.Context) *gorm.DB {
	return c.store.DB.WithContext(ctx)
}

func (c *Coordinator) Store() *Store {
	return c.store
}

// Run executes work inside a transaction. An error from work rolls back and
// is returned as is. After a successful commit a failed snapshot is returned
// as a KindDurability error; the commit itself stays applied.
//
// A context that is already done fails fast. Once begun the transaction
// ignores cancellation.
func (c *Coordinator) Run(ctx context.Context, work func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	tx := c.store.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			c.rollback(tx, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := work(tx); err != nil {
		c.rollback(tx, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		c.rollback(tx, err)
		return fmt.Errorf("commit transaction: %w", err)
	}

	if err := c.durability.Snapshot(ctx, c.store); err != nil {
		c.log.Error("committed transaction is not durable", zap.Error(err))
		return types.Durability(err)
	}
	return nil
}

// RunValue is Run for work that produces a value. The value is returned
// together with a KindDurability error, since the commit already happened.
func RunValue[T any](ctx context.Context, c *Coordinator, work func(tx *gorm.DB) (T, error)) (T, error) {
	var out T
	err := c.Run(ctx, func(tx *gorm.DB) error {
		v, err := work(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil && !types.IsKind(err, types.KindDurability) {
		var zero T
		return zero, err
	}
	return out, err
}

func (c *Coordinator) rollback(tx *gorm.DB, cause error) {
	if err := tx.Rollback().Error; err != nil {
		c.log.Warn("rollback failed", zap.Error(err), zap.NamedError("cause", cause))
	}
}
