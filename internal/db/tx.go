package db

import (
	"context"
	"database/sql"
)

// MakeTx begins a transaction and returns the queries bound to it. discard is
// safe to defer, it is a no-op once commit has succeeded.
type MakeTx = func(ctx context.Context) (tx *Queries, discard, commit func() error, err error)

func NewMakeTx(dbtx *sql.DB) MakeTx {
	return func(ctx context.Context) (tx *Queries, discard, commit func() error, err error) {
		sqltx, err := dbtx.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		txqry := New(sqltx)
		return txqry,
			func() error {
				err := sqltx.Rollback()
				if err == sql.ErrTxDone {
					return nil
				}
				return err
			},
			func() error {
				return sqltx.Commit()
			},
			nil
	}
}
