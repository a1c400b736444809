package postgres

import (
	"blobvault/internal/core/port"
	"context"
	"database/sql"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return NewSQLUploadSessionRepository(u.querier())
}

func (u *sqlUnitOfWork) MultipartUploadRepo() port.MultipartUploadRepository {
	return NewSQLMultipartUploadRepository(u.querier())
}

func (u *sqlUnitOfWork) DownloadRepo() port.ExternalDownloadRepository {
	return NewSQLExternalDownloadRepository(u.querier())
}

func (u *sqlUnitOfWork) OutboxRepo() port.OutboxRepository {
	return NewSQLOutboxRepository(u.querier())
}

func (u *sqlUnitOfWork) AssetRepo() port.AssetRepository {
	return NewSQLAssetRepository(u.querier())
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
