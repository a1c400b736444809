package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"blobvault/internal/adapters/repository/postgres"
	"blobvault/internal/core/domain"
	"blobvault/internal/core/port"

	"github.com/stretchr/testify/require"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	uow := postgres.NewUnitOfWork(dbConnection)

	t.Run("Commit - All writes are visible after the transaction", func(t *testing.T) {
		// Arrange
		truncate()
		session := newTestSession(domain.UploadSessionStatusInitiated, time.Now().Add(time.Hour))
		record := newOutboxRecord(domain.OutboxStatusPending, time.Now())

		// Act
		err := uow.Execute(ctx, func(uow port.UnitOfWork) error {
			if err := uow.UploadSessionRepo().Create(ctx, session); err != nil {
				return err
			}
			return uow.OutboxRepo().Create(ctx, record)
		})

		// Assert
		require.NoError(t, err)

		saved, err := uow.UploadSessionRepo().FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, session.ID, saved.ID)

		claimed, err := uow.OutboxRepo().ClaimPending(ctx, time.Now().Add(time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, claimed, 1)
	})

	t.Run("Rollback - Nothing is visible after a failed transaction", func(t *testing.T) {
		// Arrange
		truncate()
		session := newTestSession(domain.UploadSessionStatusInitiated, time.Now().Add(time.Hour))
		boom := errors.New("boom")

		// Act
		err := uow.Execute(ctx, func(uow port.UnitOfWork) error {
			if err := uow.UploadSessionRepo().Create(ctx, session); err != nil {
				return err
			}
			return boom
		})

		// Assert
		require.ErrorIs(t, err, boom)
		_, err = uow.UploadSessionRepo().FindByID(ctx, session.ID)
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
