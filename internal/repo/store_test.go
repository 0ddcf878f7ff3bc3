package repo

import (
	"KeyGuardian/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTx_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	st := NewStore(db)
	u := mkUser(t, db, "u@example.com")
	ctx := context.Background()

	// ошибка внутри транзакции откатывает и секрет, и запись аудита
	boom := errors.New("boom")
	err := st.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		mkSecret(t, tx.Secrets(), u.ID, "rolled-back", time.Now(), nil)
		if err := tx.Audit().Append(ctx, &model.AuditEntry{UserID: u.ID, Action: model.AuditAdd, CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := st.Secrets().List(ctx, u.ID, SecretFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	entries, err := st.Audit().ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// успешная транзакция фиксирует обе записи
	err = st.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		mkSecret(t, tx.Secrets(), u.ID, "kept", time.Now(), nil)
		return tx.Audit().Append(ctx, &model.AuditEntry{UserID: u.ID, Action: model.AuditAdd, CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	list, err = st.Secrets().List(ctx, u.ID, SecretFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	entries, err = st.Audit().ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_WithinTx_CancelledContextStillCommits(t *testing.T) {
	db := newTestDB(t)
	st := NewStore(db)
	u := mkUser(t, db, "u@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.Audit().Append(ctx, &model.AuditEntry{UserID: u.ID, Action: model.AuditRevoke, CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	entries, err := st.Audit().ListForUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
