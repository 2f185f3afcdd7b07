package receiver

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memberdomain "yatra-app-go/internal/domain/member"
	receiverdomain "yatra-app-go/internal/domain/receiver"
	"yatra-app-go/internal/repository/postgres/pgtest"
)

func newReceiver(name string, method memberdomain.PaymentMethod) *receiverdomain.Receiver {
	return &receiverdomain.Receiver{ID: uuid.NewString(), Name: name, Method: method}
}

func TestPostgresRepository_Receivers(t *testing.T) {
	repo := NewPostgres(pgtest.OpenSQLite(t, &receiverdomain.Receiver{}))
	ctx := context.Background()

	require.NoError(t, repo.CreateReceiver(ctx, newReceiver("Guru", memberdomain.MethodCash)))
	require.NoError(t, repo.CreateReceiver(ctx, newReceiver("Guru", memberdomain.MethodGPay)))
	require.NoError(t, repo.CreateReceiver(ctx, newReceiver("Anil", memberdomain.MethodGPay)))

	err := repo.CreateReceiver(ctx, newReceiver("Guru", memberdomain.MethodCash))
	assert.ErrorIs(t, err, receiverdomain.ErrReceiverExists)

	gpay, err := repo.ListReceivers(ctx, memberdomain.MethodGPay)
	require.NoError(t, err)
	require.Len(t, gpay, 2)
	assert.Equal(t, "Anil", gpay[0].Name)

	all, err := repo.ListReceivers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	deleted, err := repo.DeleteReceiver(ctx, "Guru", memberdomain.MethodCash)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteReceiver(ctx, "Guru", memberdomain.MethodCash)
	require.NoError(t, err)
	assert.False(t, deleted)
}
