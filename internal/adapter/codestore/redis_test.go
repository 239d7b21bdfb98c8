package codestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/codestore"
)

func TestPut(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := codestore.NewRedisStore(client)

	mock.ExpectSet("otp:user:42", "815423", 10*time.Minute).SetVal("OK")

	err := store.Put(context.Background(), "user:42", "815423", 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndRemove_Match(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := codestore.NewRedisStore(client)

	mock.ExpectGetDel("otp:user:42").SetVal("815423")

	ok, err := store.CheckAndRemove(context.Background(), "user:42", "815423")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndRemove_WrongCodeStillConsumes(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := codestore.NewRedisStore(client)

	// The stored value is deleted by the lookup itself; a wrong guess burns
	// the code.
	mock.ExpectGetDel("otp:user:42").SetVal("815423")
	mock.ExpectGetDel("otp:user:42").RedisNil()

	ok, err := store.CheckAndRemove(context.Background(), "user:42", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.CheckAndRemove(context.Background(), "user:42", "815423")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndRemove_Missing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := codestore.NewRedisStore(client)

	mock.ExpectGetDel("otp:user:7").RedisNil()

	ok, err := store.CheckAndRemove(context.Background(), "user:7", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
