package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	mock.ExpectGet("repit_user_goals").SetVal(`{"benchPress":225}`)
	val, err := store.Get(ctx, "repit_user_goals")
	require.NoError(t, err)
	assert.Equal(t, `{"benchPress":225}`, string(val))

	mock.ExpectGet("missing").RedisNil()
	val, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, val)

	mock.ExpectGet("broken").SetErr(errors.New("connection refused"))
	_, err = store.Get(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetDel(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	value := []byte(`{"workouts":[]}`)
	mock.ExpectSet("repit_workout_history", value, 0).SetVal("OK")
	require.NoError(t, store.Set(ctx, "repit_workout_history", value))

	mock.ExpectSet("repit_workout_history", value, 0).SetErr(errors.New("OOM"))
	err := store.Set(ctx, "repit_workout_history", value)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OOM")

	mock.ExpectDel("repit_authenticated").SetVal(1)
	require.NoError(t, store.Del(ctx, "repit_authenticated"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamespaced(t *testing.T) {
	assert.Equal(t, "repit_user_goals", Namespaced("", "repit_user_goals"))
	assert.Equal(t, "dev:repit_user_goals", Namespaced("dev", "repit_user_goals"))
}
