package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repit/internal/kv"
	"github.com/2beens/repit/internal/telemetry/metrics"
	"github.com/2beens/repit/internal/workouts"
)

// kvStores returns the redis and postgres backed stores. They share the suite's
// clients, so they are not closed here.
func (s *IntegrationTestSuite) kvStores(ctx context.Context) map[string]kv.Store {
	pgStore := kv.NewPostgresStore(s.pgPool)
	require.NoError(s.T(), pgStore.Migrate(ctx))
	// migrating twice is fine
	require.NoError(s.T(), pgStore.Migrate(ctx))

	return map[string]kv.Store{
		"redis":    kv.NewRedisStore(s.rdb),
		"postgres": pgStore,
	}
}

func (s *IntegrationTestSuite) TestKV_GetSetDel() {
	ctx := context.Background()
	for name, store := range s.kvStores(ctx) {
		s.Run(name, func() {
			key := "kv-it:" + gofakeit.UUID()

			_, err := store.Get(ctx, key)
			assert.ErrorIs(s.T(), err, kv.ErrNotFound)

			value := []byte(gofakeit.Sentence(8))
			require.NoError(s.T(), store.Set(ctx, key, value))
			got, err := store.Get(ctx, key)
			require.NoError(s.T(), err)
			assert.Equal(s.T(), value, got)

			require.NoError(s.T(), store.Del(ctx, key))
			_, err = store.Get(ctx, key)
			assert.ErrorIs(s.T(), err, kv.ErrNotFound)
		})
	}
}

func (s *IntegrationTestSuite) TestKV_UpdateConflict() {
	ctx := context.Background()
	for name, store := range s.kvStores(ctx) {
		s.Run(name, func() {
			key := "kv-it:" + gofakeit.UUID()

			// another writer slips in between read and write
			err := store.Update(ctx, key, func(current []byte, exists bool) ([]byte, error) {
				assert.False(s.T(), exists)
				require.NoError(s.T(), store.Set(ctx, key, []byte("theirs")))
				return []byte("ours"), nil
			})
			assert.ErrorIs(s.T(), err, kv.ErrConflict)

			got, err := store.Get(ctx, key)
			require.NoError(s.T(), err)
			assert.Equal(s.T(), []byte("theirs"), got)

			err = store.Update(ctx, key, func(current []byte, exists bool) ([]byte, error) {
				assert.True(s.T(), exists)
				return append(current, []byte("+ours")...), nil
			})
			require.NoError(s.T(), err)

			got, err = store.Get(ctx, key)
			require.NoError(s.T(), err)
			assert.Equal(s.T(), []byte("theirs+ours"), got)
		})
	}
}

func (s *IntegrationTestSuite) TestKV_PostgresSerializesUpdates() {
	ctx := context.Background()
	store := s.kvStores(ctx)["postgres"]
	key := "kv-it:counter:" + gofakeit.UUID()
	require.NoError(s.T(), store.Set(ctx, key, []byte("0")))

	const writers = 10
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, key, func(current []byte, _ bool) ([]byte, error) {
				var n int
				if _, err := fmt.Sscanf(string(current), "%d", &n); err != nil {
					return nil, err
				}
				return []byte(fmt.Sprintf("%d", n+1)), nil
			})
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, key)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), fmt.Sprintf("%d", writers), string(got))
}

func (s *IntegrationTestSuite) TestWorkoutsOnPostgres() {
	ctx := context.Background()
	store := s.kvStores(ctx)["postgres"]
	mm := metrics.NewTestManager()
	ns := "repit-pg-" + gofakeit.LetterN(6)

	svc := workouts.NewService(workouts.NewStore(store, ns, mm), nil, mm)
	require.NoError(s.T(), svc.Reload(ctx))
	assert.Empty(s.T(), svc.History())

	logged, err := svc.LogSportsActivity(ctx, workouts.GenerateRequest{
		WorkoutType:       workouts.CategorySports,
		SportsDescription: "Climbing session",
	})
	require.NoError(s.T(), err)

	// a second service over the same table sees the write after a reload
	other := workouts.NewService(workouts.NewStore(store, ns, mm), nil, mm)
	require.NoError(s.T(), other.Reload(ctx))
	require.Len(s.T(), other.History(), 1)
	assert.Equal(s.T(), logged.ID, other.History()[0].ID)
	assert.Equal(s.T(), 0, other.Stats().TotalCompleted)

	// sports logs can be finished right away
	finished, err := svc.FinishWorkout(ctx, logged.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), workouts.StateFinished, finished.State())
	assert.Nil(s.T(), finished.Duration)

	require.NoError(s.T(), other.Reload(ctx))
	assert.Equal(s.T(), 1, other.Stats().TotalCompleted)
}
