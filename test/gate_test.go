package test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/repit/internal/gate"
	"github.com/2beens/repit/internal/kv"
)

func (s *IntegrationTestSuite) TestGate_LockAndUnlock() {
	ctx := context.Background()

	resp := s.doRequest(ctx, http.MethodGet, "/a/lock", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	exists, err := s.rdb.Exists(ctx, kv.Namespaced(testNamespace, gate.FlagKey)).Result()
	require.NoError(s.T(), err)
	assert.Zero(s.T(), exists)

	resp = s.doRequest(ctx, http.MethodGet, "/workouts", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest(ctx, http.MethodGet, "/quote/random", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest(ctx, http.MethodPost, "/a/unlock", map[string]string{"password": testSitePassword})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	flag, err := s.rdb.Get(ctx, kv.Namespaced(testNamespace, gate.FlagKey)).Result()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "true", flag)

	resp = s.doRequest(ctx, http.MethodGet, "/workouts", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestGate_UnlockIsRateLimited() {
	ctx := context.Background()

	// SetupTest already spent one attempt
	for i := 1; i < unlockPerMin; i++ {
		resp := s.doRequest(ctx, http.MethodPost, "/a/unlock", map[string]string{"password": "wrong"})
		assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.doRequest(ctx, http.MethodPost, "/a/unlock", map[string]string{"password": testSitePassword})
	assert.Equal(s.T(), http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()

	// a wrong password never relocks an unlocked gate
	resp = s.doRequest(ctx, http.MethodGet, "/stats", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
