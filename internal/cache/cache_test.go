package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedCompany struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestAside(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedCompany) func() error {
		return func() error {
			calls++
			*dest = cachedCompany{ID: 7, Name: "Acme"}
			return nil
		}
	}

	var first cachedCompany
	require.NoError(t, Aside(ctx, "company", CompanyKey(7), &first, CompanyTTL, fetch(&first)))
	assert.Equal(t, "Acme", first.Name)
	assert.True(t, mr.Exists(CompanyKey(7)))

	var second cachedCompany
	require.NoError(t, Aside(ctx, "company", CompanyKey(7), &second, CompanyTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	InvalidateCompany(ctx, 7)
	assert.False(t, mr.Exists(CompanyKey(7)))

	var third cachedCompany
	require.NoError(t, Aside(ctx, "company", CompanyKey(7), &third, CompanyTTL, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupRedis(t)
	boom := errors.New("boom")

	var dest cachedCompany
	err := Aside(context.Background(), "company", CompanyKey(1), &dest, CompanyTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(CompanyKey(1)))
}

func TestAside_WithoutRedis(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest cachedCompany
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "company", CompanyKey(1), &dest, CompanyTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestRevokeToken(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	assert.False(t, IsTokenRevoked(ctx, "abc"))
	require.NoError(t, RevokeToken(ctx, "abc", time.Minute))
	assert.True(t, IsTokenRevoked(ctx, "abc"))
	assert.True(t, mr.Exists("blacklist:abc"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, IsTokenRevoked(ctx, "abc"))

	// Already-expired tokens need no entry.
	require.NoError(t, RevokeToken(ctx, "old", 0))
	assert.False(t, mr.Exists("blacklist:old"))
}

func TestOptions(t *testing.T) {
	tests := []struct {
		in       string
		wantAddr string
		wantPass string
		wantDB   int
		wantErr  bool
	}{
		{"redis://:mypassword@redis:6379/1", "redis:6379", "mypassword", 1, false},
		{"localhost:6379", "localhost:6379", "", 0, false},
		{"redis://:pw@host:6379/notanumber", "", "", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			opts, err := Options(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAddr, opts.Addr)
			assert.Equal(t, tc.wantPass, opts.Password)
			assert.Equal(t, tc.wantDB, opts.DB)
			require.NotNil(t, opts.MaintNotificationsConfig)
		})
	}
}

func TestInitRedis_EmptyAddrDisablesCache(t *testing.T) {
	InitRedis("")
	assert.Nil(t, GetClient())
}
