package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"retail_sync_v1_202608/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newB2BAuthTestServer 模拟两段式换发：/identity 回含断言的 HTML form，/token 回 JSON
func newB2BAuthTestServer(t *testing.T, identityCalls, tokenCalls *int32, expiresIn int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/identity", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(identityCalls, 1)
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		w.Write([]byte(`<form><input name="SAMLResponse" value="assertion-xyz"></form>`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(tokenCalls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, samlBearerGrantType, r.FormValue("grant_type"))
		assert.Equal(t, "assertion-xyz", r.FormValue("assertion"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":%d}`, n, expiresIn)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestB2BAuthService(baseURL string) *B2BAuthService {
	return NewB2BAuthService(config.B2BConfig{
		IdentityURL:    baseURL + "/identity",
		IdentityAPIKey: "key-123",
		Username:       "buyer01",
		Password:       "secret",
		TokenURL:       baseURL + "/token",
	})
}

// ==================== Token 快取 ====================

func TestB2BAuthCacheHit(t *testing.T) {
	var identityCalls, tokenCalls int32
	srv := newB2BAuthTestServer(t, &identityCalls, &tokenCalls, 3600)

	svc := newTestB2BAuthService(srv.URL)
	base := time.Now()
	svc.nowFn = func() time.Time { return base }

	token1, err := svc.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token1)

	// 有效期 3600s - 安全边际 300s = 3300s；3000s 时必须命中快取
	svc.nowFn = func() time.Time { return base.Add(3000 * time.Second) }
	token2, err := svc.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token1, token2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&identityCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestB2BAuthRenewalNearExpiry(t *testing.T) {
	var identityCalls, tokenCalls int32
	srv := newB2BAuthTestServer(t, &identityCalls, &tokenCalls, 3600)

	svc := newTestB2BAuthService(srv.URL)
	base := time.Now()
	svc.nowFn = func() time.Time { return base }

	_, err := svc.Authenticate(context.Background())
	require.NoError(t, err)

	// 3400s 已进入安全边际 (> 3300s)，必须重新换发
	svc.nowFn = func() time.Time { return base.Add(3400 * time.Second) }
	token2, err := svc.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&tokenCalls))
}

// ==================== 失败路径 ====================

func TestB2BAuthNotConfigured(t *testing.T) {
	svc := NewB2BAuthService(config.B2BConfig{})
	_, err := svc.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrB2BNotConfigured)
}

func TestB2BAuthAssertionMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 身份端点回 200 但没有断言栏位 (例如维护页)
		w.Write([]byte(`<html><body>System Maintenance</body></html>`))
	}))
	defer srv.Close()

	svc := NewB2BAuthService(config.B2BConfig{
		IdentityURL: srv.URL,
		Username:    "buyer01",
		Password:    "secret",
		TokenURL:    srv.URL + "/token",
	})

	_, err := svc.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrAssertionNotFound)
}

func TestB2BAuthIdentityFailureFailsFast(t *testing.T) {
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/identity", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusForbidden)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestB2BAuthService(srv.URL)
	_, err := svc.Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	// 第一段失败时不得触发第二段
	assert.Equal(t, int32(0), atomic.LoadInt32(&tokenCalls))
}
