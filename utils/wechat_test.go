package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treehole/config"
)

func newTestWechatClient(mock bool) *WechatClient {
	return NewWechatClient(config.AppConfig{
		WechatAppID:       "test-app",
		WechatAppSecret:   "test-secret",
		WechatMockEnabled: mock,
	})
}

func TestExchangeCodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/oauth2/access_token", r.URL.Path)
		assert.Equal(t, "test-app", r.URL.Query().Get("appid"))
		assert.Equal(t, "test-secret", r.URL.Query().Get("secret"))
		assert.Equal(t, "good-code", r.URL.Query().Get("code"))
		assert.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "at",
			"expires_in": 7200,
			"refresh_token": "rt",
			"openid": "openid-1",
			"scope": "snsapi_userinfo",
			"unionid": "u1"
		}`))
	}))
	defer server.Close()

	client := newTestWechatClient(false)
	client.SetBaseURL(server.URL)

	token, err := client.ExchangeCode(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "openid-1", token.OpenID)
	assert.Equal(t, "u1", token.UnionID)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.Equal(t, []string{"snsapi_userinfo"}, token.Scopes)
	assert.False(t, token.HasExpired())
}

func TestExchangeCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WeChat reports failures inside a 200 body.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errcode": 40029, "errmsg": "invalid code"}`))
	}))
	defer server.Close()

	client := newTestWechatClient(false)
	client.SetBaseURL(server.URL)

	_, err := client.ExchangeCode(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrInvalidWechatCode)
}

func TestExchangeCodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestWechatClient(false)
	client.SetBaseURL(server.URL)

	_, err := client.ExchangeCode(context.Background(), "any")
	assert.ErrorIs(t, err, ErrWechatUnavailable)
}

func TestExchangeCodeUnreachable(t *testing.T) {
	client := newTestWechatClient(false)
	client.SetBaseURL("http://127.0.0.1:1")

	_, err := client.ExchangeCode(context.Background(), "any")
	assert.ErrorIs(t, err, ErrWechatUnavailable)
}

func TestExchangeCodeMockMode(t *testing.T) {
	client := newTestWechatClient(true)

	token, err := client.ExchangeCode(context.Background(), "dev-code")
	require.NoError(t, err)
	assert.Equal(t, "mock-dev-code", token.OpenID)
	assert.False(t, token.HasExpired())
}
