package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"treehole/config"
)

const wechatAPIBase = "https://api.weixin.qq.com"

var (
	// ErrInvalidWechatCode reports a code the WeChat API rejected.
	ErrInvalidWechatCode = errors.New("invalid wechat code")
	// ErrWechatUnavailable reports a transport or provider failure during the exchange.
	ErrWechatUnavailable = errors.New("wechat api unavailable")
)

// WechatToken is the result of exchanging a login code with the WeChat API.
type WechatToken struct {
	OpenID       string    `json:"openId"`
	UnionID      string    `json:"unionId"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpireTime   time.Time `json:"expireTime"`
	Scopes       []string  `json:"scopes"`
}

// HasExpired reports whether the access token has passed its expiry time.
func (t *WechatToken) HasExpired() bool {
	return !time.Now().Before(t.ExpireTime)
}

// WechatClient exchanges WeChat login codes for access tokens.
//
// The WeChat token endpoint is not standard OAuth2: credentials travel as
// appid/secret query parameters and failures come back as an errcode field
// inside a 200 response, so the exchange is a plain GET rather than an
// oauth2.Config call.
type WechatClient struct {
	appID      string
	appSecret  string
	mock       bool
	baseURL    string
	httpClient *http.Client
}

// NewWechatClient builds a client from loaded configuration. When MockEnabled
// is set the client serves deterministic tokens without network access, for
// development against a fake identity provider.
func NewWechatClient(cfg config.AppConfig) *WechatClient {
	return &WechatClient{
		appID:      cfg.WechatAppID,
		appSecret:  cfg.WechatAppSecret,
		mock:       cfg.WechatMockEnabled,
		baseURL:    wechatAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type wechatTokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"openid"`
	Scope        string `json:"scope"`
	UnionID      string `json:"unionid"`
	ErrCode      int    `json:"errcode"`
	ErrMsg       string `json:"errmsg"`
}

// ExchangeCode trades a login code for a WeChat access token.
func (c *WechatClient) ExchangeCode(ctx context.Context, code string) (*WechatToken, error) {
	if c.mock {
		return c.mockToken(code), nil
	}

	q := url.Values{}
	q.Set("appid", c.appID)
	q.Set("secret", c.appSecret)
	q.Set("code", code)
	q.Set("grant_type", "authorization_code")
	reqURL := c.baseURL + "/sns/oauth2/access_token?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWechatUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWechatUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrWechatUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWechatUnavailable, err)
	}

	var parsed wechatTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWechatUnavailable, err)
	}

	// WeChat signals failures with errcode in a 200 body.
	if parsed.ErrCode != 0 || parsed.OpenID == "" {
		return nil, fmt.Errorf("%w: errcode=%d errmsg=%s", ErrInvalidWechatCode, parsed.ErrCode, parsed.ErrMsg)
	}

	return &WechatToken{
		OpenID:       parsed.OpenID,
		UnionID:      parsed.UnionID,
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		ExpireTime:   time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second),
		Scopes:       strings.Split(parsed.Scope, ","),
	}, nil
}

func (c *WechatClient) mockToken(code string) *WechatToken {
	return &WechatToken{
		OpenID:       "mock-" + code,
		AccessToken:  "mock-access-token",
		RefreshToken: "mock-refresh-token",
		ExpireTime:   time.Now().Add(2 * time.Hour),
		Scopes:       []string{"snsapi_userinfo"},
	}
}

// SetBaseURL overrides the WeChat endpoint. Used by tests.
func (c *WechatClient) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}
