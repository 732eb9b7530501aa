package api

import (
	"context"

	"github.com/model-cloud/mcloud/internal/session"
)

// LoginRequest is the credential set for a login attempt. Logins are
// captcha-protected; the key pairs the answer with the server-side image.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Captcha    string `json:"captcha"`
	CaptchaKey string `json:"captchaKey"`
}

// RegisterRequest is the payload for account self-registration.
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Nickname        string `json:"nickname,omitempty"`
	Captcha         string `json:"captcha"`
	CaptchaKey      string `json:"captchaKey"`
}

// LoginResponse carries the issued token and the profile snapshot.
type LoginResponse struct {
	Token    string              `json:"token"`
	UserInfo session.UserProfile `json:"userInfo"`
}

// CaptchaResponse carries the captcha key and a base64-encoded image.
type CaptchaResponse struct {
	Key   string `json:"key"`
	Image string `json:"image"`
}

// Login authenticates the user.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/auth/register", req, nil)
}

// Logout invalidates the current token server side.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

// Captcha fetches a fresh captcha challenge.
func (c *Client) Captcha(ctx context.Context) (*CaptchaResponse, error) {
	var resp CaptchaResponse
	if err := c.get(ctx, "/auth/captcha", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges the current token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var token string
	if err := c.post(ctx, "/auth/refresh", nil, &token); err != nil {
		return "", err
	}
	return token, nil
}

// CurrentUser fetches the profile behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (*session.UserProfile, error) {
	var profile session.UserProfile
	if err := c.get(ctx, "/auth/user", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
