package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Veraticus/fintrack/internal/model"
)

// AccessTokenCookie is the cookie the server sets on a successful login.
const AccessTokenCookie = "access_token_cookie"

// ErrNoToken is returned when a login succeeds without yielding a token.
var ErrNoToken = errors.New("login response carried no access token")

type credentialsBody struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
}

// Login exchanges credentials for an access token. The token is read from the
// body when present, otherwise from the access token cookie.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		body:   credentialsBody{Username: username, Password: password},
		out:    &out,
		exempt: true,
	})
	if err != nil {
		return "", err
	}

	if out.AccessToken != "" {
		return out.AccessToken, nil
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == AccessTokenCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", ErrNoToken
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/register",
		body:   credentialsBody{Username: username, Email: email, Password: password},
		exempt: true,
	})
	return err
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/logout", exempt: true})
	return err
}

// CurrentUser returns the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var user model.User
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/current_user", out: &user})
	return user, err
}

type changePasswordBody struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the password. A wrong old password yields
// ErrUnauthorized without expiring the session.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/change_password",
		body:   changePasswordBody{OldPassword: oldPassword, NewPassword: newPassword},
		exempt: true,
	})
	return err
}
