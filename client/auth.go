package client

import (
	"context"
	"net/http"
	"strings"
)

// AuthUser is the account payload returned by signin/signup.
type AuthUser struct {
	PK       int64                  `json:"pk"`
	UserType string                 `json:"user_type"`
	MetaData map[string]interface{} `json:"meta_data"`
}

// SignUpInput collects the fields for account creation.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
	Vehicle  int64  `json:"vehicle,omitempty"`
}

// SignUp registers a new account. It does not sign the user in.
func (c *Client) SignUp(ctx context.Context, input SignUpInput) (*AuthUser, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, &APIError{Message: "email and password are required"}
	}

	var resp struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    AuthUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/signup/", nil, input, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}
	return &resp.User, nil
}

// SignIn authenticates and stores the token pair and user in the session
// store.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthUser, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Tokens  struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
		User AuthUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/signin/", nil, payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}

	err := c.session.Set(map[string]interface{}{
		KeyAccessToken:  resp.Tokens.Access,
		KeyRefreshToken: resp.Tokens.Refresh,
		KeyUser:         resp.User,
	})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CurrentUser returns the signed-in user from the session store, if any.
func (c *Client) CurrentUser() (*AuthUser, bool) {
	var user AuthUser
	if !c.session.Get(KeyUser, &user) {
		return nil, false
	}
	return &user, true
}

// SignOut clears all session credentials and locally cached read results. The
// stored location is kept.
func (c *Client) SignOut() {
	c.session.Clear()
	c.mu.Lock()
	c.fresh = make(map[string]freshEntry)
	c.mu.Unlock()
}
