package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// User is the administrative view of an account.
type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Nickname        string `json:"nickname"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Avatar          string `json:"avatar,omitempty"`
	Status          int    `json:"status"`
	StatusText      string `json:"statusText"`
	CreateTime      string `json:"createTime"`
	UpdateTime      string `json:"updateTime"`
	Roles           []Role `json:"roles,omitempty"`
	HighestRoleCode string `json:"highestRoleCode,omitempty"`
}

// Role is a role definition as managed by administrators.
type Role struct {
	ID          int64  `json:"id"`
	RoleName    string `json:"roleName"`
	RoleCode    string `json:"roleCode"`
	Description string `json:"description,omitempty"`
	Status      int    `json:"status"`
}

// UserQuery filters the paged user listing. Zero values are omitted.
type UserQuery struct {
	Username string
	Nickname string
	Email    string
	Status   *int
	PageNum  int
	PageSize int
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Username != "" {
		v.Set("username", q.Username)
	}
	if q.Nickname != "" {
		v.Set("nickname", q.Nickname)
	}
	if q.Email != "" {
		v.Set("email", q.Email)
	}
	if q.Status != nil {
		v.Set("status", strconv.Itoa(*q.Status))
	}
	if q.PageNum > 0 {
		v.Set("pageNum", strconv.Itoa(q.PageNum))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

// UserCreateRequest creates an account on behalf of an administrator.
type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	RoleIDs  string `json:"roleIds,omitempty"`
	Status   *int   `json:"status,omitempty"`
}

// UserUpdateRequest updates an existing account.
type UserUpdateRequest struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	RoleIDs  string `json:"roleIds,omitempty"`
	Status   *int   `json:"status,omitempty"`
}

// ResetPasswordRequest sets a new password for an account.
type ResetPasswordRequest struct {
	ID          int64  `json:"id"`
	NewPassword string `json:"newPassword"`
}

// UserPage queries the paged user listing.
func (c *Client) UserPage(ctx context.Context, query UserQuery) (*Page[User], error) {
	var page Page[User]
	if err := c.get(ctx, "/sys/user/page", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserDetail fetches a single account.
func (c *Client) UserDetail(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.get(ctx, fmt.Sprintf("/sys/user/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, req UserCreateRequest) error {
	return c.post(ctx, "/sys/user", req, nil)
}

// UpdateUser updates an account.
func (c *Client) UpdateUser(ctx context.Context, req UserUpdateRequest) error {
	return c.put(ctx, "/sys/user", req, nil)
}

// DeleteUser deletes a single account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/sys/user/%d", id), nil, nil)
}

// BatchDeleteUsers deletes several accounts at once.
func (c *Client) BatchDeleteUsers(ctx context.Context, ids []int64) error {
	return c.del(ctx, "/sys/user/batch", ids, nil)
}

// EnableUser re-enables a disabled account.
func (c *Client) EnableUser(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("/sys/user/%d/enable", id), nil, nil)
}

// DisableUser disables an account.
func (c *Client) DisableUser(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("/sys/user/%d/disable", id), nil, nil)
}

// ResetPassword sets a new password for an account.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.put(ctx, "/sys/user/reset-password", req, nil)
}

// RoleList fetches all assignable roles.
func (c *Client) RoleList(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.get(ctx, "/sys/user/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
