package users

import (
	"context"
	"time"
)

type Repo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, offset, limit int) (UsersListResponse, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}

type UsersListResponse struct {
	Users  []*User `json:"users"`
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// Page applies offset/limit to an already sorted slice.
func Page(all []*User, offset, limit int) UsersListResponse {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = len(all)
	}
	resp := UsersListResponse{Users: []*User{}, Total: len(all), Offset: offset, Limit: limit}
	if offset >= len(all) {
		return resp
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	resp.Users = all[offset:end]
	return resp
}
