package shopapi

import (
	"context"
	"net/url"
)

type User struct {
	ID             int64  `json:"id,omitempty"`
	Username       string `json:"username" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	RewardPoints   int64  `json:"rewardPoints"`
	MembershipTier string `json:"membershipTier"`
	Password       string `json:"password,omitempty"`
}

type UserService struct {
	*Resource[User]
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*User, error) {
	return s.getAt(ctx, "/username/"+url.PathEscape(username))
}
