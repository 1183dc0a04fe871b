package service

import (
	"time"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
)

func toUserSummary(u *model.User) *dto.UserSummary {
	if u == nil {
		return nil
	}
	return &dto.UserSummary{
		ID:       u.AuthID,
		Name:     u.Name,
		Username: u.Username,
		Image:    u.ImageURL,
	}
}

func toUserSummaries(users []model.User) []dto.UserSummary {
	out := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, *toUserSummary(&users[i]))
	}
	return out
}

func toCommunitySummary(c *model.Community) *dto.CommunitySummary {
	if c == nil {
		return nil
	}
	return &dto.CommunitySummary{
		ID:    c.ExternalID,
		Name:  c.Name,
		Image: c.ImageURL,
	}
}

// authIDs flattens like lists down to external user ids, which is all the
// clients need to render a like state.
func authIDs(users []model.User) []string {
	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].AuthID)
	}
	return ids
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
