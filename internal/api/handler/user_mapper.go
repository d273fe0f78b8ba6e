package handler

import "github.com/99minutos/users-api/internal/core/domain"

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toUserListResponse(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

func toDeletedUserResponse(d *domain.DeletedUser) deletedUserResponse {
	return deletedUserResponse{
		ID:    d.ID,
		Email: d.Email,
		Name:  d.Name,
		Role:  string(d.Role),
	}
}
