package handler

import (
	"time"

	"client-gate/internal/domain"
)

type userResponse struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	ClientID  int64    `json:"client_id"`
	Roles     []string `json:"roles"`
}

type tenantResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ClientID:  u.TenantID,
		Roles:     roles,
	}
}

// newTenantResponse returns nil for a nil tenant so it encodes as JSON null.
func newTenantResponse(t *domain.TenantContext) *tenantResponse {
	if t == nil {
		return nil
	}
	return &tenantResponse{ID: t.ID, Name: t.Name, Email: t.Email}
}

func expiresIn(at time.Time) int64 {
	secs := int64(time.Until(at).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
