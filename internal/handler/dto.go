package handler

import (
	"time"

	"github.com/msomdec/college-chatbot/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          string  `json:"id"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	CollegeURL  string  `json:"collegeUrl"`
	PhoneNumber string  `json:"phoneNumber"`
	IsVerified  bool    `json:"isVerified"`
	CreatedAt   string  `json:"createdAt"`
	LastLoginAt *string `json:"lastLogin"`
}

func toUserDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		CollegeURL:  u.CollegeURL,
		PhoneNumber: u.PhoneNumber,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.Format(time.RFC3339)
		dto.LastLoginAt = &s
	}
	return dto
}

// SessionDTO is the JSON representation of a session.
type SessionDTO struct {
	SessionID    string `json:"sessionId"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	LoginTime    string `json:"loginTime"`
	LastActivity string `json:"lastActivity"`
}

func toSessionDTO(s *domain.Session) SessionDTO {
	return SessionDTO{
		SessionID:    s.ID,
		UserID:       s.UserID,
		Email:        s.Email,
		FullName:     s.FullName,
		LoginTime:    s.LoginTime.Format(time.RFC3339),
		LastActivity: s.LastActivityAt.Format(time.RFC3339),
	}
}
