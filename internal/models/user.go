package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     *string   `db:"full_name" json:"fullName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

type Membership struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	OrganizationID uuid.UUID      `db:"organization_id" json:"organizationId"`
	UserID         uuid.UUID      `db:"user_id" json:"userId"`
	Role           MembershipRole `db:"role" json:"role"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// UserOrganization is the caller's first membership with its organization.
type UserOrganization struct {
	Organization Organization   `json:"organization"`
	Role         MembershipRole `json:"role"`
}

type Claims struct {
	jwt.RegisteredClaims
	Email          string `json:"email"`
	OrganizationID string `json:"orgId,omitempty"`
	Role           string `json:"role,omitempty"`
}

type RegisterRequest struct {
	Email            string  `json:"email" binding:"required,email"`
	Password         string  `json:"password" binding:"required,min=8"`
	FullName         *string `json:"fullName" binding:"omitempty,min=1"`
	OrganizationName *string `json:"organizationName" binding:"omitempty,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
