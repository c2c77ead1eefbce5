package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims carried by a session bearer token.
// Handlers only use them to look the live user row back up; account
// status is never trusted from the token itself.
type TokenClaims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
