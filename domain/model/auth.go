package model

import "github.com/golang-jwt/jwt"

// AdminClaims is the JWT payload issued to the admin dashboard.
type AdminClaims struct {
	jwt.StandardClaims
	UserName string `json:"user_name"`
}

// ReqLogin is the admin login request body.
type ReqLogin struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}
