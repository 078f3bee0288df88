package security

import "github.com/golang-jwt/jwt/v5"

const RoleOperator = "operator"

type RequestClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
