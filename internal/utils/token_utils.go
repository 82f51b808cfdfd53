package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorTokenIssuer is the iss claim on tokens minted by IssueOperatorToken.
const OperatorTokenIssuer = "partsledger"

// ErrEmptyOperator is returned when a token would carry no operator name.
var ErrEmptyOperator = errors.New("operator name must not be empty")

// IssueOperatorToken signs an HS256 token whose subject is the operator name.
func IssueOperatorToken(operator string, secret string, ttl time.Duration) (string, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", ErrEmptyOperator
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    OperatorTokenIssuer,
		Subject:   operator,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseOperatorToken validates the signature and standard claims of tokenString
// and returns the operator it names.
func ParseOperatorToken(tokenString string, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrEmptyOperator
	}
	return claims.Subject, nil
}
