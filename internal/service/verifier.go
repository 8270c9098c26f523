package service

import (
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/jwt"
)

// jwtVerifier adapts the shared JWT manager to the TokenVerifier
// interface used by the coordinator.
type jwtVerifier struct {
	manager *jwt.Manager
}

func NewJWTVerifier(m *jwt.Manager) TokenVerifier {
	return &jwtVerifier{manager: m}
}

func (v *jwtVerifier) Verify(token string) (string, string, error) {
	claims, err := v.manager.Validate(token)
	if err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Name, nil
}
