package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/erpconsole/internal/app/models"
)

// Confirmation token errors
var (
	ErrInvalidToken = errors.New("invalid confirmation token")
	ErrExpiredToken = errors.New("confirmation token expired")
	ErrWrongRecord  = errors.New("confirmation token belongs to another record")
)

// ConfirmConfig defines confirmation token settings
type ConfirmConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// ConfirmTokenService signs the pending domain update that waits for the
// user to acknowledge its impact. Nothing is written to the backend until
// the token comes back.
type ConfirmTokenService struct {
	config ConfirmConfig
	now    func() time.Time
}

// NewConfirmTokenService creates a new confirmation token service
func NewConfirmTokenService(config ConfirmConfig) *ConfirmTokenService {
	return &ConfirmTokenService{
		config: config,
		now:    time.Now,
	}
}

// PendingClaims carries a domain update parked in the confirmation state.
type PendingClaims struct {
	DomainID     int64                `json:"domainId"`
	Payload      models.DomainRequest `json:"payload"`
	Affected     int64                `json:"affected"`
	Message      string               `json:"message,omitempty"`
	SubmissionID string               `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a pending update for domainID.
func (s *ConfirmTokenService) Issue(domainID int64, payload models.DomainRequest, impact *models.UpdateImpact, submissionID string) (string, error) {
	now := s.now()

	claims := &PendingClaims{
		DomainID:     domainID,
		Payload:      payload,
		SubmissionID: submissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(domainID, 10),
			ID:        uuid.New().String(),
		},
	}
	if impact != nil {
		claims.Affected = impact.AffectedStudentsCount
		claims.Message = impact.Message
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign confirmation token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and that the token targets domainID.
func (s *ConfirmTokenService) Verify(tokenString string, domainID int64) (*PendingClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &PendingClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.config.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*PendingClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.DomainID != domainID {
		return nil, ErrWrongRecord
	}

	return claims, nil
}

// Impact rebuilds the impact that was shown when the token was issued.
func (c *PendingClaims) Impact() *models.UpdateImpact {
	return &models.UpdateImpact{
		DomainID:              c.DomainID,
		AffectedStudentsCount: c.Affected,
		Message:               c.Message,
	}
}
