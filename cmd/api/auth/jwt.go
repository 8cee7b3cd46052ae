package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleUser = "user"

const (
	defaultIssuer = "research-chat"
	defaultTTL    = 24 * time.Hour
)

var errMissingSubject = errors.New("token missing sub claim")

// Claims 의 Subject 가 채팅 세션 소유자(user id)가 된다.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager 는 HS256 단일 시크릿으로 JWT 를 발급/검증한다.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager 는 config 의 auth 섹션 값으로 JWTManager 를 생성한다.
// issuer 가 비어 있으면 "research-chat" 을 사용한다.
func NewJWTManager(secret, issuer string) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    defaultTTL,
		now:    time.Now,
	}, nil
}

// Sign 은 userID 를 sub 로 하는 토큰을 발급한다.
func (m *JWTManager) Sign(userID, role string) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse 는 서명, 만료, issuer 를 검증하고 (sub, role) 을 반환한다.
func (m *JWTManager) Parse(tokenString string) (string, string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", "", err
	}
	if claims.Subject == "" {
		return "", "", errMissingSubject
	}
	return claims.Subject, claims.Role, nil
}
