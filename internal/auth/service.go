package auth

import (
	"context"
	"errors"
	"time"

	"github.com/TomasGoldb/juntifyBack/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 24 * time.Hour

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{secret: []byte(secret), db: db}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Profile, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return Profile{}, TokenResponse{}, errors.New("email, username, password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, TokenResponse{}, err
	}

	profile := Profile{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		AvatarURL:    req.AvatarURL,
		PasswordHash: string(hash),
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO profiles (id, email, username, display_name, avatar_url, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, profile.ID, profile.Email, profile.Username, profile.DisplayName, profile.AvatarURL, profile.PasswordHash)
	if err := row.Scan(&profile.CreatedAt); err != nil {
		return Profile{}, TokenResponse{}, err
	}

	tokens, err := s.issueToken(profile.ID)
	if err != nil {
		return Profile{}, TokenResponse{}, err
	}
	return profile, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Profile, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, display_name, avatar_url, password_hash, created_at
		FROM profiles WHERE email=$1
	`, req.Email)

	var profile Profile
	if err := row.Scan(&profile.ID, &profile.Email, &profile.Username, &profile.DisplayName,
		&profile.AvatarURL, &profile.PasswordHash, &profile.CreatedAt); err != nil {
		return Profile{}, TokenResponse{}, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return Profile{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.issueToken(profile.ID)
	if err != nil {
		return Profile{}, TokenResponse{}, err
	}
	return profile, tokens, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) issueToken(userID string) (TokenResponse, error) {
	signed, err := s.signToken(userID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
