package auth

import (
	"context"
	"time"

	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// TokenExpiry is how long JWT tokens are valid.
const TokenExpiry = 7 * 24 * time.Hour

// Identity is the authenticated principal stored in the request context. For
// students, Username is the student identifier.
type Identity struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Name     *string `json:"name,omitempty"`
}

// JWTClaims represents the claims in a JWT token.
type JWTClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles authentication operations.
type Service struct {
	db        *bun.DB
	jwtSecret []byte
}

// NewService creates a new auth service.
func NewService(db *bun.DB, jwtSecret string) *Service {
	return &Service{
		db:        db,
		jwtSecret: []byte(jwtSecret),
	}
}

// Authenticate validates credentials and returns the matching identity. A
// student identifier is tried first, then a staff username, mirroring the
// single login form the frontend presents to both roles.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	student := &models.Student{}
	err := s.db.NewSelect().
		Model(student).
		Where("s.student_id = ?", username).
		Scan(ctx)
	if err == nil {
		if !CheckPassword(password, student.PasswordHash) {
			return nil, errcodes.Unauthorized("Invalid username or password")
		}
		return &Identity{
			ID:       student.ID,
			Username: student.StudentID,
			Role:     models.RoleStudent,
			Name:     &student.Name,
		}, nil
	}

	user := &models.User{}
	err = s.db.NewSelect().
		Model(user).
		Where("u.username = ? COLLATE NOCASE", username).
		Where("u.role = ?", models.RoleLibrarian).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.Unauthorized("Invalid username or password")
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, errcodes.Unauthorized("Invalid username or password")
	}

	return &Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
	}, nil
}

// GenerateToken creates a new JWT token for the identity.
func (s *Service) GenerateToken(ident *Identity) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:   ident.ID,
		Username: ident.Username,
		Role:     ident.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Lookup re-resolves the identity behind a set of claims, confirming the
// account still exists.
func (s *Service) Lookup(ctx context.Context, claims *JWTClaims) (*Identity, error) {
	if claims.Role == models.RoleStudent {
		student := &models.Student{}
		err := s.db.NewSelect().
			Model(student).
			Where("s.id = ?", claims.UserID).
			Scan(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &Identity{
			ID:       student.ID,
			Username: student.StudentID,
			Role:     models.RoleStudent,
			Name:     &student.Name,
		}, nil
	}

	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", claims.UserID).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
	}, nil
}
