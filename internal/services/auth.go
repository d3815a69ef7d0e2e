package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
)

const minPasswordLength = 8

// Principal is the caller a request runs as.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	TeamID    uuid.UUID
	Plan      models.Plan
	Anonymous bool
}

// Anonymous is the principal used when authentication is switched off.
func Anonymous(plan models.Plan) *Principal {
	return &Principal{Email: "anonymous", Plan: plan, Anonymous: true}
}

type tokenClaims struct {
	Email  string      `json:"email"`
	TeamID string      `json:"team_id"`
	Plan   models.Plan `json:"plan"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	ParseToken(token string) (*Principal, error)
}

type authService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepository, secret string, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Register creates a team on the requested plan with the user as its first member.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required: %w", apperrors.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, apperrors.ErrInvalidInput)
	}

	plan := req.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("unknown plan %q: %w", plan, apperrors.ErrInvalidInput)
	}

	teamName := strings.TrimSpace(req.TeamName)
	if teamName == "" {
		teamName = email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	team := &models.Team{Name: teamName, Plan: plan}
	if err := s.users.CreateWithTeam(ctx, user, team); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and issues a signed access token.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("incorrect email or password: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("incorrect email or password: %w", apperrors.ErrUnauthorized)
	}

	now := s.now()
	claims := tokenClaims{
		Email:  user.Email,
		TeamID: user.TeamID.String(),
		Plan:   user.Team.Plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
	}, nil
}

// ParseToken validates an HS256 token and returns the principal it carries.
func (s *authService) ParseToken(token string) (*Principal, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w: %v", apperrors.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", apperrors.ErrUnauthorized)
	}
	teamID, err := uuid.Parse(claims.TeamID)
	if err != nil {
		return nil, fmt.Errorf("invalid token team: %w", apperrors.ErrUnauthorized)
	}

	plan := claims.Plan
	if !plan.Valid() {
		plan = models.PlanFree
	}

	return &Principal{UserID: userID, Email: claims.Email, TeamID: teamID, Plan: plan}, nil
}
