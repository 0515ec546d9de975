package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "gorm.io/gorm"
  "golang.org/x/crypto/bcrypt"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/doorflow/doorflow-backend/internal/apierr"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/repos"
  "github.com/doorflow/doorflow-backend/internal/requestdata"
  "github.com/doorflow/doorflow-backend/internal/types"
)

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (string, string, error)
  RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  if user == nil {
    return apierr.Validation("No user given, cannot proceed with registration")
  }
  user.Email = strings.ToLower(strings.TrimSpace(user.Email))
  if user.Email == "" {
    return apierr.Validation("An email is required to register")
  }
  if user.Password == "" {
    return apierr.Validation("A password is required to register")
  }
  if user.Role == "" {
    user.Role = types.RoleField
  }
  if user.Role != types.RoleAdmin && user.Role != types.RoleField {
    return apierr.Validation("Unknown role %q", user.Role)
  }

  exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return apierr.Internal(fmt.Errorf("Failed to check user email: %w", err))
  }
  if exists {
    return apierr.Conflict("Email is already in use")
  }

  hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return apierr.Internal(fmt.Errorf("Failed to hash password: %w", err))
  }
  user.Password = string(hashed)

  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user.ID = uuid.New()
    if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to create user: %w", err))
    }
    as.log.Info("User registered", "user_id", user.ID, "role", user.Role)
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  if email == "" || password == "" {
    return "", "", apierr.Validation("Email and password are required to login")
  }

  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return "", "", apierr.Internal(fmt.Errorf("Error retrieving user by email: %w", err))
  }
  if len(users) == 0 {
    return "", "", apierr.New(401, "unauthorized", fmt.Errorf("Invalid email or password"))
  }
  user := users[0]
  if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
    return "", "", apierr.New(401, "unauthorized", fmt.Errorf("Invalid email or password"))
  }

  var accessToken, refreshToken string
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to clear previous tokens: %w", err))
    }
    refreshToken = uuid.New().String()
    token := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to store refresh token: %w", err))
    }
    accessToken, err = as.generateAccessToken(user)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to generate access token: %w", err))
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
  if refreshToken == "" {
    return "", "", apierr.Validation("A refresh token is required")
  }
  stored, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
  if err != nil {
    return "", "", apierr.Internal(fmt.Errorf("Failed to look up refresh token: %w", err))
  }
  if stored == nil || stored.ExpiresAt.Before(time.Now()) {
    return "", "", apierr.New(401, "unauthorized", fmt.Errorf("Refresh token is invalid or expired"))
  }

  users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{stored.UserID})
  if err != nil || len(users) == 0 {
    return "", "", apierr.New(401, "unauthorized", fmt.Errorf("User for refresh token no longer exists"))
  }
  user := users[0]

  var accessToken, newRefreshToken string
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to rotate refresh token: %w", err))
    }
    newRefreshToken = uuid.New().String()
    token := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      RefreshToken: newRefreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
      return apierr.Internal(fmt.Errorf("Failed to store rotated refresh token: %w", err))
    }
    accessToken, err = as.generateAccessToken(user)
    if err != nil {
      return apierr.Internal(fmt.Errorf("Failed to generate access token: %w", err))
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return apierr.Forbidden("No authenticated user to log out")
  }
  if err := as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
    return apierr.Internal(fmt.Errorf("Failed to delete refresh tokens: %w", err))
  }
  return nil
}

// SetContextFromToken validates the access token and stamps the request
// identity (user, role, truck) onto the context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("Unexpected signing method: %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return ctx, fmt.Errorf("Invalid or expired token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return ctx, fmt.Errorf("Invalid token claims")
  }

  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return ctx, fmt.Errorf("Invalid subject claim")
  }
  role, _ := claims["role"].(string)
  truck, _ := claims["truck"].(string)

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Role:        role,
    Truck:       truck,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "sub":   user.ID.String(),
    "role":  user.Role,
    "truck": user.Truck,
    "iat":   now.Unix(),
    "exp":   now.Add(as.accessTTL).Unix(),
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}
