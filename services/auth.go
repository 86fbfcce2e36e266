package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/shared"
)

type AuthService struct {
	context.DefaultService

	sqlSvc   *SqlService
	jwtSvc   *JWTService
	emailSvc *EmailService
}

const AUTH_SVC = "auth_svc"

const resetCodeTTL = 15 * time.Minute

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	return nil
}

// Register creates the account plus its zero-valued stats row. Stats exist
// from registration onward so the progression engine never has to create
// them mid-completion.
func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	if _, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Email); err == nil {
		return nil, shared.NewConflictError(errors.New("email taken"), "Email is already registered")
	}
	if _, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Username); err == nil {
		return nil, shared.NewConflictError(errors.New("username taken"), "Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	userID, _ := uuid.NewV7()
	user := &model.User{
		ID:       userID.String(),
		Email:    req.Email,
		Username: req.Username,
		Password: string(hash),
		Role:     model.RoleUser,
	}

	statsID, _ := uuid.NewV7()
	stats := &model.UserStats{
		ID:     statsID.String(),
		UserID: user.ID,
	}

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(stats).Error
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate token")
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")

	return &dto.AuthResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Token:     tokens.AccessToken,
		ExpiresIn: tokens.ExpiresIn,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if err := svc.sqlSvc.TouchLastLogin(user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate token")
	}

	return &dto.AuthResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Token:     tokens.AccessToken,
		ExpiresIn: tokens.ExpiresIn,
	}, nil
}

// ForgotPassword issues a 6-digit reset code and mails it to the account's
// address. An unknown email reports success so the endpoint does not reveal
// which addresses are registered.
func (svc *AuthService) ForgotPassword(req dto.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Validation failed")
	}

	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("email", req.Email).Info("Password reset requested for unknown email")
			return nil
		}
		return svc.sqlSvc.HandleError(err)
	}

	code, err := generateResetCode()
	if err != nil {
		return shared.NewInternalError(err, "Failed to generate reset code")
	}

	expiresAt := time.Now().Add(resetCodeTTL)
	if err := svc.sqlSvc.CreatePasswordResetCode(user.ID, code, expiresAt); err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	if err := svc.emailSvc.SendPasswordResetEmail(user.Email, user.Username, code); err != nil {
		return shared.NewInternalError(err, "Failed to send reset email")
	}

	log.WithField("user_id", user.ID).Info("Password reset code issued")
	return nil
}

// ResetPassword exchanges a valid code for a new password. The code is
// burned in the same transaction as the password write.
func (svc *AuthService) ResetPassword(req dto.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Validation failed")
	}

	resetCode, err := svc.sqlSvc.GetPasswordResetCode(req.Code)
	if err != nil {
		return shared.NewBadRequestError(errors.New("code not found"), "Invalid or expired reset code")
	}
	if time.Now().After(resetCode.ExpiresAt) {
		return shared.NewBadRequestError(errors.New("code expired"), "Invalid or expired reset code")
	}

	user, err := svc.sqlSvc.GetUserByID(resetCode.UserID)
	if err != nil || !strings.EqualFold(user.Email, req.Email) {
		return shared.NewBadRequestError(errors.New("code does not match email"), "Invalid or expired reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewInternalError(err, "Failed to hash password")
	}

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("password", string(hash)).Error
		if err != nil {
			return err
		}
		return svc.sqlSvc.InvalidatePasswordResetCode(tx, req.Code)
	})
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	log.WithField("user_id", user.ID).Info("Password reset completed")
	return nil
}

// generateResetCode draws a uniform 6-digit code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequiredAuth guards a route group; it stores the verified user id in
// request locals under shared.UserID.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
		if err != nil {
			return shared.ResponseUnauthorized(c, err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseUnauthorized(c, "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseUnauthorized(c, "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// RequireRole layers a role check on top of RequiredAuth.
func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(shared.UserID).(string)
		if !ok || userID == "" {
			return shared.ResponseUnauthorized(c, "Authentication required")
		}

		user, err := svc.sqlSvc.GetUserByID(userID)
		if err != nil {
			return shared.ResponseUnauthorized(c, "User not found")
		}

		if user.Role != role {
			return shared.ResponseJSON(c, fiber.StatusForbidden, "Forbidden",
				fmt.Sprintf("Requires %s role", role))
		}

		return c.Next()
	}
}
