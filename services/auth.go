package services

import (
	"errors"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/shared"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService guards routes with the identity provider's JWT and provisions
// the directory row for a user id the first time it is seen.
type AuthService struct {
	context.DefaultService

	pgSvc  *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.pgSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if err := svc.ensureUser(userID); err != nil {
			return shared.ResponseInternalError(c, err)
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

func (svc *AuthService) ensureUser(userID string) error {
	var user model.User
	err := svc.pgSvc.Db().Where("id = ?", userID).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	user = model.User{
		ID:        userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.pgSvc.Db().Create(&user).Error; err != nil {
		// A concurrent request may have created it first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	log.WithField("user_id", userID).Info("Provisioned new user")
	return nil
}
