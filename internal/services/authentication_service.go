package services

import (
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/rs/zerolog/log"
)

type AuthenticationService struct {
	secret     []byte
	expiration time.Duration
}

func NewAuthenticationService(config *configs.Config) *AuthenticationService {
	return &AuthenticationService{
		secret:     config.JwtKey(),
		expiration: config.JwtExpiration(),
	}
}

// IssueToken signs a handshake token for userId.
func (as *AuthenticationService) IssueToken(userId string, username string) (string, error) {
	return as.issue(userId, username, "")
}

// IssueServiceToken signs a token that may also call the event injection API.
func (as *AuthenticationService) IssueServiceToken(userId string, username string) (string, error) {
	return as.issue(userId, username, enums.TOKEN_SCOPE_SERVICE)
}

func (as *AuthenticationService) issue(userId string, username string, scope string) (string, error) {
	if userId == "" {
		return "", errs.ErrInvalidUser
	}
	return utils.CreateJwtToken(userId, username, scope, as.secret, time.Now().Add(as.expiration))
}

// Authenticate verifies a raw or "Bearer "-prefixed token.
func (as *AuthenticationService) Authenticate(token string) (*models.Claims, error) {
	token = utils.ExtractBearerToken(token)
	if token == "" {
		return nil, errs.ErrUnauthorized
	}
	claims, err := utils.VerifyToken(token, as.secret)
	if err != nil {
		log.Debug().Str("module", "services.auth").Err(err).Msg("token rejected")
		return nil, errs.ErrInvalidToken
	}
	if claims.Username == "" {
		claims.Username = claims.UserID
	}
	return claims, nil
}
