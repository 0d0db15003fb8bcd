package http

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FatihZee/tele-bot/domain/dto"
	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/infrastructure/configuration"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/infrastructure/utils"
)

const (
	ErrorUnmarshal = "Error while unmarshal"

	tokenTTL = 24 * time.Hour
)

type IAuthHandler interface {
	Login(c *gin.Context)
}

type AuthHandler struct {
	app configuration.App
}

func NewAuthHandler(app configuration.App) IAuthHandler {
	return &AuthHandler{app: app}
}

// Login exchanges the configured admin credentials for a bearer token.
// app.adminPassword holds the md5 hex digest of the password, never the
// plain text.
func (authHandler *AuthHandler) Login(c *gin.Context) {
	var req model.ReqLogin

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	var res dto.Res
	if authHandler.app.AdminUser == "" || authHandler.app.AdminPassword == "" {
		res.ResponseCode = "401"
		res.ResponseMessage = "Admin login is not configured"
		c.JSON(http.StatusUnauthorized, res)
		return
	}

	digest := fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	if req.UserName != authHandler.app.AdminUser || digest != authHandler.app.AdminPassword {
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid credentials"
		c.JSON(http.StatusUnauthorized, res)
		return
	}

	token, err := utils.GenerateToken(req.UserName, authHandler.app.SecretKey, tokenTTL)
	if err != nil {
		res.ResponseCode = "500"
		res.ResponseMessage = "Error while generating token"
		c.JSON(http.StatusInternalServerError, res)
		return
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = map[string]string{"token": token}
	c.JSON(http.StatusOK, res)
}
