package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/FatihZee/tele-bot/domain/dto"
	"github.com/FatihZee/tele-bot/domain/model"
)

// Auth guards the admin API. It expects an "Authorization: Bearer <token>"
// header carrying an HS256 token signed with secretKey.
func Auth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var res dto.Res
		res.ResponseCode = "401"
		res.ResponseMessage = "Unauthorized"

		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		auth := strings.Split(authorization, "Bearer ")
		if len(auth) != 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		adminClaims, token, err := getClaims(auth[1], secretKey)
		if err != nil || token == nil || !token.Valid {
			if msg := describeTokenError(err); msg != "" {
				res.ResponseMessage = msg
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		ctx.Set("user_name", adminClaims.UserName)
		ctx.Next()
	}
}

func describeTokenError(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
		return fmt.Sprintf("Couldn't handle this token:%v", err)
	}
	return ""
}

func getClaims(tokenString, secretKey string) (model.AdminClaims, *jwt.Token, error) {
	var adminClaims model.AdminClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&adminClaims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
	)
	return adminClaims, token, err
}
