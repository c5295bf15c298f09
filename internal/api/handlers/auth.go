package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/services"
	"github.com/each4all/shinchon-saessaks-sub000/internal/utils"
)

type AuthHandler struct {
	sessions *services.SessionService
	db       *gorm.DB
	logger   *zap.Logger
}

func NewAuthHandler(sessions *services.SessionService, db *gorm.DB, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		db:       db,
		logger:   logger.With(zap.String("handler", "auth")),
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	var user models.User
	if res := ah.db.Where("username = ?", req.Username).First(&user); res.Error != nil {
		ah.logger.Warn("login with unknown username", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if ok, err := utils.VerifyPassword(user.PasswordHash, req.Password); !ok || err != nil {
		ah.logger.Warn("login with invalid password", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if user.Status != models.UserActive {
		ah.logger.Warn("login on non-active account", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is not active"})
		return
	}

	token, err := ah.sessions.IssueToken(user.ID)
	if err != nil {
		ah.logger.Error("could not issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ah.db.Model(&user).Update("last_login", time.Now())
	c.SetCookie("session_token", token, int(ah.sessions.TTL().Seconds()), "/", "", false, true)

	ah.logger.Info("user logged in",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "role": user.Role})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie("session_token"); err == nil {
		if userID, verr := ah.sessions.ValidateToken(token); verr == nil {
			ah.logger.Info("user logged out",
				zap.Uint("user_id", userID),
				zap.String("ip", c.ClientIP()))
		}
	}

	c.SetCookie("session_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
