package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/mailer"
	"github.com/whatsons/members-api/middleware"
	"github.com/whatsons/members-api/models"
	"github.com/whatsons/members-api/storage"
	"github.com/whatsons/members-api/utils"
)

type AuthController struct {
	store storage.Store
	cfg   *config.Config
	log   zerolog.Logger
	mail  mailer.Mailer
}

func NewAuthController(store storage.Store, cfg *config.Config, log zerolog.Logger, mail mailer.Mailer) *AuthController {
	return &AuthController{store: store, cfg: cfg, log: log, mail: mail}
}

type RegisterReq struct {
	Username   string  `json:"username" binding:"required,min=3"`
	Password   string  `json:"password" binding:"required,min=6"`
	FirstName  string  `json:"firstName" binding:"required"`
	LastName   string  `json:"lastName" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      string  `json:"phone" binding:"required,min=10"`
	City       string  `json:"city" binding:"required"`
	Occupation string  `json:"occupation" binding:"required"`
	Instagram  *string `json:"instagram"`
}

// POST /api/register
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user data", "error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	user := models.User{
		Username:   req.Username,
		Password:   hash,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		City:       req.City,
		Occupation: req.Occupation,
		Instagram:  req.Instagram,
	}

	if err := ac.store.CreateUser(&user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
		ac.log.Error().Err(err).Msg("create user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create account"})
		return
	}

	if err := ac.openSession(c, &user); err != nil {
		ac.log.Error().Err(err).Msg("open session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create session"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid login data", "error": err.Error()})
		return
	}

	user, err := ac.store.GetUserByUsername(req.Username)
	if err != nil || !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	// An approved account that was later deactivated cannot log in.
	if user.IsApproved && !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Account is inactive, please contact an administrator"})
		return
	}

	if err := ac.openSession(c, user); err != nil {
		ac.log.Error().Err(err).Msg("open session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// POST /api/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if token, err := c.Cookie(ac.cfg.Session.CookieName); err == nil && token != "" {
		ac.store.DeleteSession(token)
	}
	ac.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /api/user
func (ac *AuthController) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, u)
}

type ForgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/forgot-password
//
// Responds 200 whether or not the email is registered, so the endpoint
// cannot be used to probe for accounts.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email", "error": err.Error()})
		return
	}

	resp := gin.H{"message": "If the account exists, a reset link has been sent"}

	user, err := ac.store.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	token, err := utils.GenerateResetToken(user.ID, ac.cfg.Auth.ResetTokenSecret, ac.cfg.Auth.ResetTokenTTL)
	if err != nil {
		ac.log.Error().Err(err).Msg("generate reset token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create reset token"})
		return
	}

	expiry := time.Now().Add(ac.cfg.Auth.ResetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := ac.store.UpdateUser(user); err != nil {
		ac.log.Error().Err(err).Msg("store reset token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create reset token"})
		return
	}

	if err := ac.mail.SendPasswordReset(user.Email, token); err != nil {
		ac.log.Error().Err(err).Msg("send reset mail failed")
	}

	c.JSON(http.StatusOK, resp)
}

type ResetPasswordReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /api/reset-password
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reset data", "error": err.Error()})
		return
	}

	if _, err := utils.VerifyResetToken(req.Token, ac.cfg.Auth.ResetTokenSecret); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	// The stored copy enforces single use and the persisted expiry.
	user, err := ac.store.GetUserByResetToken(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	user.Password = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := ac.store.UpdateUser(user); err != nil {
		ac.log.Error().Err(err).Msg("reset password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (ac *AuthController) openSession(c *gin.Context, user *models.User) error {
	token, err := utils.NewSessionToken()
	if err != nil {
		return err
	}
	sess := models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ac.cfg.Session.TTL),
	}
	if err := ac.store.CreateSession(&sess); err != nil {
		return err
	}

	c.SetCookie(
		ac.cfg.Session.CookieName,
		token,
		int(ac.cfg.Session.TTL.Seconds()),
		"/",
		"",
		ac.cfg.Session.SecureCookie,
		true,
	)
	return nil
}

func (ac *AuthController) clearCookie(c *gin.Context) {
	c.SetCookie(ac.cfg.Session.CookieName, "", -1, "/", "", ac.cfg.Session.SecureCookie, true)
}
