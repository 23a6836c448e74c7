package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/emilythestrangee/askseniors/backend/internal/auth"
	"github.com/emilythestrangee/askseniors/backend/internal/config"
	"github.com/emilythestrangee/askseniors/backend/internal/mail"
	"github.com/emilythestrangee/askseniors/backend/internal/middleware"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	issuer *auth.Issuer
	mailer mail.Mailer
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, issuer *auth.Issuer, mailer mail.Mailer, clock clockwork.Clock, logger *slog.Logger) *AuthHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{db: db, cfg: cfg, issuer: issuer, mailer: mailer, clock: clock, logger: logger}
}

// roleFieldsError reports the first profile field the role requires but
// the request left empty.
func roleFieldsError(in models.RegisterRequest) string {
	switch in.Role {
	case models.RoleStudent:
		if in.RegNo == "" || in.CurrentYear == "" || in.BranchOfStudy == "" {
			return "Students must provide regNo, currentYear and branchOfStudy"
		}
	case models.RoleAlumni:
		if in.GraduationYear == "" || in.BranchOfStudy == "" {
			return "Alumni must provide graduationYear and branchOfStudy"
		}
	case models.RoleFaculty:
		if in.BranchOfStudy == "" {
			return "Faculty must provide branchOfStudy"
		}
	}
	return ""
}

// Register creates a disabled account and mails its activation link.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if !h.cfg.EmailAllowed(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please use your university mail id"})
		return
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := roleFieldsError(input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	db := h.db.WithContext(c.Request.Context())

	// Check if username or email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("username = ? OR email = ?", input.Username, input.Email).Count(&count).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
		return
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	user := models.User{
		Username:       input.Username,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Password:       hashed,
		Role:           input.Role,
		PhoneNumber:    input.PhoneNumber,
		GithubLink:     input.GithubLink,
		Linkedin:       input.Linkedin,
		Portfolio:      input.Portfolio,
		RegNo:          input.RegNo,
		YearOfStudy:    input.CurrentYear,
		BranchOfStudy:  input.BranchOfStudy,
		GraduationYear: input.GraduationYear,
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
			return
		}
		serverError(c, h.logger, err)
		return
	}

	// Registration succeeds even when the mail cannot be sent; the user
	// can ask for a new link.
	if err := h.sendActivation(c, &user); err != nil {
		h.logger.WarnContext(c.Request.Context(), "activation mail not sent", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Check your email to activate your account.",
		"user": gin.H{
			"_id":      user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).
		First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, h.logger, err)
		return
	}
	if err != nil || !auth.CheckPassword(user.Password, input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.Enabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account not activated. Check your email for the activation link."})
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AuthCookie, token, int(h.issuer.TTL().Seconds()), "/", "", h.cfg.SecureCookies, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"token":   token,
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", h.cfg.SecureCookies, true)
	c.JSON(http.StatusAccepted, gin.H{"message": "Logged out successfully"})
}

// CurrentUser returns the authenticated user's profile.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Activate enables the account holding an unexpired activation token.
func (h *AuthHandler) Activate(c *gin.Context) {
	user, ok := h.userByToken(c, c.Param("token"))
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Model(&user).Updates(map[string]any{
		"enabled":                    true,
		"verification_token":         nil,
		"verification_token_expires": nil,
	}).Error
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account activated successfully"})
}

// ResendActivation mails a fresh activation link.
func (h *AuthHandler) ResendActivation(c *gin.Context) {
	user, ok := h.userByEmail(c)
	if !ok {
		return
	}

	if user.Enabled {
		c.JSON(http.StatusOK, gin.H{"message": "Account is already activated"})
		return
	}

	if err := h.sendActivation(c, &user); err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Activation link sent to " + user.Email})
}

// ForgotPassword mails a password reset link.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	user, ok := h.userByEmail(c)
	if !ok {
		return
	}

	link, err := h.issueVerificationToken(c, &user, "/reset-password/")
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	msg, err := mail.PasswordResetMessage(user.Email, user.FirstName, link)
	if err == nil {
		err = h.mailer.Send(c.Request.Context(), msg)
	}
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to " + user.Email})
}

// SetPassword consumes a reset token and stores the new password.
func (h *AuthHandler) SetPassword(c *gin.Context) {
	var input models.SetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := auth.ValidatePassword(input.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.userByToken(c, input.Token)
	if !ok {
		return
	}

	hashed, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	err = h.db.WithContext(c.Request.Context()).Model(&user).Updates(map[string]any{
		"password":                   hashed,
		"verification_token":         nil,
		"verification_token_expires": nil,
	}).Error
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// ChangePassword replaces the password of the authenticated user.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if input.NewPassword != input.ReEnterPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
		return
	}
	if err := auth.ValidatePassword(input.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, h.logger, err)
		return
	}

	if !auth.CheckPassword(user.Password, input.CurrentPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	if err := db.Model(&user).Update("password", hashed).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// userByEmail binds an EmailRequest and loads its user, writing the error
// response itself when it returns false.
func (h *AuthHandler) userByEmail(c *gin.Context) (models.User, bool) {
	var input models.EmailRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.User{}, false
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found with email: " + email})
			return models.User{}, false
		}
		serverError(c, h.logger, err)
		return models.User{}, false
	}
	return user, true
}

// userByToken loads the user holding an unexpired verification token.
func (h *AuthHandler) userByToken(c *gin.Context, token string) (models.User, bool) {
	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("verification_token = ? AND verification_token_expires > ?", token, h.clock.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "The link is invalid or has expired"})
			return models.User{}, false
		}
		serverError(c, h.logger, err)
		return models.User{}, false
	}
	return user, true
}

func (h *AuthHandler) sendActivation(c *gin.Context, user *models.User) error {
	link, err := h.issueVerificationToken(c, user, "/api/v1/auth/activate/")
	if err != nil {
		return err
	}
	msg, err := mail.ActivationMessage(user.Email, user.FirstName, link)
	if err != nil {
		return err
	}
	return h.mailer.Send(c.Request.Context(), msg)
}

// issueVerificationToken stores a fresh token on user and returns the link
// that redeems it. Reset links point at the frontend page that collects the
// new password and PUTs it to /auth/set-password.
func (h *AuthHandler) issueVerificationToken(c *gin.Context, user *models.User, path string) (string, error) {
	token, expires := auth.NewVerificationToken(h.clock.Now(), h.cfg.VerificationTTL)
	err := h.db.WithContext(c.Request.Context()).Model(user).Updates(map[string]any{
		"verification_token":         token,
		"verification_token_expires": expires,
	}).Error
	if err != nil {
		return "", err
	}
	return h.baseURL(c) + path + token, nil
}

// baseURL is PUBLIC_BASE_URL when configured, else the scheme and host the
// request came in on.
func (h *AuthHandler) baseURL(c *gin.Context) string {
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimRight(h.cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
