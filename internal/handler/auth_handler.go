package handler

import (
	"net/http"
	"strconv"

	"github.com/AlePlets/otasoft-auth/internal/cqrs"
	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/AlePlets/otasoft-auth/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AccountCommander defines the write-side operations used by AuthHandler.
type AccountCommander interface {
	SignUp(cqrs.SignUpCommand) (*domain.User, error)
	ChangePassword(cqrs.ChangePasswordCommand) (string, error)
	SetNewPassword(cqrs.SetNewPasswordCommand) (string, error)
	ConfirmAccount(cqrs.ConfirmAccountCommand) error
	DeleteAccount(cqrs.DeleteAccountCommand) (string, error)
	RemoveRefreshToken(cqrs.RemoveRefreshTokenCommand) error
	ForgotPassword(cqrs.ForgotPasswordCommand) (string, error)
}

// AccountQuerier defines the read-side operations used by AuthHandler.
type AccountQuerier interface {
	GetAuthID(cqrs.GetAuthIDQuery) (int64, error)
	ValidateCredentials(cqrs.ValidateCredentialsQuery) (string, error)
	GetRefreshUser(cqrs.GetRefreshUserQuery) (*domain.User, error)
}

// AuthHandler is the RPC façade: it binds inbound messages to command or
// query structs and shapes the responses.
type AuthHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewAuthHandler(commands AccountCommander, queries AccountQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ValidateCredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GetAuthIDRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username"`
}

type ChangePasswordRequest struct {
	UserID      int64  `json:"userId" validate:"required"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type ConfirmAccountRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SetNewPasswordRequest struct {
	ForgotPasswordToken string `json:"forgotPasswordToken" validate:"required"`
	NewPassword         string `json:"newPassword" validate:"required,min=8"`
}

type GetRefreshUserRequest struct {
	UserID       int64  `json:"userId" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type StringResponse struct {
	Response string `json:"response"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.SignUp(cqrs.SignUpCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ValidateCredentials deliberately soft-fails: a wrong password and an
// unknown username both return {"username": null} with HTTP 200 so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) ValidateCredentials(c *gin.Context) {
	var req ValidateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	username, err := h.queries.ValidateCredentials(cqrs.ValidateCredentialsQuery{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	if username == "" {
		c.JSON(http.StatusOK, gin.H{"username": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func (h *AuthHandler) GetAuthID(c *gin.Context) {
	var req GetAuthIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	if req.Email == "" && req.Username == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "Either email or username is required")
		return
	}

	authID, err := h.queries.GetAuthID(cqrs.GetAuthIDQuery{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_id": authID})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	response, err := h.commands.ChangePassword(cqrs.ChangePasswordCommand{
		UserID:      req.UserID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StringResponse{Response: response})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	response, err := h.commands.DeleteAccount(cqrs.DeleteAccountCommand{UserID: userID})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StringResponse{Response: response})
}

func (h *AuthHandler) ConfirmAccount(c *gin.Context) {
	var req ConfirmAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if err := h.commands.ConfirmAccount(cqrs.ConfirmAccountCommand{
		Email: req.Email,
		Code:  req.Code,
	}); err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ForgotPassword answers 200 with an empty body for unregistered emails:
// the caller cannot tell whether the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.commands.ForgotPassword(cqrs.ForgotPasswordCommand{Email: req.Email})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	if token == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"forgotPasswordToken": token})
}

func (h *AuthHandler) SetNewPassword(c *gin.Context) {
	var req SetNewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	response, err := h.commands.SetNewPassword(cqrs.SetNewPasswordCommand{
		ForgotPasswordToken: req.ForgotPasswordToken,
		NewPassword:         req.NewPassword,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StringResponse{Response: response})
}

func (h *AuthHandler) RemoveRefreshToken(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	if err := h.commands.RemoveRefreshToken(cqrs.RemoveRefreshTokenCommand{UserID: userID}); err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) GetRefreshUser(c *gin.Context) {
	var req GetRefreshUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.queries.GetRefreshUser(cqrs.GetRefreshUserQuery{
		UserID:       req.UserID,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// RegisterRoutes wires the auth surface onto the router group.
func (h *AuthHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/signup", h.SignUp)
	v1.POST("/validate", h.ValidateCredentials)
	v1.POST("/id", h.GetAuthID)
	v1.PATCH("/password", h.ChangePassword)
	v1.DELETE("/account/:id", h.DeleteAccount)
	v1.POST("/confirm", h.ConfirmAccount)
	v1.POST("/forgot-password", h.ForgotPassword)
	v1.POST("/password/reset", h.SetNewPassword)
	v1.DELETE("/refresh-token/:id", h.RemoveRefreshToken)
	v1.POST("/refresh-user", h.GetRefreshUser)
}
