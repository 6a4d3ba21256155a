package middleware

import (
	"errors"
	"net/http"

	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type BadRequestErrorResponse struct {
	Message string            `json:"message"`
	Details []ValidationError `json:"details"`
}

func ValidateRequest(obj any) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	for _, err := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: getErrorMsg(err),
			Type:    err.Tag(),
		})
	}

	return validationErrors
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + err.Param()
	default:
		return "Invalid value"
	}
}

func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
		Message: "Invalid request data",
		Details: validationErrors,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}

// RespondWithDomainError maps a domain error to its HTTP status. Unknown
// errors stay opaque to the caller.
func RespondWithDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		RespondWithError(c, http.StatusConflict, "Username or email already registered")
	case errors.Is(err, domain.ErrUserNotFound):
		RespondWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrConfirmationNotFound):
		RespondWithError(c, http.StatusBadRequest, "No matching confirmation")
	case errors.Is(err, domain.ErrInvalidResetToken):
		RespondWithError(c, http.StatusUnauthorized, "Token expired or broken")
	case errors.Is(err, domain.ErrInvalidCredentials):
		RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
