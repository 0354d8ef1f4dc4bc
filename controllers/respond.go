package controllers

import (
	"net/http"

	"delivery-api/apperrors"

	"github.com/gin-gonic/gin"
)

// respondData writes the success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError maps a business error onto the error envelope. Unclassified
// errors become a generic 500 so storage details never leak to callers.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.From(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Something went wrong",
			},
		})
		return
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Resource != "" {
		body["resource"] = appErr.Resource
	}
	if appErr.ResourceID != "" {
		body["resource_id"] = appErr.ResourceID
	}

	c.JSON(apperrors.HTTPStatus(appErr), gin.H{
		"success": false,
		"error":   body,
	})
}

// respondUnauthorized writes the standard 401 envelope.
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract actor information",
		},
	})
}

// respondValidation writes a 400 with binding details.
func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}
