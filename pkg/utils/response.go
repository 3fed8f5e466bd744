package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified API envelope.
type Response struct {
	Code int         `json:"code"`    // business code
	Data interface{} `json:"data"`    // payload
	Msg  string      `json:"message"` // human-readable message
}

// Pagination carries paging parameters.
type Pagination struct {
	Current int   `json:"current"` // current page
	Size    int   `json:"size"`    // page size
	Total   int64 `json:"total"`   // total records
}

// PageResult is a paginated payload.
type PageResult struct {
	Records interface{} `json:"records"`
	Pagination
}

// Predefined business codes.
const (
	SUCCESS          = 0
	ERROR            = -1
	UNAUTHORIZED     = 40100
	FORBIDDEN        = 40300
	NOT_FOUND        = 40400
	CONFLICT         = 40900
	VALIDATION_ERROR = 40001
)

// Default message per business code.
var codeMessages = map[int]string{
	SUCCESS:          "success",
	ERROR:            "operation failed",
	UNAUTHORIZED:     "unauthorized",
	FORBIDDEN:        "forbidden",
	NOT_FOUND:        "resource not found",
	CONFLICT:         "duplicate resource",
	VALIDATION_ERROR: "validation failed",
}

// Success writes a successful response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: SUCCESS,
		Data: data,
		Msg:  codeMessages[SUCCESS],
	})
}

// SuccessWithMessage writes a successful response with a custom message.
func SuccessWithMessage(c *gin.Context, data interface{}, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: SUCCESS,
		Data: data,
		Msg:  msg,
	})
}

// SuccessWithPage writes a paginated successful response.
func SuccessWithPage(c *gin.Context, records interface{}, current, size int, total int64) {
	pageResult := PageResult{
		Records: records,
		Pagination: Pagination{
			Current: current,
			Size:    size,
			Total:   total,
		},
	}

	c.JSON(http.StatusOK, Response{
		Code: SUCCESS,
		Data: pageResult,
		Msg:  codeMessages[SUCCESS],
	})
}

// Error writes an error response.
func Error(c *gin.Context, code int, msg string) {
	if msg == "" {
		msg = codeMessages[code]
	}
	c.JSON(getHttpStatus(code), Response{
		Code: code,
		Data: nil,
		Msg:  msg,
	})
}

// ErrorWithData writes an error response carrying extra data.
func ErrorWithData(c *gin.Context, code int, msg string, data interface{}) {
	c.JSON(getHttpStatus(code), Response{
		Code: code,
		Data: data,
		Msg:  msg,
	})
}

// getHttpStatus maps a business code onto an HTTP status.
func getHttpStatus(code int) int {
	switch code {
	case UNAUTHORIZED:
		return http.StatusUnauthorized
	case FORBIDDEN:
		return http.StatusForbidden
	case NOT_FOUND:
		return http.StatusNotFound
	case CONFLICT:
		return http.StatusConflict
	case VALIDATION_ERROR:
		return http.StatusBadRequest
	case ERROR:
		return http.StatusInternalServerError
	case SUCCESS:
		return http.StatusOK
	default:
		return http.StatusOK
	}
}
