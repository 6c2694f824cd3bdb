package api

import (
	"github.com/gin-gonic/gin"
)

// Mã lỗi máy đọc được, ổn định giữa các phiên bản API.
const (
	ErrorCodeNonPositive         = "NON_POSITIVE"
	ErrorCodeNotLower            = "NOT_LOWER"
	ErrorCodeOriginNotFound      = "ORIGIN_COUNTRY_OR_CITY_NOT_FOUND"
	ErrorCodeDestinationNotFound = "DESTINATION_COUNTRY_OR_CITY_NOT_FOUND"
)

// RejectionResponse is the structured client error for expected business
// rejections: a stable machine-readable code, the offending field and the
// value that was rejected.
type RejectionResponse struct {
	ErrorCode     string `json:"error_code"`
	Field         string `json:"field"`
	OriginalValue string `json:"original_value"`
	Message       string `json:"message"`
}

func rejectionResponse(errorCode, field, originalValue, message string) RejectionResponse {
	return RejectionResponse{
		ErrorCode:     errorCode,
		Field:         field,
		OriginalValue: originalValue,
		Message:       message,
	}
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
