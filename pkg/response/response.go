package response

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"runtime"

	"adalert-srv/pkg/errors"
	"adalert-srv/pkg/slack"

	"github.com/gin-gonic/gin"
)

// OK sends 200 with data wrapped in the success envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{Message: MessageSuccess, Data: data})
}

// Error writes the response for err. Errors that are neither validation nor
// HTTP errors become a 500, and are reported to s when ops reporting is on.
func Error(c *gin.Context, err error, s slack.ISlack) {
	c.JSON(parseError(err, c, s))
}

// HttpError writes an *errors.HTTPError.
func HttpError(c *gin.Context, err *errors.HTTPError) {
	c.JSON(parseError(err, c, nil))
}

// PanicError writes the 500 response for a recovered panic value.
func PanicError(c *gin.Context, recovered any, s slack.ISlack) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	}
	Error(c, err, s)
}

func parseError(err error, c *gin.Context, s slack.ISlack) (int, Resp) {
	var (
		validationErr *errors.ValidationError
		collector     *errors.ValidationErrorCollector
		httpErr       *errors.HTTPError
	)
	switch {
	case stdErrors.As(err, &validationErr):
		return http.StatusBadRequest, Resp{ErrorCode: validationErr.Code, Message: validationErr.Error()}
	case stdErrors.As(err, &collector):
		return http.StatusBadRequest, Resp{
			ErrorCode: ValidationErrorCode,
			Message:   ValidationErrorMsg,
			Errors:    collector.Errors(),
		}
	case stdErrors.As(err, &httpErr):
		status := httpErr.StatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		return status, Resp{ErrorCode: httpErr.Code, Message: httpErr.Message}
	}

	if err != nil && s != nil && s.OpsEnabled() {
		sendReportAsync(s, buildInternalServerErrorDataForReportBug(c, err.Error(), captureStackTrace()))
	}
	return http.StatusInternalServerError, Resp{ErrorCode: InternalServerErrorCode, Message: DefaultErrorMessage}
}

func captureStackTrace() []string {
	var pcs [DefaultStackTraceDepth]uintptr
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	trace := make([]string, 0, n)
	for n > 0 {
		f, more := frames.Next()
		trace = append(trace, fmt.Sprintf("%s:%d %s", f.File, f.Line, f.Function))
		if !more {
			break
		}
	}
	return trace
}
