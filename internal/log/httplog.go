package log

import (
	"time"
)

// HTTPRequest describes one served HTTP request.
type HTTPRequest struct {
	RequestID  string
	Method     string
	Path       string
	Status     int
	Duration   time.Duration
	Size       int
	RemoteAddr string
	UserAgent  string
	Err        error
}

// LogHTTPRequest writes a request log line. Server errors are logged at
// error level, everything else at info.
func LogHTTPRequest(r HTTPRequest) {
	fields := []interface{}{
		"request_id", r.RequestID,
		"method", r.Method,
		"path", r.Path,
		"status", r.Status,
		"duration_ms", r.Duration.Milliseconds(),
		"size", r.Size,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent,
	}

	if r.Err != nil || r.Status >= 500 {
		if r.Err != nil {
			fields = append(fields, "error", r.Err.Error())
		}
		Errorw("http request", fields...)
		return
	}
	Infow("http request", fields...)
}
