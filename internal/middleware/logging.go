package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

// SetLogger задаёт логгер для мидлварей.
func SetLogger(l *zap.SugaredLogger) {
	logger = l
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.data.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.data.status = statusCode
}

// WithLogging пишет в лог метод, путь, статус, размер ответа и длительность запроса.
// Тело запроса и ответа не логируется.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{status: http.StatusOK}
		next.ServeHTTP(&loggingResponseWriter{ResponseWriter: w, data: data}, r)

		if logger == nil {
			return
		}
		logger.Infow("request",
			"method", r.Method,
			"uri", redactPath(r.URL.Path),
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}

const verifyPrefix = "/api/user/verify/"

// redactPath скрывает токен подтверждения в пути.
func redactPath(path string) string {
	if strings.HasPrefix(path, verifyPrefix) && path != verifyPrefix+"resend" {
		return verifyPrefix + "***"
	}
	return path
}
