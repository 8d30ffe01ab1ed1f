package middleware

import (
	"net/http"

	"go-payguard/pkg/logging"

	"go.uber.org/zap"
)

type PanicRecovery struct {
	logger *logging.ZapLogger
}

func NewPanicRecovery(logger *logging.ZapLogger) *PanicRecovery {
	return &PanicRecovery{
		logger: logger,
	}
}

func (pr *PanicRecovery) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				pr.logger.ErrorCtx(r.Context(), "panic recovered", zap.Any("panic", rec))
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
