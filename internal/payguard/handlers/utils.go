package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go-payguard/internal/payguard/service"
	"go-payguard/pkg/logging"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&out)
	return out, err //nolint:wrapcheck // unnecessary
}

func usernameFromCtx(ctx context.Context) (string, bool) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false
	}
	username, ok := claims[service.UsernameClaimName].(string)
	return username, ok && username != ""
}

func tryWriteResponseJSON(w http.ResponseWriter, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err //nolint:wrapcheck // unnecessary
	}
	w.Header().Add("Content-Type", "application/json")
	_, err = w.Write(res)
	return err //nolint:wrapcheck // unnecessary
}
