package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/team-sheet/internal/platform/logging"
	"github.com/riskibarqy/team-sheet/internal/usecase"
)

const maxCSVBodyBytes = 1 << 20

type Handler struct {
	teamService *usecase.TeamService
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(teamService *usecase.TeamService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	// Field errors report the JSON name the client sent.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Handler{
		teamService: teamService,
		logger:      logger,
		validator:   validate,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %w", usecase.ErrInvalidInput, err)
	}

	return nil
}

func readTextBody(r *http.Request) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCSVBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxCSVBodyBytes {
		return "", fmt.Errorf("%w: body exceeds %d bytes", usecase.ErrInvalidInput, maxCSVBodyBytes)
	}
	return string(raw), nil
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}
