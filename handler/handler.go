package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"property-wizard/internal/domain"
	"property-wizard/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

type UseCase interface {
	Turn(ctx context.Context, in usecase.TurnInput) (usecase.TurnOutput, error)
	GetProperty(ctx context.Context, id string) (domain.Property, error)
}

type Handler struct {
	uc UseCase
}

type turnRequest struct {
	ConversationID string   `json:"conversationId"`
	History        []string `json:"history"`
	Input          string   `json:"input"`
}

type turnResponse struct {
	ConversationID string                   `json:"conversationId"`
	Step           int                      `json:"step"`
	TotalSteps     int                      `json:"totalSteps"`
	Completed      bool                     `json:"completed"`
	Transcript     []domain.TranscriptEntry `json:"transcript"`
	History        []string                 `json:"history"`
	Property       *domain.Property         `json:"property,omitempty"`
	Saved          bool                     `json:"saved"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func NewHandler(uc UseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

// Handle routes API Gateway proxy requests to the wizard use case.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	logger := slog.With("correlationId", corrID, "method", req.HTTPMethod, "path", req.Path)

	path := strings.TrimRight(req.Path, "/")
	switch {
	case req.HTTPMethod == http.MethodPost && path == "/wizard/start":
		return h.turn(ctx, logger, corrID, usecase.ActionStart, req.Body)
	case req.HTTPMethod == http.MethodPost && path == "/wizard/answer":
		return h.turn(ctx, logger, corrID, usecase.ActionAnswer, req.Body)
	case req.HTTPMethod == http.MethodPost && path == "/wizard/skip":
		return h.turn(ctx, logger, corrID, usecase.ActionSkip, req.Body)
	case req.HTTPMethod == http.MethodGet && strings.HasPrefix(path, "/properties/"):
		id := req.PathParameters["id"]
		if id == "" {
			id = strings.TrimPrefix(path, "/properties/")
		}
		return h.getProperty(ctx, logger, corrID, id)
	default:
		return jsonResponse(http.StatusNotFound, corrID, errorResponse{Error: "NOT_FOUND", Reason: "unknown_route"}), nil
	}
}

func (h *Handler) turn(ctx context.Context, logger *slog.Logger, corrID string, action usecase.TurnAction, body string) (events.APIGatewayProxyResponse, error) {
	var in turnRequest
	if strings.TrimSpace(body) != "" {
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			logger.Warn("invalid request body", "err", err)
			return jsonResponse(http.StatusBadRequest, corrID, errorResponse{Error: string(usecase.ErrorInvalidInput), Reason: "invalid_body"}), nil
		}
	}

	out, err := h.uc.Turn(ctx, usecase.TurnInput{
		Action:         action,
		ConversationID: in.ConversationID,
		History:        in.History,
		Input:          in.Input,
	})
	if err != nil {
		return errorToResponse(logger, corrID, err), nil
	}
	logger.Info("wizard turn", "action", action, "conversationId", out.ConversationID, "step", out.Step, "completed", out.Completed, "saved", out.Saved)

	history := out.History
	if history == nil {
		history = []string{}
	}
	return jsonResponse(http.StatusOK, corrID, turnResponse{
		ConversationID: out.ConversationID,
		Step:           out.Step,
		TotalSteps:     out.TotalSteps,
		Completed:      out.Completed,
		Transcript:     out.Transcript,
		History:        history,
		Property:       out.Property,
		Saved:          out.Saved,
	}), nil
}

func (h *Handler) getProperty(ctx context.Context, logger *slog.Logger, corrID, id string) (events.APIGatewayProxyResponse, error) {
	p, err := h.uc.GetProperty(ctx, id)
	if err != nil {
		return errorToResponse(logger, corrID, err), nil
	}
	return jsonResponse(http.StatusOK, corrID, p), nil
}

func errorToResponse(logger *slog.Logger, corrID string, err error) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		logger.Error("unexpected error", "err", err)
		return jsonResponse(http.StatusInternalServerError, corrID, errorResponse{Error: string(usecase.ErrorInternal)})
	}

	status := statusForCode(ucErr.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	} else {
		logger.Warn("request rejected", "code", ucErr.Code, "reason", ucErr.Reason)
	}
	return jsonResponse(status, corrID, errorResponse{Error: string(ucErr.Code), Reason: ucErr.Reason})
}

func statusForCode(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput, usecase.ErrorInvalidAnswer:
		return http.StatusBadRequest
	case usecase.ErrorNotFound:
		return http.StatusNotFound
	case usecase.ErrorConflict:
		return http.StatusConflict
	case usecase.ErrorRateLimited:
		return http.StatusTooManyRequests
	case usecase.ErrorUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func jsonResponse(status int, corrID string, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(body),
	}
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return uuid.NewString()
}
