package middleware

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v3"

	"greenjobs/internal/pkg/response"
)

func TestNormalizeErrorAppError(t *testing.T) {
	status, msg, data := normalizeError(NewAppError(fiber.StatusUnprocessableEntity, "id is required", nil, nil))
	if status != fiber.StatusUnprocessableEntity || msg != "id is required" || data != nil {
		t.Fatalf("got %d %q %v", status, msg, data)
	}
}

func TestNormalizeErrorMasksInternal(t *testing.T) {
	status, msg, _ := normalizeError(NewAppError(502, "upstream broke: secret host", nil, nil))
	if status != fiber.StatusInternalServerError || msg != response.MessageInternalServerError {
		t.Fatalf("got %d %q, want masked 500", status, msg)
	}
}

func TestNormalizeErrorServiceUnavailablePassesThrough(t *testing.T) {
	status, msg, _ := normalizeError(NewAppError(fiber.StatusServiceUnavailable, "model service unavailable", nil, nil))
	if status != fiber.StatusServiceUnavailable || msg != "model service unavailable" {
		t.Fatalf("got %d %q", status, msg)
	}
}

func TestNormalizeErrorFiberError(t *testing.T) {
	status, msg, _ := normalizeError(fiber.NewError(fiber.StatusNotFound))
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if msg == "" {
		t.Fatalf("message should not be empty")
	}
}

func TestNormalizeErrorUnknown(t *testing.T) {
	status, msg, _ := normalizeError(errors.New("db exploded"))
	if status != fiber.StatusInternalServerError || msg != response.MessageInternalServerError {
		t.Fatalf("got %d %q", status, msg)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := NewAppError(fiber.StatusBadRequest, "bad request", nil, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if err.Error() != "bad request: root" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
