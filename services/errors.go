package services

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies domain failures. Handlers map kinds to HTTP status
// codes; the services never retry or suppress them.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindInvalidState
	KindConflict
	KindStoreUnavailable
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func notFound(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: msg}
}

func invalidState(msg string) *ServiceError {
	return &ServiceError{Kind: KindInvalidState, Message: msg}
}

func conflict(msg string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: msg}
}

func storeErr(err error) *ServiceError {
	return &ServiceError{Kind: KindStoreUnavailable, Message: "store unavailable: " + err.Error()}
}

// respondError writes a domain error in the API's wire shape.
func respondError(c *fiber.Ctx, err error) error {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		switch serviceErr.Kind {
		case KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": serviceErr.Message})
		case KindInvalidState, KindConflict:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": serviceErr.Message})
		case KindStoreUnavailable:
			log.Printf("❌ [STORE] %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
		}
	}
	log.Printf("❌ [ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
