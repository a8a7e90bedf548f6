// FILE: othello/internal/server/http/validator.go
package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"othello/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localBody      = "validatedBody"
	localValidated = "validated"
)

var validate = validator.New()

// bodyRoute maps a method and path suffix to the request type it carries
type bodyRoute struct {
	method string
	suffix string
	body   func() any
}

var bodyRoutes = []bodyRoute{
	{fiber.MethodPost, "/games", func() any { return &core.CreateGameRequest{} }},
	{fiber.MethodPut, "/players", func() any { return &core.ConfigurePlayersRequest{} }},
	{fiber.MethodPost, "/moves", func() any { return &core.MoveRequest{} }},
	{fiber.MethodPost, "/undo", func() any { return &core.UndoRequest{} }},
	{fiber.MethodPost, "/redo", func() any { return &core.RedoRequest{} }},
}

// validationMiddleware parses and validates the JSON body of mutating game
// routes, leaving the result in the validatedBody local
func validationMiddleware(c *fiber.Ctx) error {
	method, path := c.Method(), c.Path()

	var body any
	for _, r := range bodyRoutes {
		if r.method == method && strings.HasSuffix(path, r.suffix) {
			body = r.body()
			break
		}
	}
	if body == nil {
		return c.Next()
	}

	if !parseBody(c, body) {
		return nil
	}

	c.Locals(localBody, body)
	c.Locals(localValidated, true)
	return c.Next()
}

// parseBody decodes and validates the request body into dst. On failure it
// writes a 400 response and returns false.
func parseBody(c *fiber.Ctx, dst any) bool {
	if err := c.BodyParser(dst); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
		return false
	}

	err := validate.Struct(dst)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	details := err.Error()
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describe(fe))
		}
		details = strings.Join(msgs, "; ")
	}

	c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "validation failed",
		Code:    core.ErrInvalidRequest,
		Details: details,
	})
	return false
}

// describe turns one failed tag into a readable message
func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "len":
		return fmt.Sprintf("%s must be exactly %s%s", field, param, unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "email":
		return field + " must be a valid email address"
	case "username":
		return field + " must be 1-40 letters, digits or underscores"
	case "password":
		return field + " must contain at least one letter and one number"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
