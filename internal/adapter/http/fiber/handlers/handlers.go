// Package handlers holds the Fiber handlers. They parse and validate request
// bodies, call a service and either write the success body or return the
// error to middleware.ErrorHandler.
package handlers

import "github.com/gofiber/fiber/v2"

var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
