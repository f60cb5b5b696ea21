package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/http/fiber/middleware"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type UserHandler struct {
	locations   ports.LocationService
	credentials ports.CredentialStore
	log         *zap.Logger
}

func NewUserHandler(locations ports.LocationService, credentials ports.CredentialStore, log *zap.Logger) *UserHandler {
	return &UserHandler{
		locations:   locations,
		credentials: credentials,
		log:         log,
	}
}

// AddLocationRequest is the body of POST /user/profile/update. EmailID may
// name the account to change; it defaults to the caller.
type AddLocationRequest struct {
	EmailID     string    `json:"emailId"`
	Name        string    `json:"name"`
	Coordinates []float64 `json:"coordinates"`
	AddressNo   *int      `json:"addressNo"`
	ZonalNo     *int      `json:"zonalNo"`
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Welcome " + user.EmailID})
}

func (h *UserHandler) AddLocation(c *fiber.Ctx) error {
	principal, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req AddLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	target, err := h.resolveTarget(c, principal, req.EmailID)
	if err != nil {
		return err
	}

	user, err := h.locations.AddLocation(c.UserContext(), target.ID, domain.Location{
		Name:        req.Name,
		Coordinates: req.Coordinates,
		AddressNo:   req.AddressNo,
		ZonalNo:     req.ZonalNo,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Location added successfully",
		"user":    user,
	})
}

func (h *UserHandler) ListLocations(c *fiber.Ctx) error {
	principal, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	locs, err := h.locations.ListLocations(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"locations": locs})
}

func (h *UserHandler) UpdateLocation(c *fiber.Ctx) error {
	principal, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	name, err := locationName(c)
	if err != nil {
		return err
	}

	// A bodiless PATCH changes nothing, like {}.
	var patch domain.LocationPatch
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&patch); err != nil {
			return errInvalidBody
		}
	}

	user, err := h.locations.UpdateLocation(c.UserContext(), principal.ID, name, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Location updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) RemoveLocation(c *fiber.Ctx) error {
	principal, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	name, err := locationName(c)
	if err != nil {
		return err
	}

	user, err := h.locations.RemoveLocation(c.UserContext(), principal.ID, name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Location removed successfully",
		"user":    user,
	})
}

// resolveTarget returns the account named by emailID, or the principal when
// emailID is empty. An unknown email is reported before the permission check.
func (h *UserHandler) resolveTarget(c *fiber.Ctx, principal *domain.User, emailID string) (*domain.User, error) {
	if emailID == "" || domain.NormalizeEmail(emailID) == principal.EmailID {
		return principal, nil
	}

	target, err := h.credentials.FindByEmail(c.UserContext(), emailID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if !principal.CanActFor(target) {
		h.log.Warn("location change for another account rejected",
			zap.String("principal_id", principal.ID),
			zap.String("target_id", target.ID),
		)
		return nil, domain.ErrActOnOtherAccount
	}
	return target, nil
}

// locationName returns the unescaped :name param. Params alias the request
// buffer, so the value is copied before it outlives the handler.
func locationName(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(utils.CopyString(c.Params("name")))
	if err != nil || name == "" {
		return "", domain.NewValidationError("name", "is required")
	}
	return name, nil
}
