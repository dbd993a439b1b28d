package handler

// Owner-facing building management. All routes using this handler sit
// behind JWTAuth and RequireRole(OWNER); ownership of individual rows is
// enforced in the repository layer.

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/repository"
)

// OwnerHandler bundles the repositories behind the owner surface.
type OwnerHandler struct {
	Cfg       config.Config
	Buildings *repository.BuildingRepo
	Rooms     *repository.RoomRepo
}

func NewOwnerHandler(cfg config.Config, b *repository.BuildingRepo, r *repository.RoomRepo) *OwnerHandler {
	return &OwnerHandler{Cfg: cfg, Buildings: b, Rooms: r}
}

type buildingReq struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

func (r buildingReq) complete() bool {
	return strings.TrimSpace(r.Name) != "" && strings.TrimSpace(r.Street) != "" &&
		strings.TrimSpace(r.City) != "" && strings.TrimSpace(r.State) != "" &&
		strings.TrimSpace(r.PostalCode) != ""
}

// repoError translates repository sentinels into HTTP responses.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": echo.Map{"kind": "NOT_FOUND", "message": "not found"}})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": echo.Map{"kind": "FORBIDDEN", "message": "not the owner of this resource"}})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": echo.Map{"kind": "CONFLICT", "message": "conflicting state"}})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": echo.Map{"kind": "INTERNAL", "message": "internal error"}})
}

func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// CreateBuilding registers a new building under the calling owner.
func (h *OwnerHandler) CreateBuilding(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	var req buildingReq
	if err := c.Bind(&req); err != nil || !req.complete() {
		return badRequest(c, "name and full address required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b := &model.Building{
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(req.Name),
		Street:     strings.TrimSpace(req.Street),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		PostalCode: strings.TrimSpace(req.PostalCode),
	}
	if err := h.Buildings.Create(ctx, b); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"building": b})
}

// ListBuildings lists the caller's buildings.
func (h *OwnerHandler) ListBuildings(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Buildings.ListByOwner(ctx, ownerID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"buildings": list})
}

// UpdateBuilding updates name/address of an owned building.
func (h *OwnerHandler) UpdateBuilding(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid building id")
	}
	var req buildingReq
	if err := c.Bind(&req); err != nil || !req.complete() {
		return badRequest(c, "name and full address required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Buildings.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return repoError(c, err)
	}
	b := &model.Building{
		ID: id, OwnerID: ownerID,
		Name:       strings.TrimSpace(req.Name),
		Street:     strings.TrimSpace(req.Street),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		PostalCode: strings.TrimSpace(req.PostalCode),
	}
	if err := h.Buildings.Update(ctx, b); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"building": b})
}

// DeleteBuilding removes an owned building with no rooms.
func (h *OwnerHandler) DeleteBuilding(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid building id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Buildings.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return repoError(c, err)
	}
	if err := h.Buildings.Delete(ctx, id, ownerID); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
