// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public browsing API: unauthenticated
// callers can list buildings and their available rooms. Owner identifiers
// are filtered out of the responses.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/repository"
)

// PublicHandler serves the guest browse surface.
type PublicHandler struct {
	Buildings *repository.BuildingRepo
	Rooms     *repository.RoomRepo
}

func NewPublicHandler(b *repository.BuildingRepo, r *repository.RoomRepo) *PublicHandler {
	return &PublicHandler{Buildings: b, Rooms: r}
}

// publicBuilding is the sanitized building shape returned to guests.
type publicBuilding struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

func sanitizeBuilding(b model.Building) publicBuilding {
	return publicBuilding{ID: b.ID, Name: b.Name, City: b.City, State: b.State, PostalCode: b.PostalCode}
}

// ListBuildings returns every building, sanitized.
func (h *PublicHandler) ListBuildings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Buildings.ListAll(ctx)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]publicBuilding, 0, len(list))
	for _, b := range list {
		out = append(out, sanitizeBuilding(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"buildings": out})
}

// ListAvailableRooms returns the AVAILABLE rooms of a building.
func (h *PublicHandler) ListAvailableRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid building id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Buildings.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	rooms, err := h.Rooms.ListByBuilding(ctx, id, true)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}
