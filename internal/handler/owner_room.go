package handler

// Owner-facing room management plus the shared status endpoint used by
// owners and field technicians.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roomhive/room-rental-api/internal/middleware"
	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/repository"
)

type roomReq struct {
	Number    string `json:"number"`
	Capacity  uint32 `json:"capacity"`
	RentCents uint64 `json:"rent_cents"`
}

type roomStatusReq struct {
	Status string `json:"status"`
}

// CreateRoom adds a room to an owned building.
func (h *OwnerHandler) CreateRoom(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	buildingID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid building id")
	}
	var req roomReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Number) == "" || req.Capacity == 0 || req.RentCents == 0 {
		return badRequest(c, "number, capacity and rent_cents required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Buildings.GetByIDAndOwner(ctx, buildingID, ownerID); err != nil {
		return repoError(c, err)
	}
	rm := &model.Room{
		BuildingID: buildingID,
		Number:     strings.TrimSpace(req.Number),
		Capacity:   req.Capacity,
		RentCents:  req.RentCents,
		Status:     model.RoomAvailable,
	}
	if err := h.Rooms.Create(ctx, rm); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"room": rm})
}

// ListRooms lists every room of an owned building, regardless of status.
func (h *OwnerHandler) ListRooms(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	buildingID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid building id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Buildings.GetByIDAndOwner(ctx, buildingID, ownerID); err != nil {
		return repoError(c, err)
	}
	rooms, err := h.Rooms.ListByBuilding(ctx, buildingID, false)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// UpdateRoom updates number/capacity/rent of a room in an owned building.
func (h *OwnerHandler) UpdateRoom(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req roomReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Number) == "" || req.Capacity == 0 || req.RentCents == 0 {
		return badRequest(c, "number, capacity and rent_cents required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	owner, err := h.Rooms.OwnerOf(ctx, roomID)
	if err != nil {
		return repoError(c, err)
	}
	if owner != ownerID {
		return repoError(c, repository.ErrForbidden)
	}
	rm := &model.Room{
		ID:        roomID,
		Number:    strings.TrimSpace(req.Number),
		Capacity:  req.Capacity,
		RentCents: req.RentCents,
	}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		return repoError(c, err)
	}
	out, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room": out})
}

// DeleteRoom removes a room from an owned building.
func (h *OwnerHandler) DeleteRoom(c echo.Context) error {
	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	owner, err := h.Rooms.OwnerOf(ctx, roomID)
	if err != nil {
		return repoError(c, err)
	}
	if owner != ownerID {
		return repoError(c, repository.ErrForbidden)
	}
	if err := h.Rooms.Delete(ctx, roomID); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetRoomStatus changes a room's status. OWNER callers must own the
// parent building; TECHNICIAN callers may update any room, since they
// are dispatched across properties.
func (h *OwnerHandler) SetRoomStatus(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": echo.Map{"kind": "UNAUTHORIZED", "message": "authentication required"}})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req roomStatusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidRoomStatus(status) {
		return badRequest(c, "status must be AVAILABLE, OCCUPIED or MAINTENANCE")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	role, _ := c.Get(middleware.CtxRole).(string)
	if role == model.RoleOwner {
		owner, err := h.Rooms.OwnerOf(ctx, roomID)
		if err != nil {
			return repoError(c, err)
		}
		if owner != id {
			return repoError(c, repository.ErrForbidden)
		}
	}
	if err := h.Rooms.SetStatus(ctx, roomID, status); err != nil {
		return repoError(c, err)
	}
	out, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room": out})
}
