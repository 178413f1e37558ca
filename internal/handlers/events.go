package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/internal/middleware"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/internal/services"
	"github.com/volunteerhub/backend/pkg/utils"
)

type EventsHandler struct {
	Events *services.EventService
	Upload config.UploadConfig
}

func NewEventsHandler(events *services.EventService, upload config.UploadConfig) *EventsHandler {
	return &EventsHandler{Events: events, Upload: upload}
}

type createEventRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Date        string `json:"date" form:"date"`
	Location    string `json:"location" form:"location"`
	Status      string `json:"status" form:"status"`
}

type updateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

func (h *EventsHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	page, err := h.Events.List(c.UserContext(), p)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Paginated(c, "events fetched successfully", page.Events, p.Page, p.Limit, page.Total)
}

func (h *EventsHandler) ListByOwner(c *fiber.Ctx) error {
	ownerID, err := parseUUID(c.Params("ownerId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid owner id")
	}
	p := utils.ParsePagination(c)

	page, err := h.Events.ListByOwner(c.UserContext(), ownerID, p)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Paginated(c, "events fetched successfully", page.Events, p.Page, p.Limit, page.Total)
}

func (h *EventsHandler) Get(c *fiber.Ctx) error {
	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := h.Events.Get(c.UserContext(), eventID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "event fetched successfully", event)
}

func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req createEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	images, err := saveUploads(c, "images", models.MaxEventImages, h.Upload)
	if err != nil {
		return utils.Fail(c, err)
	}

	event, err := h.Events.Create(c.UserContext(), middleware.GetCaller(c), services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Status:      req.Status,
		ImagePaths:  images,
	})
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, "event created successfully", event)
}

func (h *EventsHandler) Update(c *fiber.Ctx) error {
	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var input services.UpdateEventInput
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid multipart form")
		}
		input.Title = formValue(form, "title")
		input.Description = formValue(form, "description")
		input.Date = formValue(form, "date")
		input.Location = formValue(form, "location")
		input.Status = formValue(form, "status")
	} else if len(c.Body()) > 0 {
		var req updateEventRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
		input.Title = req.Title
		input.Description = req.Description
		input.Date = req.Date
		input.Location = req.Location
		input.Status = req.Status
	}

	images, err := saveUploads(c, "images", models.MaxEventImages, h.Upload)
	if err != nil {
		return utils.Fail(c, err)
	}
	input.ImagePaths = images

	event, err := h.Events.Update(c.UserContext(), middleware.GetCaller(c), eventID, input)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "event updated successfully", event)
}

func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	if err := h.Events.Delete(c.UserContext(), middleware.GetCaller(c), eventID); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "event deleted successfully", nil)
}

func (h *EventsHandler) Register(c *fiber.Ctx) error {
	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := h.Events.Register(c.UserContext(), middleware.GetCaller(c), eventID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "registered for event successfully", event)
}
