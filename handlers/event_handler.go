package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"careerhub/models"
	"careerhub/services"
)

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required"`
	Category    string     `json:"category" validate:"omitempty,max=100"`
	Location    string     `json:"location" validate:"required,max=200"`
	StartsAt    time.Time  `json:"startsAt" validate:"required"`
	EndsAt      *time.Time `json:"endsAt"`
}

// CreateEvent publishes a career event. Route is gated to approved
// mentors and admins.
func CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Organizer:   c.Locals("uid").(string),
	}

	if err := services.CreateEvent(c.Context(), event); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetEvent returns a single event
func GetEvent(c *fiber.Ctx) error {
	event, err := services.GetEvent(c.Context(), c.Params("eventID"))
	if err != nil {
		return err
	}
	return c.JSON(event)
}

type UpdateEventRequest struct {
	Title       string     `json:"title" validate:"omitempty,min=3,max=200"`
	Description string     `json:"description"`
	Category    string     `json:"category" validate:"omitempty,max=100"`
	Location    string     `json:"location" validate:"omitempty,max=200"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

// UpdateEvent partially updates an event. Only the organizer or an admin
// may modify it.
func UpdateEvent(c *fiber.Ctx) error {
	var req UpdateEventRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	if err := requireEventOwnership(c); err != nil {
		return err
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Category != "" {
		update["category"] = req.Category
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.StartsAt != nil {
		update["starts_at"] = req.StartsAt
	}
	if req.EndsAt != nil {
		update["ends_at"] = req.EndsAt
	}

	event, err := services.UpdateEvent(c.Context(), c.Params("eventID"), update)
	if err != nil {
		return err
	}

	return c.JSON(event)
}

// DeleteEvent removes an event. Only the organizer or an admin may
// delete it.
func DeleteEvent(c *fiber.Ctx) error {
	if err := requireEventOwnership(c); err != nil {
		return err
	}

	if err := services.DeleteEvent(c.Context(), c.Params("eventID")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true})
}

func requireEventOwnership(c *fiber.Ctx) error {
	if c.Locals("role") == models.RoleAdmin {
		return nil
	}
	event, err := services.GetEvent(c.Context(), c.Params("eventID"))
	if err != nil {
		return err
	}
	if event.Organizer != c.Locals("uid") {
		return fiber.NewError(fiber.StatusForbidden, "not the organizer of this event")
	}
	return nil
}

// ListEvents returns a filtered page of events with a cursor for the
// next page
func ListEvents(c *fiber.Ctx) error {
	filter := services.EventFilter{
		Category: c.Query("category"),
		Upcoming: c.QueryBool("upcoming"),
	}

	events, nextCursor, err := services.ListEvents(c.Context(), filter, c.QueryInt("limit"), c.Query("cursor"))
	if err != nil {
		return err
	}

	resp := fiber.Map{"events": events}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	}
	return c.JSON(resp)
}
