package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"careerhub/models"
	"careerhub/services"
)

type CreateTipRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"omitempty,max=100"`
}

// CreateTip publishes a career tip. Route is gated to approved mentors
// and admins.
func CreateTip(c *fiber.Ctx) error {
	var req CreateTipRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	tip := &models.CareerTip{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Author:   c.Locals("uid").(string),
	}

	if err := services.CreateTip(c.Context(), tip); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(tip)
}

// GetTip returns a single career tip
func GetTip(c *fiber.Ctx) error {
	tip, err := services.GetTip(c.Context(), c.Params("tipID"))
	if err != nil {
		return err
	}
	return c.JSON(tip)
}

type UpdateTipRequest struct {
	Title    string `json:"title" validate:"omitempty,min=3,max=200"`
	Content  string `json:"content"`
	Category string `json:"category" validate:"omitempty,max=100"`
}

// UpdateTip partially updates a tip. Only the author or an admin may
// modify it.
func UpdateTip(c *fiber.Ctx) error {
	var req UpdateTipRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	if err := requireTipOwnership(c); err != nil {
		return err
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Content != "" {
		update["content"] = req.Content
	}
	if req.Category != "" {
		update["category"] = req.Category
	}

	tip, err := services.UpdateTip(c.Context(), c.Params("tipID"), update)
	if err != nil {
		return err
	}

	return c.JSON(tip)
}

// DeleteTip removes a tip. Only the author or an admin may delete it.
func DeleteTip(c *fiber.Ctx) error {
	if err := requireTipOwnership(c); err != nil {
		return err
	}

	if err := services.DeleteTip(c.Context(), c.Params("tipID")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true})
}

func requireTipOwnership(c *fiber.Ctx) error {
	if c.Locals("role") == models.RoleAdmin {
		return nil
	}
	tip, err := services.GetTip(c.Context(), c.Params("tipID"))
	if err != nil {
		return err
	}
	if tip.Author != c.Locals("uid") {
		return fiber.NewError(fiber.StatusForbidden, "not the author of this tip")
	}
	return nil
}

// ListTips returns a page of career tips with a cursor for the next page
func ListTips(c *fiber.Ctx) error {
	tips, nextCursor, err := services.ListTips(c.Context(), c.Query("category"), c.QueryInt("limit"), c.Query("cursor"))
	if err != nil {
		return err
	}

	resp := fiber.Map{"tips": tips}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	}
	return c.JSON(resp)
}
