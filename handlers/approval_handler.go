package handlers

import (
	"github.com/gofiber/fiber/v2"

	"careerhub/models"
	"careerhub/services"
)

// ListPendingMentors returns faculty-mentor profiles awaiting an
// approval decision. Admin only.
func ListPendingMentors(c *fiber.Ctx) error {
	mentors, nextCursor, err := services.ListPendingMentors(c.Context(), c.QueryInt("limit"), c.Query("cursor"))
	if err != nil {
		return err
	}

	views := make([]map[string]interface{}, 0, len(mentors))
	for i := range mentors {
		views = append(views, mentors[i].View())
	}

	resp := fiber.Map{"mentors": views}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	}
	return c.JSON(resp)
}

type DecideMentorRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// DecideMentor records an approval decision on a mentor account and
// echoes the updated profile. Admin only.
func DecideMentor(c *fiber.Ctx) error {
	var req DecideMentorRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := services.DecideMentor(c.Context(), c.Params("uid"), models.AccountStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(profile.View())
}
