package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"careerhub/apperr"
	"careerhub/models"
	"careerhub/services"
)

type CreateJobRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Company     string     `json:"company" validate:"required,max=200"`
	Location    string     `json:"location" validate:"required,max=200"`
	Type        string     `json:"type" validate:"required,oneof=full-time part-time internship contract"`
	Description string     `json:"description" validate:"required"`
	ApplyURL    string     `json:"applyUrl" validate:"omitempty,url"`
	Salary      string     `json:"salary" validate:"omitempty,max=100"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateJob posts a new job. Route is gated to employers and admins.
func CreateJob(c *fiber.Ctx) error {
	var req CreateJobRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	job := &models.Job{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        models.JobType(req.Type),
		Description: req.Description,
		ApplyURL:    req.ApplyURL,
		Salary:      req.Salary,
		Deadline:    req.Deadline,
		PostedBy:    c.Locals("uid").(string),
	}

	if err := services.CreateJob(c.Context(), job); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetJob returns a single job posting
func GetJob(c *fiber.Ctx) error {
	job, err := services.GetJob(c.Context(), c.Params("jobID"))
	if err != nil {
		return err
	}
	return c.JSON(job)
}

type UpdateJobRequest struct {
	Title       string     `json:"title" validate:"omitempty,min=3,max=200"`
	Company     string     `json:"company" validate:"omitempty,max=200"`
	Location    string     `json:"location" validate:"omitempty,max=200"`
	Type        string     `json:"type" validate:"omitempty,oneof=full-time part-time internship contract"`
	Description string     `json:"description"`
	ApplyURL    string     `json:"applyUrl" validate:"omitempty,url"`
	Salary      string     `json:"salary" validate:"omitempty,max=100"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateJob partially updates a posting. Only the posting employer or an
// admin may modify it.
func UpdateJob(c *fiber.Ctx) error {
	var req UpdateJobRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	if err := requireJobOwnership(c); err != nil {
		return err
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Company != "" {
		update["company"] = req.Company
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Type != "" {
		update["type"] = req.Type
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.ApplyURL != "" {
		update["apply_url"] = req.ApplyURL
	}
	if req.Salary != "" {
		update["salary"] = req.Salary
	}
	if req.Deadline != nil {
		update["deadline"] = req.Deadline
	}

	job, err := services.UpdateJob(c.Context(), c.Params("jobID"), update)
	if err != nil {
		return err
	}

	return c.JSON(job)
}

// DeleteJob removes a posting. Only the posting employer or an admin may
// delete it.
func DeleteJob(c *fiber.Ctx) error {
	if err := requireJobOwnership(c); err != nil {
		return err
	}

	if err := services.DeleteJob(c.Context(), c.Params("jobID")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true})
}

func requireJobOwnership(c *fiber.Ctx) error {
	if c.Locals("role") == models.RoleAdmin {
		return nil
	}
	job, err := services.GetJob(c.Context(), c.Params("jobID"))
	if err != nil {
		return err
	}
	if job.PostedBy != c.Locals("uid") {
		return fiber.NewError(fiber.StatusForbidden, "not the owner of this posting")
	}
	return nil
}

// ListJobs returns a filtered page of postings with a cursor for the
// next page
func ListJobs(c *fiber.Ctx) error {
	filter := services.JobFilter{
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Company:  c.Query("company"),
	}
	if filter.Type != "" && !models.IsValidJobType(filter.Type) {
		return apperr.Validation(apperr.FieldError{Field: "type", Message: "unknown job type"})
	}

	jobs, nextCursor, err := services.ListJobs(c.Context(), filter, c.QueryInt("limit"), c.Query("cursor"))
	if err != nil {
		return err
	}

	resp := fiber.Map{"jobs": jobs}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	}
	return c.JSON(resp)
}
