package handler

import (
	"context"
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projects service.ProjectService
}

func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type TransferRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required,uuid"`
}

func projectResponses(projects []model.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectResponse(&projects[i]))
	}
	return out
}

// Create godoc
//
//	@Summary	Create a project
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		payload	body		service.CreateProjectInput	true	"Project"
//	@Success	201		{object}	handler.ProjectResponse
//	@Failure	409		{object}	handler.ErrorResponse
//	@Failure	422		{object}	handler.ErrorResponse
//	@Router		/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.CreateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProjectResponse(project))
}

// List godoc
//
//	@Summary		List projects
//	@Description	Projects of owner_id (default: the caller). all=true lists every project and is admin only.
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			owner_id			query	string	false	"Owner"
//	@Param			include_inactive	query	bool	false	"Include inactive projects"
//	@Param			all					query	bool	false	"Every project (admin)"
//	@Success		200					{array}	handler.ProjectResponse
//	@Router			/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"

	var (
		projects []model.Project
		err      error
	)
	if c.Query("all") == "true" {
		projects, err = h.projects.ListAll(c.Request.Context(), actorID, !includeInactive)
	} else {
		ownerID := actorID
		if raw := c.Query("owner_id"); raw != "" {
			if ownerID, err = uuid.Parse(raw); err != nil {
				badRequest(c, "Invalid owner_id format")
				return
			}
		}
		projects, err = h.projects.ListForUser(c.Request.Context(), actorID, ownerID, includeInactive)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectResponses(projects))
}

// GetByID godoc
//
//	@Summary	Get a project
//	@Tags		Projects
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	handler.ProjectResponse
//	@Failure	404	{object}	handler.ErrorResponse
//	@Router		/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), actorID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(project))
}

// Update godoc
//
//	@Summary	Rename or describe a project
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Project ID"
//	@Param		payload	body		service.UpdateProjectInput	true	"Project"
//	@Success	200		{object}	handler.ProjectResponse
//	@Router		/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.UpdateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	project, err := h.projects.Update(c.Request.Context(), actorID, projectID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(project))
}

// Deactivate godoc
//
//	@Summary	Deactivate a project
//	@Tags		Projects
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	handler.ProjectResponse
//	@Router		/projects/{id}/deactivate [post]
func (h *ProjectHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.projects.Deactivate)
}

// Reactivate godoc
//
//	@Summary	Reactivate a project
//	@Tags		Projects
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	handler.ProjectResponse
//	@Failure	409	{object}	handler.ErrorResponse
//	@Router		/projects/{id}/reactivate [post]
func (h *ProjectHandler) Reactivate(c *gin.Context) {
	h.toggle(c, h.projects.Reactivate)
}

func (h *ProjectHandler) toggle(c *gin.Context, op func(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error)) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	project, err := op(c.Request.Context(), actorID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(project))
}

// Delete godoc
//
//	@Summary		Delete a project
//	@Description	Removes the project with all its tasks and their comments.
//	@Tags			Projects
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Project ID"
//	@Success		204
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), actorID, projectID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transfer godoc
//
//	@Summary	Transfer project ownership
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Project ID"
//	@Param		payload	body		handler.TransferRequest	true	"New owner"
//	@Success	200		{object}	handler.ProjectResponse
//	@Router		/projects/{id}/transfer [post]
func (h *ProjectHandler) Transfer(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	newOwnerID, _ := uuid.Parse(req.NewOwnerID)

	project, err := h.projects.TransferOwnership(c.Request.Context(), actorID, projectID, newOwnerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(project))
}

// Stats godoc
//
//	@Summary	Task counts per status
//	@Tags		Projects
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	handler.ProjectStatsResponse
//	@Router		/projects/{id}/stats [get]
func (h *ProjectHandler) Stats(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	stats, err := h.projects.Stats(c.Request.Context(), actorID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectStatsResponse(stats))
}
