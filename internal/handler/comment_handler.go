package handler

import (
	"net/http"
	"time"

	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments service.CommentService
}

func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create godoc
//
//	@Summary	Comment on a task
//	@Tags		Comments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Task ID"
//	@Param		payload	body		service.CommentInput	true	"Comment"
//	@Success	201		{object}	handler.CommentResponse
//	@Router		/tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), actorID, taskID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentResponse(comment, time.Now()))
}

// List godoc
//
//	@Summary	List a task's comments, newest first
//	@Tags		Comments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Task ID"
//	@Success	200	{array}	handler.CommentResponse
//	@Router		/tasks/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	comments, err := h.comments.List(c.Request.Context(), actorID, taskID)
	if err != nil {
		writeError(c, err)
		return
	}

	now := time.Now()
	resp := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, newCommentResponse(&comments[i], now))
	}
	c.JSON(http.StatusOK, resp)
}

// Edit godoc
//
//	@Summary	Edit a comment (author only)
//	@Tags		Comments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Comment ID"
//	@Param		payload	body		service.CommentInput	true	"Comment"
//	@Success	200		{object}	handler.CommentResponse
//	@Router		/comments/{id} [put]
func (h *CommentHandler) Edit(c *gin.Context) {
	actorID, commentID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	comment, err := h.comments.Edit(c.Request.Context(), actorID, commentID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(comment, time.Now()))
}

// Delete godoc
//
//	@Summary	Delete a comment
//	@Tags		Comments
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Comment ID"
//	@Success	204
//	@Router		/comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	actorID, commentID, ok := actorAndID(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), actorID, commentID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
