package handlers

import (
	"errors"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	taskService   TaskServiceInterface
	artistService ArtistServiceInterface
	teamService   TeamServiceInterface
}

func NewTaskHandler(taskService TaskServiceInterface, artistService ArtistServiceInterface, teamService TeamServiceInterface) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		artistService: artistService,
		teamService:   teamService,
	}
}

func (h *TaskHandler) ListByArtist(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "id", "artist")
	if !ok {
		return
	}

	if _, _, ok := artistAccess(c, h.artistService, h.teamService, artistID, userID); !ok {
		return
	}

	tasks, err := h.taskService.ListByArtist(c.Request.Context(), artistID)
	if err != nil {
		c.InternalServerError("failed to list tasks")
		return
	}

	_ = c.JSON(200, tasks)
}

// ListByTeam lists the team's tasks. ?open=true limits it to unfinished ones.
func (h *TaskHandler) ListByTeam(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	if _, ok := memberRole(c, h.teamService, teamID, userID, "team not found"); !ok {
		return
	}

	openOnly := c.QueryParam("open") == "true"
	tasks, err := h.taskService.ListByTeam(c.Request.Context(), teamID, openOnly)
	if err != nil {
		c.InternalServerError("failed to list tasks")
		return
	}

	_ = c.JSON(200, tasks)
}

func (h *TaskHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "id", "artist")
	if !ok {
		return
	}

	if _, _, ok := artistAccess(c, h.artistService, h.teamService, artistID, userID); !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.BadRequest("title is required")
		return
	}
	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), artistID, title, dueDate)
	if err != nil {
		if errors.Is(err, services.ErrArtistNotFound) {
			c.NotFound("artist not found")
			return
		}
		c.InternalServerError("failed to create task")
		return
	}

	_ = c.JSON(201, task)
}

// taskAccess loads the task and checks the caller belongs to its team.
func (h *TaskHandler) taskAccess(c *drift.Context, userID uuid.UUID) (*models.Task, bool) {
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return nil, false
	}

	task, err := h.taskService.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found")
			return nil, false
		}
		c.InternalServerError("failed to get task")
		return nil, false
	}

	if _, ok := memberRole(c, h.teamService, task.TeamID, userID, "task not found"); !ok {
		return nil, false
	}
	return task, true
}

func (h *TaskHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	task, ok := h.taskAccess(c, userID)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			c.BadRequest("title cannot be empty")
			return
		}
		req.Title = &title
	}
	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	updated, err := h.taskService.Update(c.Request.Context(), task.ID, req.Title, dueDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest("no fields to update")
		case errors.Is(err, services.ErrTaskNotFound):
			c.NotFound("task not found")
		default:
			c.InternalServerError("failed to update task")
		}
		return
	}

	_ = c.JSON(200, updated)
}

// SetCompleted applies the requested completion state. Repeating a request
// leaves the task unchanged.
func (h *TaskHandler) SetCompleted(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	task, ok := h.taskAccess(c, userID)
	if !ok {
		return
	}

	var req dto.SetTaskCompletedRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	updated, err := h.taskService.SetCompleted(c.Request.Context(), task.ID, req.IsCompleted)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found")
			return
		}
		c.InternalServerError("failed to update task")
		return
	}

	_ = c.JSON(200, updated)
}

func (h *TaskHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	task, ok := h.taskAccess(c, userID)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), task.ID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.NotFound("task not found")
			return
		}
		c.InternalServerError("failed to delete task")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}
