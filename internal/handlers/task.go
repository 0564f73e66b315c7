package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/internal/dto"
	apierrors "github.com/taskhub/taskhub/internal/errors"
	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/services"
	"github.com/taskhub/taskhub/internal/utils"
)

// TaskHandler coordinates dashboard and task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Dashboard lists the caller's tasks with filtering, sorting, and pagination.
// filter=completed returns only completed tasks; filter=planned returns
// incomplete tasks that have a due date; filter=active returns incomplete
// tasks.
func (h *TaskHandler) Dashboard(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(services.ListTasksInput{
		AccountID:     accountID,
		Category:      c.Query("category"),
		Filter:        c.Query("filter"),
		SortByDueDate: c.Query("sort") == "dueDate",
		Page:          params.Page,
		PageSize:      params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Tasks: dto.ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// AddTask creates a new task for the caller.
func (h *TaskHandler) AddTask(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AddTaskRequest struct {
		Title               string `form:"title" json:"title" binding:"required"`
		Description         string `form:"description" json:"description"`
		Category            string `form:"category" json:"category"`
		DueDate             string `form:"dueDate" json:"dueDate"`
		RemindBeforeMinutes *int   `form:"remindBeforeMinutes" json:"remindBeforeMinutes"`
	}

	var req AddTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Title is required")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid due date")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		AccountID:           accountID,
		Title:               req.Title,
		Description:         req.Description,
		Category:            req.Category,
		DueDate:             dueDate,
		RemindBeforeMinutes: req.RemindBeforeMinutes,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask partially updates one of the caller's tasks.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title               *string `form:"title" json:"title"`
		Description         *string `form:"description" json:"description"`
		Completed           *bool   `form:"completed" json:"completed"`
		Category            *string `form:"category" json:"category"`
		DueDate             *string `form:"dueDate" json:"dueDate"`
		RemindBeforeMinutes *int    `form:"remindBeforeMinutes" json:"remindBeforeMinutes"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:               req.Title,
		Description:         req.Description,
		Completed:           req.Completed,
		Category:            req.Category,
		RemindBeforeMinutes: req.RemindBeforeMinutes,
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			dueDate, err := parseDueDate(*req.DueDate)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due date")
				return
			}
			input.DueDate = dueDate
		}
	}

	task, err := h.taskService.UpdateTask(taskID, accountID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes one of the caller's tasks. A foreign id matches zero
// records and still reports success.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, accountID); err != nil {
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CompleteTaskAPI marks one of the caller's tasks as completed.
func (h *TaskHandler) CompleteTaskAPI(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.CompleteTask(taskID, accountID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTaskAPI deletes one of the caller's tasks via the fetch API.
func (h *TaskHandler) DeleteTaskAPI(c *gin.Context) {
	h.DeleteTask(c)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		c.Abort()
		return 0, false
	}
	return id, true
}

// parseDueDate accepts the formats the dashboard forms and the API produce.
func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
