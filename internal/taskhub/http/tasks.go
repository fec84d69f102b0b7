package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleMy godoc
//
//	@Summary		My Tasks
//	@Description	Returns the caller's open assignments across all workspaces, most recently touched first.
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{array}		TaskView
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/my [get].
func (h *TasksHandler) HandleMy(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.MyTasks(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, toTaskView(t))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

// HandleGet godoc
//
//	@Summary		Get Task
//	@Description	Returns a task with its assignees, subtasks and comments.
//	@Tags			Tasks
//	@Produce		json
//	@Param			taskId	path		string	true	"Task ID"
//	@Success		200		{object}	TaskView
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId} [get].
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	t, err := h.TaskService.GetTask(r.Context(), r.PathValue("taskId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskView(t))
}

// HandleStatus godoc
//
//	@Summary		Update Task Status
//	@Description	Moves the task between board columns and bumps its updated timestamp.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		string					true	"Task ID"
//	@Param			request	body		UpdateTaskStatusRequest	true	"New status"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId}/status [put].
func (h *TasksHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	err := h.TaskService.UpdateTaskStatus(r.Context(), r.PathValue("taskId"), caller,
		domain.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Task status updated"})
}

// HandlePriority godoc
//
//	@Summary		Update Task Priority
//	@Description	Reprioritizes the task and bumps its updated timestamp.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		string						true	"Task ID"
//	@Param			request	body		UpdateTaskPriorityRequest	true	"New priority"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId}/priority [put].
func (h *TasksHandler) HandlePriority(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskPriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	err := h.TaskService.UpdateTaskPriority(r.Context(), r.PathValue("taskId"), caller,
		domain.TaskPriority(req.Priority))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Task priority updated"})
}

// HandleSubtaskCreate godoc
//
//	@Summary		Add Subtask
//	@Description	Appends a checklist item to the task.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		string					true	"Task ID"
//	@Param			request	body		CreateSubtaskRequest	true	"Subtask title"
//	@Success		201		{object}	SubtaskView
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId}/subtasks [post].
func (h *TasksHandler) HandleSubtaskCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	sub, err := h.TaskService.AddSubtask(r.Context(), r.PathValue("taskId"), caller, req.Title)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, SubtaskView{
		ID:        sub.ID,
		Title:     sub.Title,
		Completed: sub.Completed,
		CreatedAt: sub.CreatedAt,
	})
}

// HandleSubtaskToggle godoc
//
//	@Summary		Toggle Subtask
//	@Description	Marks a subtask complete or incomplete. The parent task's updated timestamp is bumped.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			taskId		path		string					true	"Task ID"
//	@Param			subtaskId	path		string					true	"Subtask ID"
//	@Param			request		body		ToggleSubtaskRequest	true	"Completion state"
//	@Success		200			{object}	MessageResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId}/subtasks/{subtaskId} [put].
func (h *TasksHandler) HandleSubtaskToggle(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req ToggleSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	err := h.TaskService.ToggleSubtask(r.Context(), r.PathValue("taskId"),
		r.PathValue("subtaskId"), caller, req.Completed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Subtask updated"})
}

// HandleCommentCreate godoc
//
//	@Summary		Add Comment
//	@Description	Posts a comment on the task. Workspace members @mentioned by name are recorded with it.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			taskId	path		string					true	"Task ID"
//	@Param			request	body		CreateCommentRequest	true	"Comment body"
//	@Success		201		{object}	CommentView
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId}/comments [post].
func (h *TasksHandler) HandleCommentCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	c, err := h.TaskService.AddComment(r.Context(), r.PathValue("taskId"), caller, req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCommentView(c))
}

// HandleCommentList godoc
//
//	@Summary		List Comments
//	@Description	Returns a task's comments oldest first.
//	@Tags			Tasks
//	@Produce		json
//	@Param			taskId	path		string	true	"Task ID"
//	@Success		200		{array}		CommentView
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/tasks/{taskId}/comments [get].
func (h *TasksHandler) HandleCommentList(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	comments, err := h.TaskService.ListComments(r.Context(), r.PathValue("taskId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, toCommentView(c))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}
