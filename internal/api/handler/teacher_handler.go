package handler

import (
	"context"
	"errors"
	"judge_web/internal/api/middleware"
	"judge_web/internal/api/view"
	"judge_web/internal/app/service"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	teacherTabCreate = "create"
	teacherTabUpdate = "update"
	teacherTabDelete = "delete"
)

// artifactFields maps the teacher form's file inputs to backend file types.
var artifactFields = []struct {
	field    string
	fileType model.FileType
}{
	{"solutionTemplateFile", model.FileTypeSolutionTemplate},
	{"testsFile", model.FileTypeTest},
	{"lintersFile", model.FileTypeLinter},
}

type TeacherHandler struct {
	*Pages
	taskService    *service.TaskService
	uploadMaxBytes int64
}

func NewTeacherHandler(pages *Pages, ts *service.TaskService, uploadMaxBytes int64) *TeacherHandler {
	return &TeacherHandler{Pages: pages, taskService: ts, uploadMaxBytes: uploadMaxBytes}
}

func (h *TeacherHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
	r.Get("/", h.panel)
	r.Post("/tasks", h.createTask)
	r.Post("/tasks/update", h.updateTask)
	r.Post("/tasks/delete", h.deleteTask)
}

func (h *TeacherHandler) newData(tab string) view.TeacherData {
	limits := h.taskService.Limits()
	return view.TeacherData{
		Tab:    tab,
		Create: view.TaskFormData{Form: service.NewTaskForm(), Limits: limits},
		Update: view.UpdateFormData{TaskFormData: view.TaskFormData{Limits: limits}},
	}
}

// fill loads the task lists the selected tab needs. Each form fetches its
// own list.
func (h *TeacherHandler) fill(r *http.Request, data *view.TeacherData) {
	auth := h.auth(r)
	switch data.Tab {
	case teacherTabUpdate:
		data.Update.Owned = checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) ([]model.Problem, error) {
			return h.taskService.ListOwnedTasks(ctx, auth)
		}, "Error loading tasks"))
	case teacherTabDelete:
		data.Delete.Tasks = checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) ([]model.Problem, error) {
			return h.taskService.ListTasks(ctx, auth)
		}, "Error loading task list"))
	}
}

func (h *TeacherHandler) show(w http.ResponseWriter, r *http.Request, data view.TeacherData) {
	h.fill(r, &data)
	h.render(w, r, "teacher", "Teacher panel", "", data)
}

func (h *TeacherHandler) panel(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab != teacherTabUpdate && tab != teacherTabDelete {
		tab = teacherTabCreate
	}
	data := h.newData(tab)

	if taskID := r.URL.Query().Get("taskId"); tab == teacherTabUpdate && taskID != "" {
		data.Update.Selected = taskID
		form, err := h.taskService.Prefill(r.Context(), h.auth(r), taskID)
		if err != nil {
			log.Printf("ERROR: prefill task %s: %v", taskID, err)
			h.fail(w, r, err, "Error loading task")
		} else {
			data.Update.Form = form
			data.Update.Loaded = true
		}
	}
	h.show(w, r, data)
}

// readTaskForm parses the multipart teacher form. The returned close
// function releases the uploaded files.
func (h *TeacherHandler) readTaskForm(w http.ResponseWriter, r *http.Request) (service.TaskForm, service.FieldErrors, []service.Artifact, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return service.TaskForm{}, nil, nil, func() {}, common.Errorf("parse task form: %w", err)
	}
	form, errs := service.ParseTaskForm(r.Form)

	var artifacts []service.Artifact
	var closers []func() error
	for _, f := range artifactFields {
		file, header, err := r.FormFile(f.field)
		if err != nil {
			continue
		}
		closers = append(closers, file.Close)
		artifacts = append(artifacts, service.Artifact{FileType: f.fileType, Filename: header.Filename, Content: file})
	}
	release := func() {
		for _, c := range closers {
			c()
		}
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}
	return form, errs, artifacts, release, nil
}

func (h *TeacherHandler) createTask(w http.ResponseWriter, r *http.Request) {
	data := h.newData(teacherTabCreate)
	form, errs, artifacts, release, err := h.readTaskForm(w, r)
	defer release()
	if err != nil {
		log.Printf("WARN: %v", err)
		h.flash(w, r, model.AlertDanger, "Error while creating task")
		h.show(w, r, data)
		return
	}
	data.Create.Form = form
	if len(errs) > 0 {
		data.Create.Errors = errs
		h.show(w, r, data)
		return
	}

	err = h.taskService.CreateTask(r.Context(), h.auth(r), form, artifacts)
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		data.Create.Errors = verr.Fields
		h.show(w, r, data)
	case err != nil:
		log.Printf("ERROR: Error while creating task: %v", err)
		h.fail(w, r, err, "Error while creating task")
		h.show(w, r, data)
	default:
		h.flash(w, r, model.AlertSuccess, "Task has been created successfully.")
		common.Redirect(w, r, "/teacher-panel?tab="+teacherTabCreate)
	}
}

func (h *TeacherHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	data := h.newData(teacherTabUpdate)
	form, errs, artifacts, release, err := h.readTaskForm(w, r)
	defer release()
	if err != nil {
		log.Printf("WARN: %v", err)
		h.flash(w, r, model.AlertDanger, "Error updating")
		h.show(w, r, data)
		return
	}
	data.Update.Form = form
	data.Update.Selected = form.TaskID
	data.Update.Loaded = form.TaskID != ""
	if len(errs) > 0 {
		data.Update.Errors = errs
		h.show(w, r, data)
		return
	}

	err = h.taskService.UpdateTask(r.Context(), h.auth(r), form, artifacts)
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		data.Update.Errors = verr.Fields
		h.show(w, r, data)
	case err != nil:
		log.Printf("ERROR: Error updating task %s: %v", form.TaskID, err)
		h.fail(w, r, err, "Error updating")
		h.show(w, r, data)
	default:
		h.flash(w, r, model.AlertSuccess, "Task has been updated successfully.")
		common.Redirect(w, r, "/teacher-panel?tab="+teacherTabUpdate)
	}
}

func (h *TeacherHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	data := h.newData(teacherTabDelete)
	taskID := r.FormValue("taskId")
	data.Delete.Selected = taskID

	err := h.taskService.DeleteTask(r.Context(), h.auth(r), taskID)
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		data.Delete.Error = verr.Fields["taskId"]
		h.show(w, r, data)
	case err != nil:
		log.Printf("ERROR: Error while deleting task %s: %v", taskID, err)
		h.fail(w, r, err, "Error while deleting task")
		h.show(w, r, data)
	default:
		h.flash(w, r, model.AlertSuccess, "Task has been deleted successfully.")
		common.Redirect(w, r, "/teacher-panel?tab="+teacherTabDelete)
	}
}
