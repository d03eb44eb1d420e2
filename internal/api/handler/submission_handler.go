package handler

import (
	"context"
	"errors"
	"judge_web/internal/api/middleware"
	"judge_web/internal/api/view"
	"judge_web/internal/app/service"
	"judge_web/internal/app/worker"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sse"
	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	*Pages
	submissionService *service.SubmissionService
	relay             *worker.StatusRelay
	uploadMaxBytes    int64
}

func NewSubmissionHandler(pages *Pages, ss *service.SubmissionService, relay *worker.StatusRelay, uploadMaxBytes int64) *SubmissionHandler {
	return &SubmissionHandler{Pages: pages, submissionService: ss, relay: relay, uploadMaxBytes: uploadMaxBytes}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	// The form itself is public and tells anonymous visitors to log in.
	r.Get("/problemset/submit/{taskID}", h.submitPage)
	r.Group(func(private chi.Router) {
		private.Use(middleware.RequireUser)
		private.Post("/problemset/submit/{taskID}", h.submitFile)
		private.Post("/problemset/submit/{taskID}/upload", h.upload)
		private.Post("/problemset/submit/{taskID}/repo", h.submitRepo)
		private.Get("/problemset/results/{taskID}", h.results)
	})
}

// RegisterStreamRoutes mounts the live status stream. It must stay out of
// any request timeout.
func (h *SubmissionHandler) RegisterStreamRoutes(r chi.Router) {
	r.With(middleware.RequireUser).Get("/problemset/results/{taskID}/live", h.live)
}

func submitPath(taskID string) string {
	return "/problemset/submit/" + url.PathEscape(taskID)
}

func (h *SubmissionHandler) submitPage(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	session := h.session(r)
	data := view.SubmitData{
		TaskID:         taskID,
		Tab:            view.TabSubmit,
		LoggedIn:       session.Authenticated(),
		Mode:           view.ModeFile,
		UploadedFileID: session.UploadedFileID,
	}
	if r.URL.Query().Get("mode") == "repo" {
		data.Mode = view.ModeRepo
	}
	// Repositories are only fetched when the repository mode is shown.
	if data.LoggedIn && data.Mode == view.ModeRepo {
		auth := h.auth(r)
		data.Repos = checkResult(h.Pages, r, view.Load(r.Context(), func(ctx context.Context) ([]model.GitHubRepo, error) {
			return h.submissionService.Repositories(ctx, auth)
		}, "Failed to load GitHub repositories."))
	}
	h.render(w, r, "submit", "Submit", view.TabSubmit, data)
}

func (h *SubmissionHandler) upload(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	back := submitPath(taskID)

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		log.Printf("WARN: read uploaded solution: %v", err)
		h.flash(w, r, model.AlertDanger, service.MsgUploadError)
		common.Redirect(w, r, back)
		return
	}
	var content multipart.File
	var filename string
	if file != nil {
		defer file.Close()
		content, filename = file, header.Filename
	}

	session := h.session(r)
	var fileID string
	if content != nil {
		fileID, err = h.submissionService.UploadSolution(r.Context(), h.auth(r), session.ID, filename, content)
	} else {
		err = common.ErrNoFileSelected
	}
	switch {
	case errors.Is(err, common.ErrNoFileSelected):
		h.flash(w, r, model.AlertDanger, service.MsgSelectFileFirst)
	case errors.Is(err, common.ErrInFlight):
		h.flash(w, r, model.AlertDanger, service.MsgInFlight)
	case err != nil:
		log.Printf("ERROR: upload solution: %v", err)
		h.fail(w, r, err, service.MsgUploadError)
	default:
		h.persist(w, r, func(s *model.Session) (string, error) {
			return h.sessions.RememberUpload(r.Context(), s, fileID)
		})
		h.flash(w, r, model.AlertSuccess, "File uploaded successfully!")
	}
	common.Redirect(w, r, back)
}

func (h *SubmissionHandler) submitFile(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	session := h.session(r)

	sub, err := h.submissionService.SubmitFile(r.Context(), h.auth(r), session.ID, taskID, session.UploadedFileID)
	if err != nil {
		h.fail(w, r, err, service.SubmissionMessage(err))
		common.Redirect(w, r, submitPath(taskID))
		return
	}
	h.persist(w, r, func(s *model.Session) (string, error) {
		return h.sessions.RememberUpload(r.Context(), s, "")
	})
	common.Redirect(w, r, resultsPath(taskID, sub.ID.String()))
}

func (h *SubmissionHandler) submitRepo(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	session := h.session(r)

	sub, err := h.submissionService.SubmitRepository(r.Context(), h.auth(r), session.ID, taskID, r.FormValue("repo"))
	if err != nil {
		h.fail(w, r, err, service.SubmissionMessage(err))
		common.Redirect(w, r, submitPath(taskID)+"?mode=repo")
		return
	}
	common.Redirect(w, r, resultsPath(taskID, sub.ID.String()))
}

func resultsPath(taskID, track string) string {
	p := "/problemset/results/" + url.PathEscape(taskID)
	if track != "" {
		p += "?" + url.Values{"track": {track}}.Encode()
	}
	return p
}

func (h *SubmissionHandler) results(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	data := view.ResultsData{TaskID: taskID, Tab: view.TabResult, Track: r.URL.Query().Get("track")}

	page := h.submissionService.Results(r.Context(), h.auth(r), taskID)
	data.Task = checkResult(h.Pages, r, view.Settle(page.Task, page.TaskErr, "Failed to load problem"))
	data.History = checkResult(h.Pages, r, view.Settle(page.History, page.HistoryErr, "Failed to load submissions"))
	if data.Track != "" {
		data.LiveURL = view.LiveURL(taskID, data.Track)
	}
	h.render(w, r, "results", "Results", view.TabResult, data)
}

// lineBreaks folds CR and CRLF into LF. The event encoder escapes a bare CR.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// trackedSnapshot is what the results page needs to redraw the status of
// the tracked submission.
type trackedSnapshot struct {
	ID      model.ID               `json:"id"`
	Status  model.SubmissionStatus `json:"status"`
	Variant model.Variant          `json:"variant"`
	Score   string                 `json:"score"`
}

func (h *SubmissionHandler) live(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	submissionID := r.URL.Query().Get("submissionId")
	if submissionID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "submissionId is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		common.RespondWithError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	auth := h.auth(r)
	history, err := h.submissionService.History(r.Context(), auth, taskID)
	if err != nil {
		// The stream alone still carries the tracked submission.
		log.Printf("WARN: live status: load history for task %s: %v", taskID, err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	err = h.relay.Run(r.Context(), auth, submissionID, history, func(u worker.Update) error {
		rows, err := h.views.Fragment("result-rows", u.History)
		if err != nil {
			return err
		}
		if err := sse.Encode(w, sse.Event{Event: "rows", Data: lineBreaks.Replace(rows)}); err != nil {
			return err
		}
		tracked := trackedSnapshot{
			ID:      u.Tracked.ID,
			Status:  u.Tracked.Status,
			Variant: u.Tracked.Status.Variant(),
			Score:   u.Tracked.ScoreText(),
		}
		if err := sse.Encode(w, sse.Event{Event: "tracked", Data: tracked}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.Printf("WARN: live status for submission %s ended: %v", submissionID, err)
	}
	if r.Context().Err() == nil {
		_ = sse.Encode(w, sse.Event{Event: "end", Data: "closed"})
		flusher.Flush()
	}
}
