package service

import (
	"context"
	"errors"
	"io"
	"judge_web/internal/common"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"
)

var ErrNoRepository = errors.New("no repository selected")

// Messages shown for submission failures that carry no server detail.
const (
	MsgUploadFirst      = "Please upload file first"
	MsgSelectFileFirst  = "Please select a file first"
	MsgSelectRepository = "Select repository first."
	MsgSubmissionError  = "Submission error."
	MsgUploadError      = "Error while uploading file"
	MsgInFlight         = "A request is already in progress"
)

type SubmissionBackend interface {
	GetTask(ctx context.Context, auth backend.Auth, taskID string) (*model.Problem, error)
	Submit(ctx context.Context, auth backend.Auth, req model.SubmitRequest) (*model.Submission, error)
	History(ctx context.Context, auth backend.Auth, taskID string) ([]model.Submission, error)
	UploadFile(ctx context.Context, auth backend.Auth, fileType model.FileType, filename string, content io.Reader) (*model.StoredFile, error)
	GitHubRepos(ctx context.Context, auth backend.Auth) ([]model.GitHubRepo, error)
	GitHubSaveZip(ctx context.Context, auth backend.Auth, repo string) (*model.StoredFile, error)
}

type SubmissionService struct {
	api   SubmissionBackend
	guard *InFlightGuard
}

func NewSubmissionService(api SubmissionBackend, guard *InFlightGuard) *SubmissionService {
	return &SubmissionService{api: api, guard: guard}
}

// UploadSolution stores a solution file in the backend and returns its id.
// A nil content is rejected without contacting the backend.
func (s *SubmissionService) UploadSolution(ctx context.Context, auth backend.Auth, sessionID, filename string, content io.Reader) (string, error) {
	if content == nil || filename == "" {
		return "", common.ErrNoFileSelected
	}
	var fileID string
	err := s.guard.Do(ctx, "upload:"+sessionID, func() error {
		stored, err := s.api.UploadFile(ctx, auth, model.FileTypeSolution, filename, content)
		if err != nil {
			return err
		}
		fileID = stored.ID.String()
		return nil
	})
	return fileID, err
}

// SubmitFile submits a previously uploaded file. With no uploaded file it
// fails with common.ErrNoFileSelected and makes no request.
func (s *SubmissionService) SubmitFile(ctx context.Context, auth backend.Auth, sessionID, taskID, fileID string) (*model.Submission, error) {
	if fileID == "" {
		return nil, common.ErrNoFileSelected
	}
	var sub *model.Submission
	err := s.guard.Do(ctx, "submit:"+sessionID, func() error {
		var err error
		sub, err = s.api.Submit(ctx, auth, model.SubmitRequest{TaskID: taskID, SourceCodeFileID: fileID})
		return err
	})
	return sub, err
}

// SubmitRepository snapshots repo into a stored file and submits it.
func (s *SubmissionService) SubmitRepository(ctx context.Context, auth backend.Auth, sessionID, taskID, repo string) (*model.Submission, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return nil, ErrNoRepository
	}
	var sub *model.Submission
	err := s.guard.Do(ctx, "submit:"+sessionID, func() error {
		stored, err := s.api.GitHubSaveZip(ctx, auth, repo)
		if err != nil {
			return common.Errorf("snapshot repository %s: %w", repo, err)
		}
		sub, err = s.api.Submit(ctx, auth, model.SubmitRequest{TaskID: taskID, SourceCodeFileID: stored.ID.String()})
		return err
	})
	return sub, err
}

func (s *SubmissionService) Repositories(ctx context.Context, auth backend.Auth) ([]model.GitHubRepo, error) {
	return s.api.GitHubRepos(ctx, auth)
}

// History returns the caller's submissions for taskID, newest first.
func (s *SubmissionService) History(ctx context.Context, auth backend.Auth, taskID string) ([]model.Submission, error) {
	subs, err := s.api.History(ctx, auth, taskID)
	if err != nil {
		return nil, err
	}
	SortByRecency(subs)
	return subs, nil
}

// ResultsPage is everything the results view needs on first render. Each
// part carries its own error so one failed fetch leaves the other usable.
type ResultsPage struct {
	Task       *model.Problem
	TaskErr    error
	History    []model.Submission
	HistoryErr error
}

// Results fetches the task and the caller's history concurrently.
func (s *SubmissionService) Results(ctx context.Context, auth backend.Auth, taskID string) *ResultsPage {
	page := &ResultsPage{}
	var g errgroup.Group
	g.Go(func() error {
		page.Task, page.TaskErr = s.api.GetTask(ctx, auth, taskID)
		if page.TaskErr != nil {
			page.TaskErr = common.Errorf("load task %s: %w", taskID, page.TaskErr)
		}
		return nil
	})
	g.Go(func() error {
		page.History, page.HistoryErr = s.History(ctx, auth, taskID)
		if page.HistoryErr != nil {
			page.HistoryErr = common.Errorf("load history for %s: %w", taskID, page.HistoryErr)
		}
		return nil
	})
	_ = g.Wait()
	return page
}

// SubmissionMessage is the user-facing text for a failed upload or submit.
// Backend rejections with a structured body are shown verbatim.
func SubmissionMessage(err error) string {
	if detail, ok := common.IsSubmissionNotAllowed(err); ok && detail != "" {
		return detail
	}
	switch {
	case errors.Is(err, common.ErrNoFileSelected):
		return MsgUploadFirst
	case errors.Is(err, ErrNoRepository):
		return MsgSelectRepository
	case errors.Is(err, common.ErrInFlight):
		return MsgInFlight
	}
	log.Printf("ERROR: submission failed: %v", err)
	return MsgSubmissionError
}
