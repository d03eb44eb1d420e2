package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"judge_web/internal/domain/model"
	"mime/multipart"
	"net/http"
	"net/url"
)

// UploadFile streams content to the file service as multipart form data
// with the file under "file" and its purpose under "fileType".
func (c *Client) UploadFile(ctx context.Context, auth Auth, fileType model.FileType, filename string, content io.Reader) (*model.StoredFile, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUpload(mw, fileType, filename, content)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	resp, err := c.send(ctx, auth, request{
		op:          "files.upload",
		method:      http.MethodPost,
		path:        "/api/files/upload",
		body:        pr,
		contentType: mw.FormDataContentType(),
	})
	// Unblocks the writer goroutine if the request ended before reading
	// the whole body.
	pr.Close()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stored model.StoredFile
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("files.upload: decode response: %w", err)
	}
	if stored.ID == "" {
		return nil, fmt.Errorf("files.upload: response carried no file id")
	}
	return &stored, nil
}

func writeUpload(mw *multipart.Writer, fileType model.FileType, filename string, content io.Reader) error {
	if err := mw.WriteField("fileType", string(fileType)); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, content)
	return err
}

// GitHubSaveZip snapshots a repository of the linked GitHub account into
// the file service.
func (c *Client) GitHubSaveZip(ctx context.Context, auth Auth, repo string) (*model.StoredFile, error) {
	var stored model.StoredFile
	if err := c.call(ctx, auth, "files.github_save_zip", http.MethodGet, "/api/files/github-save-zip/"+url.PathEscape(repo), nil, &stored); err != nil {
		return nil, err
	}
	if stored.ID == "" {
		return nil, fmt.Errorf("files.github_save_zip: response carried no file id")
	}
	return &stored, nil
}

type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// DownloadFile opens a stored blob. The caller must close Body.
func (c *Client) DownloadFile(ctx context.Context, auth Auth, fileID string) (*Download, error) {
	resp, err := c.send(ctx, auth, request{
		op:     "files.download",
		method: http.MethodGet,
		path:   "/api/files/download/" + url.PathEscape(fileID),
		accept: "*/*",
	})
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Download{Body: resp.Body, ContentType: contentType, ContentLength: resp.ContentLength}, nil
}
