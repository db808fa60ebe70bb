package internal

import (
	"context"
	"path/filepath"
)

// Uploader tracks the upload view's state: the pending-selection list
// of validated files, the set of filenames currently uploading, and
// the single visible error string (last validation failure wins).
type Uploader struct {
	client   *Client
	maxBytes int64

	selected  []string
	uploading map[string]struct{}
	err       string

	// OnListingStale is invoked when the uploading set becomes empty,
	// so the view can refetch the uploaded-file listing.
	OnListingStale func()
}

// NewUploader creates an uploader bound to the HTTP facade.
func NewUploader(client *Client, maxBytes int64) *Uploader {
	return &Uploader{
		client:    client,
		maxBytes:  maxBytes,
		uploading: map[string]struct{}{},
	}
}

// Add validates candidates and appends the valid ones to the
// pending-selection list. Each valid file appears exactly once;
// invalid files set the error string.
func (u *Uploader) Add(paths []string) {
	valid, lastErr := ValidateFiles(paths, u.maxBytes)
	u.err = lastErr
	for _, path := range valid {
		if !u.contains(path) {
			u.selected = append(u.selected, path)
		}
	}
}

// Selected returns the pending-selection list.
func (u *Uploader) Selected() []string {
	return u.selected
}

// Err returns the visible validation error, empty when the last
// validation round succeeded.
func (u *Uploader) Err() string {
	return u.err
}

// ClearSelection empties the pending list and the error string.
func (u *Uploader) ClearSelection() {
	u.selected = nil
	u.err = ""
}

// IsUploading reports whether the named file is currently in flight.
func (u *Uploader) IsUploading(name string) bool {
	_, ok := u.uploading[name]
	return ok
}

// Upload sends the pending selection to the server. Filenames are held
// in the uploading set for per-item progress; once the set empties the
// listing refetch hook fires, success or not.
func (u *Uploader) Upload(ctx context.Context) (*UploadResult, error) {
	if len(u.selected) == 0 {
		return &UploadResult{}, nil
	}

	for _, path := range u.selected {
		u.uploading[filepath.Base(path)] = struct{}{}
	}

	result, err := u.client.UploadFiles(ctx, u.selected)

	for _, path := range u.selected {
		delete(u.uploading, filepath.Base(path))
	}
	if len(u.uploading) == 0 && u.OnListingStale != nil {
		u.OnListingStale()
	}

	if err != nil {
		return nil, err
	}
	u.selected = nil
	return result, nil
}

func (u *Uploader) contains(path string) bool {
	for _, p := range u.selected {
		if p == path {
			return true
		}
	}
	return false
}
