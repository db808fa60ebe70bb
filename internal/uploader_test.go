package internal

import (
	"context"
	"testing"

	"github.com/iksnae/pdfchat/testutil"
)

const testMaxBytes = int64(2 * 1024 * 1024)

func TestUploaderAdd(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	good := testutil.WritePDF(t, dir, "a.pdf", 10)
	bad := testutil.WriteFile(t, dir, "b.txt", []byte("not a pdf"))

	u := NewUploader(nil, testMaxBytes)
	u.Add([]string{good, bad})

	if len(u.Selected()) != 1 || u.Selected()[0] != good {
		t.Errorf("Selected() = %v, want [%s]", u.Selected(), good)
	}
	if u.Err() != "please upload PDF files only" {
		t.Errorf("Err() = %q", u.Err())
	}
}

func TestUploaderAddDedupesSelection(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	good := testutil.WritePDF(t, dir, "a.pdf", 10)

	u := NewUploader(nil, testMaxBytes)
	u.Add([]string{good})
	u.Add([]string{good})

	if len(u.Selected()) != 1 {
		t.Errorf("Selected() has %d entries after duplicate Add, want 1", len(u.Selected()))
	}
	if u.Err() != "" {
		t.Errorf("Err() = %q after a clean round, want empty", u.Err())
	}
}

func TestUploaderClearSelection(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	good := testutil.WritePDF(t, dir, "a.pdf", 10)
	bad := testutil.WriteFile(t, dir, "b.txt", []byte("x"))

	u := NewUploader(nil, testMaxBytes)
	u.Add([]string{good, bad})
	u.ClearSelection()

	if len(u.Selected()) != 0 || u.Err() != "" {
		t.Errorf("after ClearSelection: selected=%v err=%q", u.Selected(), u.Err())
	}
}

func TestUploaderUpload(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WritePDF(t, dir, "report.pdf", 50)

	u := NewUploader(NewClient(fb.URL()), testMaxBytes)
	staleFired := 0
	u.OnListingStale = func() { staleFired++ }

	u.Add([]string{path})
	result, err := u.Upload(context.Background())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result == nil {
		t.Fatal("Upload returned nil result")
	}

	uploads := fb.Uploads()
	if len(uploads) != 1 || uploads[0] != "report.pdf" {
		t.Errorf("backend received uploads %v, want [report.pdf]", uploads)
	}
	if staleFired != 1 {
		t.Errorf("OnListingStale fired %d times, want 1", staleFired)
	}
	if len(u.Selected()) != 0 {
		t.Errorf("selection not cleared after successful upload: %v", u.Selected())
	}
	if u.IsUploading("report.pdf") {
		t.Error("file still marked uploading after completion")
	}
}

func TestUploaderUploadEmptySelection(t *testing.T) {
	u := NewUploader(nil, testMaxBytes)
	staleFired := false
	u.OnListingStale = func() { staleFired = true }

	result, err := u.Upload(context.Background())
	if err != nil {
		t.Fatalf("Upload with empty selection errored: %v", err)
	}
	if result == nil {
		t.Fatal("Upload returned nil result")
	}
	if staleFired {
		t.Error("OnListingStale fired without any upload")
	}
}

func TestUploaderUploadFailureStillRefreshesListing(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WritePDF(t, dir, "report.pdf", 50)

	// Point the client at a closed server so the request fails.
	fb := testutil.NewFakeBackend(t)
	url := fb.URL()
	fb.Server.Close()

	u := NewUploader(NewClient(url), testMaxBytes)
	staleFired := false
	u.OnListingStale = func() { staleFired = true }

	u.Add([]string{path})
	if _, err := u.Upload(context.Background()); err == nil {
		t.Fatal("Upload against closed server succeeded")
	}
	if !staleFired {
		t.Error("OnListingStale did not fire after failed upload")
	}
	// The selection is kept so the user can retry.
	if len(u.Selected()) != 1 {
		t.Errorf("selection = %v after failed upload, want retained", u.Selected())
	}
}
