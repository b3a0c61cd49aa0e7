package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"

	"github.com/whatsons/members-api/config"
)

// Uploader stores uploaded files (logo, event images) in a Supabase bucket,
// or under a local assets directory when no Supabase project is configured.
type Uploader struct {
	cfg config.UploadConfig
}

func NewUploader(cfg config.UploadConfig) *Uploader {
	return &Uploader{cfg: cfg}
}

// Store writes the file and returns its public URL.
func (u *Uploader) Store(fh *multipart.FileHeader, fileID string, folder string) (string, error) {
	if u.cfg.SupabaseURL != "" && u.cfg.SupabaseKey != "" {
		return u.storeSupabase(fh, fileID, folder)
	}
	return u.storeLocal(fh, fileID)
}

func (u *Uploader) storeSupabase(fh *multipart.FileHeader, fileID string, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	objectPath := fileID + filepath.Ext(fh.Filename)
	if folder != "" {
		objectPath = folder + "/" + objectPath
	}

	client := storage.NewClient(u.cfg.SupabaseURL+"/storage/v1", u.cfg.SupabaseKey, nil)
	upsert := true
	opts := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := client.UploadFile(u.cfg.SupabaseBucket, objectPath, f, opts); err != nil {
		return "", err
	}

	publicURL := client.GetPublicUrl(u.cfg.SupabaseBucket, objectPath)
	return publicURL.SignedURL, nil
}

func (u *Uploader) storeLocal(fh *multipart.FileHeader, fileID string) (string, error) {
	if err := os.MkdirAll(u.cfg.LocalDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%s", fileID, filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(u.cfg.LocalDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/assets/" + name, nil
}
