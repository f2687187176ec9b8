package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 * 1024 * 1024 // 10MB

var (
	ErrNotAnImage = errors.New("file is not an image")
	ErrTooLarge   = errors.New("image exceeds the size limit")
)

// PhotoStorage writes uploaded images to local disk under a media root
// that the server exposes at /media.
type PhotoStorage struct {
	Root string
}

func NewPhotoStorage() *PhotoStorage {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "./media"
	}
	return &PhotoStorage{Root: root}
}

// SavePostPhoto stores a post photo as posts/photos/<username>-<token>.<ext>.
// The uuid token keeps every upload distinct, so posts never clobber each
// other even when one user uploads the same filename twice.
func (s *PhotoStorage) SavePostPhoto(file multipart.File, header *multipart.FileHeader, username string) (string, error) {
	if err := validateUpload(header); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s%s", username, uuid.NewString(), extension(header))
	return s.write(file, filepath.Join("posts", "photos"), name)
}

// SaveProfilePicture stores a profile picture as users/pictures/<username>.<ext>.
// Re-uploading overwrites: the filename carries no uniqueness token, and any
// earlier picture with the same stem but a different extension is removed.
func (s *PhotoStorage) SaveProfilePicture(file multipart.File, header *multipart.FileHeader, username string) (string, error) {
	if err := validateUpload(header); err != nil {
		return "", err
	}

	ext := extension(header)
	dir := filepath.Join("users", "pictures")

	// Drop stale pictures left behind by an upload with another extension.
	stale, _ := filepath.Glob(filepath.Join(s.Root, dir, username+".*"))
	for _, old := range stale {
		if filepath.Ext(old) != ext {
			os.Remove(old)
		}
	}

	return s.write(file, dir, username+ext)
}

func (s *PhotoStorage) write(file multipart.File, dir, name string) (string, error) {
	if err := os.MkdirAll(filepath.Join(s.Root, dir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.Root, dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return "/media/" + filepath.ToSlash(filepath.Join(dir, name)), nil
}

func validateUpload(header *multipart.FileHeader) error {
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return ErrNotAnImage
	}
	if header.Size > maxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

// extension returns the lowercased file extension, defaulting to .jpg.
func extension(header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
