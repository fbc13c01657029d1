package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"teamforge/server/internal/middleware"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	MaxAvatarSize = 2 * 1024 * 1024 // 2MB
	avatarDir     = "avatars"
)

// allowedAvatarTypes maps sniffed MIME types onto the stored file extension.
var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadAvatar stores an avatar image and points the caller's profile at it
func (h *Handler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No avatar uploaded")
	}

	if file.Size > MaxAvatarSize {
		return fiber.NewError(fiber.StatusBadRequest, "Avatar size exceeds limit of 2MB")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	mtype, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil {
		return fmt.Errorf("detect avatar type: %w", err)
	}

	ext, allowed := allowedAvatarTypes[mtype.String()]
	if !allowed {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid image format. Allowed: jpeg, png, gif, webp")
	}

	uploadPath := filepath.Join(h.uploadDir, avatarDir)
	if err := os.MkdirAll(uploadPath, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(uploadPath, filename)); err != nil {
		return fmt.Errorf("save avatar: %w", err)
	}

	avatarURL := "/uploads/avatars/" + filename
	profile, err := h.profiles.SetAvatar(c.UserContext(), middleware.GetUserID(c), avatarURL)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, profile)
}

// GetAvatar serves a stored avatar
func (h *Handler) GetAvatar(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid file name")
	}

	filePath := filepath.Join(h.uploadDir, avatarDir, filename)
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	} else if err != nil {
		return fmt.Errorf("stat avatar: %w", err)
	}

	return c.SendFile(filePath)
}
