package handlers

import (
	"errors"

	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
)

var signableFolders = map[string]string{
	"profiles":   services.FolderProfiles,
	"thumbnails": services.FolderThumbnails,
}

// GenerateUploadSignature signs a direct browser upload of an avatar or course thumbnail.
func GenerateUploadSignature(c *fiber.Ctx) error {
	folder, ok := signableFolders[c.Query("folder", "profiles")]
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "folder must be profiles or thumbnails")
	}

	sig, err := services.SignUpload(folder)
	if errors.Is(err, services.ErrStorageNotConfigured) {
		return utils.Fail(c, fiber.StatusServiceUnavailable, "File uploads are not configured")
	}
	if err != nil {
		return utils.ServerError(c, err, "Failed to sign upload params")
	}
	return utils.OK(c, sig)
}
