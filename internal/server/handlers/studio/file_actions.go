package studio

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/blueprintstudio/blueprintstudio/internal/server/validation"
)

func (h *Handler) filesList(c *fiber.Ctx) error {
	showHidden := c.QueryBool("show_hidden", false)

	entries, err := h.files.List(showHidden)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"entries": entries})
}

func (h *Handler) fileRead(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path is required")
	}

	content, err := h.files.Read(path)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"file": content})
}

func (h *Handler) fileWrite(c *fiber.Ctx) error {
	var req WriteFileRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.files.Write(req.Path, req.Content, req.IsBase64); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "file written"})
}

func (h *Handler) fileDelete(c *fiber.Ctx) error {
	var req PathRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.files.Delete(req.Path); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "deleted"})
}

func (h *Handler) fileCopy(c *fiber.Ctx) error {
	var req CopyRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.files.Copy(req.Source, req.Destination); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "copied"})
}

func (h *Handler) fileRename(c *fiber.Ctx) error {
	var req CopyRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.files.Rename(req.Source, req.Destination); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "renamed"})
}

func (h *Handler) folderCreate(c *fiber.Ctx) error {
	var req PathRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.files.CreateFolder(req.Path); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "folder created"})
}

func (h *Handler) filesArchive(c *fiber.Ctx) error {
	var req ArchiveRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	archivePath, err := h.files.Archive(req.Paths)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return err
	}
	if err := os.Remove(archivePath); err != nil {
		h.logger.Warn("failed to remove archive", zap.String("path", archivePath), zap.Error(err))
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filepath.Base(archivePath)+`"`)

	return c.Send(data)
}

func (h *Handler) filesExtract(c *fiber.Ctx) error {
	var req ExtractRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	count, err := h.files.Extract(req.Path, req.ZipData)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"extracted": count})
}

func (h *Handler) assistGenerate(c *fiber.Ctx) error {
	var req AssistRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	suggestion, err := h.assist.Generate(req.Query)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"suggestion": suggestion})
}

func (h *Handler) assistCheckYAML(c *fiber.Ctx) error {
	var req CheckYAMLRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"result": h.assist.CheckYAML(req.Content)})
}

func (h *Handler) settingsGet(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "key is required")
	}

	value, found := h.settings.Setting(key)

	return h.ok(c, fiber.Map{"key": key, "value": value, "found": found})
}

func (h *Handler) settingsSave(c *fiber.Ctx) error {
	var req SettingSaveRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.settings.SaveSetting(req.Key, req.Value); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "setting saved"})
}
