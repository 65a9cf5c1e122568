// Package studio exposes the single action-dispatch endpoint: every
// operation is a dispatch key, reads take query parameters, writes take a
// JSON body, and every response uses the {success, ...} envelope.
package studio

import (
	"errors"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/blueprintstudio/blueprintstudio/internal/assist"
	"github.com/blueprintstudio/blueprintstudio/internal/files"
	"github.com/blueprintstudio/blueprintstudio/internal/github"
	"github.com/blueprintstudio/blueprintstudio/internal/gitops"
	"github.com/blueprintstudio/blueprintstudio/internal/settings"
	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

type Handler struct {
	git      *gitops.Service
	github   *github.Service
	files    *files.Service
	assist   *assist.Service
	settings *settings.Store

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	git *gitops.Service,
	gh *github.Service,
	filesSvc *files.Service,
	assistSvc *assist.Service,
	store *settings.Store,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		git:       git,
		github:    gh,
		files:     filesSvc,
		assist:    assistSvc,
		settings:  store,
		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r.Use("/studio", h.recoverHandler)
	r.Get("/studio", h.dispatchRead)
	r.Post("/studio", h.dispatchWrite)
}

func (h *Handler) dispatchRead(c *fiber.Ctx) error {
	action := c.Query("action")

	if read := h.readAction(action); read != nil {
		return read(c)
	}

	return h.fail(c, fiber.StatusBadRequest, "unknown action: "+action)
}

// readAction resolves query-parameterized actions, served on both verbs.
func (h *Handler) readAction(action string) fiber.Handler {
	switch action {
	case "git_status":
		return h.gitStatus
	case "git_log":
		return h.gitLog
	case "git_diff_commit":
		return h.gitDiffCommit
	case "git_show":
		return h.gitShow
	case "git_get_remotes":
		return h.gitGetRemotes
	case "git_get_credentials":
		return h.gitGetCredentials
	case "files_list":
		return h.filesList
	case "file_read":
		return h.fileRead
	case "settings_get":
		return h.settingsGet
	}

	return nil
}

func (h *Handler) dispatchWrite(c *fiber.Ctx) error {
	action := c.Query("action")

	switch action {
	case "git_pull":
		return h.gitPull(c)
	case "git_push":
		return h.gitPush(c)
	case "git_push_only":
		return h.gitPushOnly(c)
	case "git_commit":
		return h.gitCommit(c)
	case "git_init":
		return h.gitInit(c)
	case "git_add_remote":
		return h.gitAddRemote(c)
	case "git_remove_remote":
		return h.gitRemoveRemote(c)
	case "git_delete_repo":
		return h.gitDeleteRepo(c)
	case "git_repair_index":
		return h.gitRepairIndex(c)
	case "git_rename_branch":
		return h.gitRenameBranch(c)
	case "git_merge_unrelated":
		return h.gitMergeUnrelated(c)
	case "git_force_push":
		return h.gitForcePush(c)
	case "git_hard_reset":
		return h.gitHardReset(c)
	case "git_delete_remote_branch":
		return h.gitDeleteRemoteBranch(c)
	case "git_abort":
		return h.gitAbort(c)
	case "git_stage":
		return h.gitStage(c)
	case "git_unstage":
		return h.gitUnstage(c)
	case "git_reset":
		return h.gitReset(c)
	case "git_clean_locks":
		return h.gitCleanLocks(c)
	case "git_stop_tracking":
		return h.gitStopTracking(c)
	case "git_set_credentials":
		return h.gitSetCredentials(c)
	case "git_clear_credentials":
		return h.gitClearCredentials(c)
	case "git_test_connection":
		return h.gitTestConnection(c)
	case "github_create_repo":
		return h.githubCreateRepo(c)
	case "github_set_default_branch":
		return h.githubSetDefaultBranch(c)
	case "github_device_flow_start":
		return h.githubDeviceFlowStart(c)
	case "github_device_flow_poll":
		return h.githubDeviceFlowPoll(c)
	case "file_write":
		return h.fileWrite(c)
	case "file_delete":
		return h.fileDelete(c)
	case "file_copy":
		return h.fileCopy(c)
	case "file_rename":
		return h.fileRename(c)
	case "folder_create":
		return h.folderCreate(c)
	case "files_archive":
		return h.filesArchive(c)
	case "files_extract":
		return h.filesExtract(c)
	case "assist_generate":
		return h.assistGenerate(c)
	case "assist_check_yaml":
		return h.assistCheckYAML(c)
	case "settings_save":
		return h.settingsSave(c)
	}

	if read := h.readAction(action); read != nil {
		return read(c)
	}

	return h.fail(c, fiber.StatusBadRequest, "unknown action: "+action)
}

// recoverHandler converts any error escaping an action into the standard
// envelope; nothing propagates past this boundary.
func (h *Handler) recoverHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	status, message := h.classify(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("action failed",
			zap.String("action", c.Query("action")),
			zap.Error(err))
	}

	return h.fail(c, status, message)
}

// classify maps an error onto the response status by its nature, not by
// the subprocess's exit semantics.
func (h *Handler) classify(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message
	}

	switch {
	case errors.Is(err, gitops.ErrNotInitialized),
		errors.Is(err, gitops.ErrNoCommits),
		errors.Is(err, gitops.ErrDirtyWorktree),
		errors.Is(err, gitops.ErrCurrentBranch),
		errors.Is(err, gitops.ErrConnectionFailed),
		errors.Is(err, github.ErrRepoIdentity),
		errors.Is(err, github.ErrNoOrigin),
		errors.Is(err, github.ErrDeviceFlow),
		errors.Is(err, assist.ErrEmptyQuery):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, github.ErrAuthRequired):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, workspace.ErrUnsafePath),
		errors.Is(err, workspace.ErrProtectedPath):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, files.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, github.ErrRepoExists):
		return fiber.StatusConflict, err.Error()
	}

	return fiber.StatusInternalServerError, err.Error()
}

// ok responds with the success envelope merged over the payload.
func (h *Handler) ok(c *fiber.Ctx, payload fiber.Map) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	payload["success"] = true

	return c.JSON(payload)
}

func (h *Handler) fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
