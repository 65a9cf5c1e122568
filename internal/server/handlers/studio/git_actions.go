package studio

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/blueprintstudio/blueprintstudio/internal/server/validation"
)

const defaultCommitMessage = "Update from Blueprint Studio"

func (h *Handler) gitStatus(c *fiber.Ctx) error {
	fetch := c.QueryBool("fetch", false)

	state, err := h.git.Status(c.UserContext(), fetch)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"repo": state})
}

func (h *Handler) gitLog(c *fiber.Ctx) error {
	count := c.QueryInt("count", 20)
	if count < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "count must be positive, got "+strconv.Itoa(count))
	}

	commits, err := h.git.Log(c.UserContext(), count)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"commits": commits})
}

func (h *Handler) gitDiffCommit(c *fiber.Ctx) error {
	hash := c.Query("hash")
	if hash == "" {
		return fiber.NewError(fiber.StatusBadRequest, "hash is required")
	}

	diff, err := h.git.DiffCommit(c.UserContext(), hash)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"diff": diff})
}

func (h *Handler) gitShow(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path is required")
	}

	content, err := h.git.Show(c.UserContext(), path)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"content": content})
}

func (h *Handler) gitGetRemotes(c *fiber.Ctx) error {
	remotes, err := h.git.Remotes(c.UserContext())
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"remotes": remotes})
}

func (h *Handler) gitGetCredentials(c *fiber.Ctx) error {
	username, has := h.git.CredentialInfo()

	return h.ok(c, fiber.Map{
		"has_credentials": has,
		"username":        username,
	})
}

func (h *Handler) gitPull(c *fiber.Ctx) error {
	message, err := h.git.Pull(c.UserContext())
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitPush(c *fiber.Ctx) error {
	var req CommitRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if req.CommitMessage == "" {
		req.CommitMessage = defaultCommitMessage
	}

	message, err := h.git.Push(c.UserContext(), req.CommitMessage)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitPushOnly(c *fiber.Ctx) error {
	message, err := h.git.PushOnly(c.UserContext())
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitCommit(c *fiber.Ctx) error {
	var req CommitRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if req.CommitMessage == "" {
		req.CommitMessage = defaultCommitMessage
	}

	message, err := h.git.Commit(c.UserContext(), req.CommitMessage)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitInit(c *fiber.Ctx) error {
	message, err := h.git.Init(c.UserContext())
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitAddRemote(c *fiber.Ctx) error {
	var req AddRemoteRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	message, err := h.git.AddRemote(c.UserContext(), req.Name, req.URL)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitRemoveRemote(c *fiber.Ctx) error {
	var req RemoveRemoteRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.RemoveRemote(c.UserContext(), req.Name); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "remote " + req.Name + " removed"})
}

func (h *Handler) gitDeleteRepo(c *fiber.Ctx) error {
	message, err := h.git.DeleteRepo()
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitRepairIndex(c *fiber.Ctx) error {
	if err := h.git.RepairIndex(c.UserContext()); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "index rebuilt"})
}

func (h *Handler) gitRenameBranch(c *fiber.Ctx) error {
	var req RenameBranchRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.RenameBranch(c.UserContext(), req.OldName, req.NewName); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "branch renamed to " + req.NewName})
}

func (h *Handler) gitMergeUnrelated(c *fiber.Ctx) error {
	var req RemoteBranchRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.MergeUnrelated(c.UserContext(), req.Remote, req.Branch); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "histories merged"})
}

func (h *Handler) gitForcePush(c *fiber.Ctx) error {
	message, err := h.git.ForcePush(c.UserContext())
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitHardReset(c *fiber.Ctx) error {
	var req RemoteBranchRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.HardReset(c.UserContext(), req.Remote, req.Branch); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "reset to " + req.Remote + "/" + req.Branch})
}

func (h *Handler) gitDeleteRemoteBranch(c *fiber.Ctx) error {
	var req BranchRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.DeleteRemoteBranch(c.UserContext(), req.Branch); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "remote branch " + req.Branch + " deleted"})
}

func (h *Handler) gitAbort(c *fiber.Ctx) error {
	message, err := h.git.Abort(c.UserContext())
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": message})
}

func (h *Handler) gitStage(c *fiber.Ctx) error {
	var req FileListRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.Stage(c.UserContext(), req.Files); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "files staged"})
}

func (h *Handler) gitUnstage(c *fiber.Ctx) error {
	var req FileListRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.Unstage(c.UserContext(), req.Files); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "files unstaged"})
}

func (h *Handler) gitReset(c *fiber.Ctx) error {
	var req FileListRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.ResetFiles(c.UserContext(), req.Files); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "files reset"})
}

func (h *Handler) gitCleanLocks(c *fiber.Ctx) error {
	removed, err := h.git.CleanLocks()
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"removed": removed})
}

func (h *Handler) gitStopTracking(c *fiber.Ctx) error {
	var req FileListRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.StopTracking(c.UserContext(), req.Files); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "files removed from tracking"})
}

func (h *Handler) gitSetCredentials(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.git.SetCredentials(c.UserContext(), req.Username, req.Token, req.RememberMe); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "credentials saved"})
}

func (h *Handler) gitClearCredentials(c *fiber.Ctx) error {
	if err := h.git.ClearCredentials(c.UserContext()); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "credentials cleared"})
}

func (h *Handler) gitTestConnection(c *fiber.Ctx) error {
	if err := h.git.TestConnection(c.UserContext()); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "connection ok"})
}
