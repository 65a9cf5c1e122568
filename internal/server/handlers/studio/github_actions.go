package studio

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blueprintstudio/blueprintstudio/internal/server/validation"
)

func (h *Handler) githubCreateRepo(c *fiber.Ctx) error {
	var req CreateRepoRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	repo, err := h.github.CreateRepo(c.UserContext(), req.RepoName, req.Description, req.IsPrivate)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"repo": repo})
}

func (h *Handler) githubSetDefaultBranch(c *fiber.Ctx) error {
	var req BranchRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	if err := h.github.SetDefaultBranch(c.UserContext(), req.Branch); err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"message": "default branch set to " + req.Branch})
}

func (h *Handler) githubDeviceFlowStart(c *fiber.Ctx) error {
	var req DeviceStartRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	auth, err := h.github.StartDeviceFlow(c.UserContext(), req.ClientID)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"auth": auth})
}

func (h *Handler) githubDeviceFlowPoll(c *fiber.Ctx) error {
	var req DevicePollRequest
	if err := validation.DecodeBody(h.validator, c, &req); err != nil {
		return err
	}

	result, err := h.github.PollDeviceFlow(c.UserContext(), req.ClientID, req.DeviceCode)
	if err != nil {
		return err
	}

	return h.ok(c, fiber.Map{"result": result})
}
