package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// longCommands get the long timeout class.
var longCommands = []string{"add", "commit", "push", "pull", "clone", "fetch"}

// authCommands talk to the remote and get transient credential injection.
var authCommands = []string{"push", "pull", "fetch", "clone"}

// Runner executes git commands against the workspace. It is the single
// seam between the orchestration layer and the external binary.
type Runner interface {
	Run(ctx context.Context, args ...string) CommandResult
}

// ExecRunner shells out to the git binary with the working directory pinned
// to the workspace root and the root asserted as a safe directory.
type ExecRunner struct {
	config Config
	root   string
	vault  *Vault

	logger *zap.Logger
}

func NewExecRunner(config Config, root string, vault *Vault, logger *zap.Logger) *ExecRunner {
	return &ExecRunner{
		config: config.withDefaults(),
		root:   root,
		vault:  vault,
		logger: logger,
	}
}

func (r *ExecRunner) timeoutFor(args []string) time.Duration {
	if lo.Some(args, longCommands) {
		return r.config.LongTimeout
	}

	return r.config.ShortTimeout
}

// Run executes git with the given arguments. Networked commands get the
// credential helper injected for exactly this invocation when credentials
// are available.
func (r *ExecRunner) Run(ctx context.Context, args ...string) CommandResult {
	base := []string{"-c", "safe.directory=" + r.root}

	if lo.Some(args, authCommands) {
		if creds, ok := r.vault.Get(); ok {
			var result CommandResult
			err := r.vault.WithHelper(creds, func(helper string) error {
				withHelper := append(base, "-c", "credential.helper="+helper)
				result = r.exec(ctx, append(withHelper, args...))
				return nil
			})
			if err != nil {
				return CommandResult{Success: false, Error: err.Error()}
			}
			return result
		}
	}

	return r.exec(ctx, append(base, args...))
}

func (r *ExecRunner) exec(ctx context.Context, args []string) CommandResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeoutFor(args))
	defer cancel()

	cmd := exec.CommandContext(ctx, r.config.Binary, args...)
	cmd.Dir = r.root
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return CommandResult{Success: true, Output: stdout.String()}
	}

	r.logger.Debug("git command failed",
		zap.Strings("args", args),
		zap.Error(err))

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return CommandResult{Success: false, Output: stdout.String(),
			Error: fmt.Sprintf("%s: %s", ErrTimeout.Error(), r.timeoutFor(args))}
	case errors.Is(err, exec.ErrNotFound):
		return CommandResult{Success: false, Error: ErrGitNotFound.Error()}
	}

	diagnostic := stderr.String()
	if diagnostic == "" {
		diagnostic = ErrCommand.Error()
	}

	return CommandResult{Success: false, Output: stdout.String(), Error: diagnostic}
}
