package gitops

// CommandResult is the uniform outcome of a single git invocation.
type CommandResult struct {
	Success bool   // exit status zero
	Output  string // captured stdout
	Error   string // diagnostic text when Success is false
}

// FileChangeSet groups worktree paths by their porcelain status. Staged and
// Unstaged are derived from the index and worktree columns; a path may
// appear in both but never twice within one list.
type FileChangeSet struct {
	Modified  []string `json:"modified"`
	Added     []string `json:"added"`
	Deleted   []string `json:"deleted"`
	Untracked []string `json:"untracked"`
	Staged    []string `json:"staged"`
	Unstaged  []string `json:"unstaged"`
}

// HasChanges reports whether any primary list is non-empty.
func (f FileChangeSet) HasChanges() bool {
	return len(f.Modified) > 0 || len(f.Added) > 0 || len(f.Deleted) > 0 || len(f.Untracked) > 0
}

// RepositoryState is derived fresh from the control directory on every
// status request. Nothing here is cached across calls.
type RepositoryState struct {
	IsInitialized  bool          `json:"is_initialized"`
	HasRemote      bool          `json:"has_remote"`
	CurrentBranch  string        `json:"current_branch,omitempty"`
	LocalBranches  []string      `json:"local_branches,omitempty"`
	RemoteBranches []string      `json:"remote_branches,omitempty"`
	Ahead          int           `json:"ahead"`
	Behind         int           `json:"behind"`
	RawStatus      string        `json:"status,omitempty"`
	HasChanges     bool          `json:"has_changes"`
	Files          FileChangeSet `json:"files"`
}

// CommitInfo is one entry of the commit log.
type CommitInfo struct {
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
	Author    string `json:"author"`
	Message   string `json:"message"`
}

// Credentials is the in-memory credential pair. Token is plaintext here;
// the persisted copy is obfuscated by the vault.
type Credentials struct {
	Username string
	Token    string
}
