package studio

// Write-action request payloads. Reads take their parameters from the
// query string.

type CommitRequest struct {
	CommitMessage string `json:"commit_message"`
}

type AddRemoteRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url"  validate:"required"`
}

type RemoveRemoteRequest struct {
	Name string `json:"name" validate:"required"`
}

type FileListRequest struct {
	Files []string `json:"files" validate:"required,min=1"`
}

type RenameBranchRequest struct {
	OldName string `json:"old_name" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

type RemoteBranchRequest struct {
	Remote string `json:"remote" validate:"required"`
	Branch string `json:"branch" validate:"required"`
}

type BranchRequest struct {
	Branch string `json:"branch" validate:"required"`
}

type CredentialsRequest struct {
	Username   string `json:"username" validate:"required"`
	Token      string `json:"token"    validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type CreateRepoRequest struct {
	RepoName    string `json:"repo_name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPrivate   bool   `json:"is_private"`
}

type DeviceStartRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

type DevicePollRequest struct {
	ClientID   string `json:"client_id"   validate:"required"`
	DeviceCode string `json:"device_code" validate:"required"`
}

type WriteFileRequest struct {
	Path     string `json:"path" validate:"required"`
	Content  string `json:"content"`
	IsBase64 bool   `json:"is_base64"`
}

type PathRequest struct {
	Path string `json:"path" validate:"required"`
}

type CopyRequest struct {
	Source      string `json:"source"      validate:"required"`
	Destination string `json:"destination" validate:"required"`
}

type ArchiveRequest struct {
	Paths []string `json:"paths" validate:"required,min=1"`
}

type ExtractRequest struct {
	Path    string `json:"path"     validate:"required"`
	ZipData string `json:"zip_data" validate:"required"`
}

type AssistRequest struct {
	Query string `json:"query" validate:"required"`
}

type CheckYAMLRequest struct {
	Content string `json:"content" validate:"required"`
}

type SettingSaveRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}
