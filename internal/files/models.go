package files

// Entry is one listing row.
type Entry struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"` // "file" or "folder"
	Size int64  `json:"size,omitempty"`
}

// Content is a file payload, base64-encoded for binary types.
type Content struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"` // "utf-8" or "base64"
	MimeType string `json:"mime_type,omitempty"`
}
