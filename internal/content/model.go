package content

import "time"

// AdminPermission is the node permission that grants admin controls.
const AdminPermission = "admin"

// Preprint is a shared document. Its display fields live on the owning node;
// Title, Description and Tags here are used only when no node is attached.
type Preprint struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	NodeID      string    `json:"node_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	DOI         string    `json:"doi"`
	License     string    `json:"license"`
	Files       []File    `json:"files"`
	CreatedAt   time.Time `json:"created_at"`
}

// Node is the project that owns a preprint.
type Node struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Tags                   []string `json:"tags"`
	CurrentUserPermissions []string `json:"current_user_permissions"`
}

// File is a downloadable file attached to a preprint.
type File struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// HasPermission reports whether the viewing user holds perm on the node.
func (n *Node) HasPermission(perm string) bool {
	if n == nil {
		return false
	}
	for _, p := range n.CurrentUserPermissions {
		if p == perm {
			return true
		}
	}
	return false
}
