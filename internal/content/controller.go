// Package content derives the display state of the preprint detail page.
package content

import (
	"strings"

	"github.com/KaramelBytes/preprints/internal/utils"
)

// ShortDescriptionLength is the rune count above which the abstract is shown
// abbreviated until expanded.
const ShortDescriptionLength = 350

// ViewState is the per-view toggle state of the detail page.
type ViewState struct {
	FullScreenMode      bool
	AuthorsExpanded     bool
	LicenseTextVisible  bool
	DownloadURL         string
	ActiveFile          *File
	ChosenFile          *File
	DescriptionExpanded bool
}

// Defaults is the state of a freshly opened detail page.
func Defaults() ViewState {
	return ViewState{AuthorsExpanded: true}
}

// Controller backs one detail-page view. Derived values are recomputed on
// every call so they always reflect the current preprint and node.
type Controller struct {
	Preprint *Preprint
	Node     *Node
	// PageURL is the absolute URL of the page being shared.
	PageURL string
	FBAppID string

	state ViewState
}

// NewController returns a controller with default view state and no records.
func NewController(pageURL, fbAppID string) *Controller {
	return &Controller{PageURL: pageURL, FBAppID: fbAppID, state: Defaults()}
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState { return c.state }

func (c *Controller) title() string {
	if c.Node != nil {
		return c.Node.Title
	}
	if c.Preprint != nil {
		return c.Preprint.Title
	}
	return ""
}

func (c *Controller) description() string {
	if c.Node != nil {
		return c.Node.Description
	}
	if c.Preprint != nil {
		return c.Preprint.Description
	}
	return ""
}

func (c *Controller) tags() []string {
	if c.Node != nil {
		return c.Node.Tags
	}
	if c.Preprint != nil {
		return c.Preprint.Tags
	}
	return nil
}

// Title is the display title.
func (c *Controller) Title() string { return c.title() }

// Description is the full abstract.
func (c *Controller) Description() string { return c.description() }

// Tags are the display tags.
func (c *Controller) Tags() []string { return c.tags() }

// IsAdmin is false when no node is attached.
func (c *Controller) IsAdmin() bool {
	return c.Node.HasPermission(AdminPermission)
}

func (c *Controller) TwitterHref() string {
	return "https://twitter.com/intent/tweet?url=" + EncodeURIComponent(c.PageURL) +
		"&text=" + EncodeURIComponent(c.title()) +
		"&via=OSFramework"
}

func (c *Controller) FacebookHref() string {
	loc := EncodeURIComponent(c.PageURL)
	return "https://www.facebook.com/dialog/share?app_id=" + c.FBAppID +
		"&display=popup&href=" + loc +
		"&redirect_uri=" + loc
}

func (c *Controller) LinkedinHref() string {
	return "https://www.linkedin.com/shareArticle?url=" + EncodeURIComponent(c.PageURL) +
		"&mini=true&title=" + EncodeURIComponent(c.title()) +
		"&summary=" + EncodeURIComponent(c.description()) +
		"&source=Open%20Science%20Framework"
}

func (c *Controller) EmailHref() string {
	return "mailto:?subject=" + EncodeURIComponent(c.title()) +
		"&body=" + EncodeURIComponent(c.PageURL)
}

func (c *Controller) HasTag() bool {
	return len(c.tags()) > 0
}

// DOIURL resolves the preprint DOI; it is empty when the preprint has none.
func (c *Controller) DOIURL() string {
	if c.Preprint == nil {
		return ""
	}
	doi := strings.TrimSpace(c.Preprint.DOI)
	if doi == "" {
		return ""
	}
	return "https://dx.doi.org/" + doi
}

func (c *Controller) HasShortenedDescription() bool {
	return len([]rune(c.description())) > ShortDescriptionLength
}

// ShortenedDescription cuts the abstract to ShortDescriptionLength runes and
// backs off to the last whole word.
func (c *Controller) ShortenedDescription() string {
	return utils.TruncateAtWord(c.description(), ShortDescriptionLength)
}

func (c *Controller) UseShortenedDescription() bool {
	return UseShortenedDescription(c.state.DescriptionExpanded, c.HasShortenedDescription())
}

// UseShortenedDescription is true only while a long abstract is collapsed.
func UseShortenedDescription(expandedAbstract, hasShortenedDescription bool) bool {
	return !expandedAbstract && hasShortenedDescription
}

func (c *Controller) ToggleLicenseText() {
	c.state.LicenseTextVisible = !c.state.LicenseTextVisible
}

func (c *Controller) ToggleAuthors() {
	c.state.AuthorsExpanded = !c.state.AuthorsExpanded
}

// ExpandMFR toggles full-screen display of the file renderer.
func (c *Controller) ExpandMFR() {
	c.state.FullScreenMode = !c.state.FullScreenMode
}

func (c *Controller) ExpandAbstract() {
	c.state.DescriptionExpanded = !c.state.DescriptionExpanded
}

// ChooseFile makes f the rendered and downloadable file. A nil file clears
// the selection.
func (c *Controller) ChooseFile(f *File) {
	c.state.ChosenFile = f
	c.state.ActiveFile = f
	if f == nil {
		c.state.DownloadURL = ""
		return
	}
	c.state.DownloadURL = f.DownloadURL
}

// ChooseFileByID selects the preprint file with the given id. It reports
// false and leaves the state alone when no such file exists.
func (c *Controller) ChooseFileByID(id string) bool {
	if c.Preprint == nil {
		return false
	}
	for i := range c.Preprint.Files {
		if c.Preprint.Files[i].ID == id {
			c.ChooseFile(&c.Preprint.Files[i])
			return true
		}
	}
	return false
}
