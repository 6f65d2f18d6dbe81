package content_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/preprints/internal/content"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "http://localhost:4200/preprints/abc12?x=1 2"

func newController() *content.Controller {
	return content.NewController(pageURL, "1022273774556662")
}

func TestInitialState(t *testing.T) {
	want := content.ViewState{
		FullScreenMode:     false,
		AuthorsExpanded:    true,
		LicenseTextVisible: false,
		DownloadURL:        "",
		ActiveFile:         nil,
		ChosenFile:         nil,
	}
	ctrl := newController()
	if diff := cmp.Diff(want, ctrl.State()); diff != "" {
		t.Fatalf("initial state (-want +got):\n%s", diff)
	}

	ctrl.Preprint = &content.Preprint{Title: "later"}
	ctrl.Node = &content.Node{Title: "later"}
	if diff := cmp.Diff(want, ctrl.State()); diff != "" {
		t.Fatalf("attaching records changed state (-want +got):\n%s", diff)
	}
}

func TestIsAdmin(t *testing.T) {
	ctrl := newController()
	assert.False(t, ctrl.IsAdmin())

	ctrl.Node = &content.Node{CurrentUserPermissions: []string{"read", "write"}}
	assert.False(t, ctrl.IsAdmin())

	ctrl.Node = &content.Node{CurrentUserPermissions: []string{"admin"}}
	assert.True(t, ctrl.IsAdmin())
}

func TestTwitterHref(t *testing.T) {
	ctrl := newController()
	ctrl.Node = &content.Node{Title: "test title"}
	loc := content.EncodeURIComponent(pageURL)
	assert.Equal(t,
		"https://twitter.com/intent/tweet?url="+loc+"&text=test%20title&via=OSFramework",
		ctrl.TwitterHref())
	assert.True(t, strings.HasSuffix(ctrl.TwitterHref(), "text=test%20title&via=OSFramework"))
}

func TestFacebookHref(t *testing.T) {
	ctrl := newController()
	loc := content.EncodeURIComponent(pageURL)
	assert.Equal(t,
		"https://www.facebook.com/dialog/share?app_id=1022273774556662&display=popup&href="+loc+"&redirect_uri="+loc,
		ctrl.FacebookHref())
}

func TestLinkedinHref(t *testing.T) {
	ctrl := newController()
	ctrl.Node = &content.Node{Title: "test title", Description: "test description"}
	loc := content.EncodeURIComponent(pageURL)
	assert.Equal(t,
		"https://www.linkedin.com/shareArticle?url="+loc+"&mini=true&title=test%20title&summary=test%20description&source=Open%20Science%20Framework",
		ctrl.LinkedinHref())
}

func TestEmailHref(t *testing.T) {
	ctrl := newController()
	ctrl.Node = &content.Node{Title: "test title"}
	assert.Equal(t,
		"mailto:?subject=test%20title&body="+content.EncodeURIComponent(pageURL),
		ctrl.EmailHref())
}

func TestShareLinksFollowMutation(t *testing.T) {
	ctrl := newController()
	node := &content.Node{Title: "first"}
	ctrl.Node = node
	require.Contains(t, ctrl.EmailHref(), "subject=first")
	node.Title = "second title"
	assert.Contains(t, ctrl.EmailHref(), "subject=second%20title")
}

func TestTitleFallsBackToPreprint(t *testing.T) {
	ctrl := newController()
	assert.Contains(t, ctrl.TwitterHref(), "&text=&via=")
	ctrl.Preprint = &content.Preprint{Title: "own title", Tags: []string{"x"}}
	assert.Contains(t, ctrl.TwitterHref(), "text=own%20title")
	assert.True(t, ctrl.HasTag())
}

func TestHasTag(t *testing.T) {
	ctrl := newController()
	ctrl.Node = &content.Node{Tags: []string{}}
	assert.False(t, ctrl.HasTag())
	ctrl.Node = &content.Node{Tags: []string{"a", "b", "c"}}
	assert.True(t, ctrl.HasTag())
}

func TestDOIURL(t *testing.T) {
	ctrl := newController()
	assert.Equal(t, "", ctrl.DOIURL())
	ctrl.Preprint = &content.Preprint{}
	assert.Equal(t, "", ctrl.DOIURL())
	ctrl.Preprint = &content.Preprint{DOI: "10.1037/rmh0000008"}
	assert.Equal(t, "https://dx.doi.org/10.1037/rmh0000008", ctrl.DOIURL())
}

func TestUseShortenedDescriptionTable(t *testing.T) {
	scenarios := []struct {
		expandedAbstract        bool
		hasShortenedDescription bool
		want                    bool
	}{
		{false, true, true},
		{true, true, false},
		{false, false, false},
		{true, false, false},
	}
	for _, s := range scenarios {
		assert.Equal(t, s.want, content.UseShortenedDescription(s.expandedAbstract, s.hasShortenedDescription), "%+v", s)
	}
}

func TestShortenedDescription(t *testing.T) {
	ctrl := newController()
	ctrl.Node = &content.Node{Description: "short"}
	assert.False(t, ctrl.HasShortenedDescription())
	assert.False(t, ctrl.UseShortenedDescription())

	long := strings.Repeat("word ", 100)
	ctrl.Node.Description = long
	require.True(t, ctrl.HasShortenedDescription())
	assert.True(t, ctrl.UseShortenedDescription())
	short := ctrl.ShortenedDescription()
	assert.LessOrEqual(t, len([]rune(short)), content.ShortDescriptionLength)
	assert.True(t, strings.HasSuffix(short, "word"))

	ctrl.ExpandAbstract()
	assert.False(t, ctrl.UseShortenedDescription())
}

func TestActions(t *testing.T) {
	ctrl := newController()
	ctrl.ToggleLicenseText()
	ctrl.ToggleAuthors()
	ctrl.ExpandMFR()
	st := ctrl.State()
	assert.True(t, st.LicenseTextVisible)
	assert.False(t, st.AuthorsExpanded)
	assert.True(t, st.FullScreenMode)

	ctrl.Preprint = &content.Preprint{Files: []content.File{
		{ID: "f1", Name: "a.pdf", DownloadURL: "https://files.example/f1?action=download"},
	}}
	assert.False(t, ctrl.ChooseFileByID("missing"))
	require.True(t, ctrl.ChooseFileByID("f1"))
	st = ctrl.State()
	assert.Equal(t, "https://files.example/f1?action=download", st.DownloadURL)
	assert.Same(t, st.ActiveFile, st.ChosenFile)

	ctrl.ChooseFile(nil)
	assert.Equal(t, content.Defaults().DownloadURL, ctrl.State().DownloadURL)
}
