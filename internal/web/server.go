// Package web serves the preprints pages over HTTP.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/KaramelBytes/preprints/internal/config"
	"github.com/KaramelBytes/preprints/internal/content"
	"github.com/KaramelBytes/preprints/internal/provider"
	"github.com/KaramelBytes/preprints/internal/router"
	"github.com/KaramelBytes/preprints/internal/runloop"
	"github.com/KaramelBytes/preprints/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders pages for the installed route table.
type Server struct {
	cfg    *config.Global
	router *router.Router
	theme  provider.Theme
	store  *store.Store
	log    zerolog.Logger
	tmpl   *template.Template
	slugs  map[string]bool
	// prefix is root_url without its trailing slash; empty when mounted at /.
	prefix string
}

// NewServer parses the page templates and wires the collaborators resolved at
// boot.
func NewServer(cfg *config.Global, r *router.Router, theme provider.Theme, st *store.Store, log zerolog.Logger) (*Server, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"safeMarkup": SafeMarkup,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]bool, len(cfg.Providers))
	for _, p := range cfg.Providers {
		slugs[p.ID] = true
	}
	return &Server{
		cfg:    cfg,
		router: r,
		theme:  theme,
		store:  st,
		log:    log.With().Str("component", "web").Logger(),
		tmpl:   tmpl,
		slugs:  slugs,
		prefix: mountPrefix(cfg.RootURL),
	}, nil
}

func mountPrefix(rootURL string) string {
	trimmed := strings.Trim(rootURL, "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

// unmount strips the root_url prefix. It reports false for paths outside the
// mount point.
func (s *Server) unmount(path string) (string, bool) {
	if s.prefix == "" {
		return path, true
	}
	if path == s.prefix {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(path, s.prefix+"/"); ok {
		return "/" + rest, true
	}
	return "", false
}

// href mounts a generated route path under root_url.
func (s *Server) href(path string) string {
	return s.prefix + path
}

type links struct {
	Index    string
	Discover string
	Submit   string
}

type listItem struct {
	Title string
	Href  string
}

type detailView struct {
	*content.Controller
	License string
}

// The share links are already percent-encoded. html/template re-encodes
// ' ( and ) even in template.URL values, so each link is emitted as a whole
// href attribute with only the HTML-significant characters escaped.
var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&#34;", "<", "&lt;", ">", "&gt;")

func hrefAttr(u string) template.HTMLAttr {
	return template.HTMLAttr(`href="` + attrEscaper.Replace(u) + `"`)
}

func (d *detailView) TwitterLink() template.HTMLAttr  { return hrefAttr(d.TwitterHref()) }
func (d *detailView) FacebookLink() template.HTMLAttr { return hrefAttr(d.FacebookHref()) }
func (d *detailView) LinkedinLink() template.HTMLAttr { return hrefAttr(d.LinkedinHref()) }
func (d *detailView) EmailLink() template.HTMLAttr    { return hrefAttr(d.EmailHref()) }

type page struct {
	Route     string
	Title     string
	Message   string
	Theme     provider.Theme
	Links     links
	Preprints []listItem
	Detail    *detailView
}

// ServeHTTP recognizes the path, renders the page, and then flushes the
// after-render queue so tracking sees the finished transition.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	q := runloop.NewQueue()
	defer q.Flush()

	m := router.Match{Name: router.PageNotFound}
	if rel, mounted := s.unmount(r.URL.Path); mounted {
		if rm, ok := s.router.Table().Recognize(rel); ok {
			m = rm
		}
	}
	status, pg := s.resolve(r, m)
	routeName := m.Name
	if pg.Route == router.PageNotFound {
		routeName = router.PageNotFound
	}
	s.router.DidTransition(r.Context(), q, router.Transition{Pathname: r.URL.Path, RouteName: routeName})

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "layout", pg); err != nil {
		s.log.Error().Err(err).Str("route", pg.Route).Msg("render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodGet {
		_, _ = w.Write(buf.Bytes())
	}
	s.log.Debug().Str("path", r.URL.Path).Str("route", m.Name).Int("status", status).Msg("rendered")
}

func (s *Server) resolve(r *http.Request, m router.Match) (int, page) {
	pg := page{Route: baseRoute(m.Name), Theme: s.theme, Links: s.links(m.Param("slug"))}
	if slug := m.Param("slug"); slug != "" && !s.slugs[slug] {
		return s.notFound(pg, "Unknown preprint provider.")
	}
	switch pg.Route {
	case router.Index:
		pg.Title = "Preprints"
		if s.theme.IsDomain {
			pg.Title = s.theme.ID + " Preprints"
		}
	case router.Submit:
		pg.Title = "Submit"
	case router.Discover:
		pg.Title = "Discover"
		pg.Preprints = s.listing(s.providerFilter(m.Param("slug")))
	case router.Content:
		return s.detail(r, m, pg)
	case router.Forbidden:
		pg.Title = "Forbidden"
		return http.StatusForbidden, pg
	default:
		return s.notFound(pg, "The page you requested does not exist.")
	}
	return http.StatusOK, pg
}

func (s *Server) notFound(pg page, msg string) (int, page) {
	pg.Route = router.PageNotFound
	pg.Title = "Page not found"
	pg.Message = msg
	return http.StatusNotFound, pg
}

func (s *Server) detail(r *http.Request, m router.Match, pg page) (int, page) {
	p, n, err := s.store.Get(m.Param("preprint_id"))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error().Err(err).Msg("load preprint")
		}
		return s.notFound(pg, "That preprint could not be found.")
	}
	ctrl := content.NewController(s.pageURL(r), s.cfg.FBAppID)
	ctrl.Preprint = p
	ctrl.Node = n

	qs := r.URL.Query()
	if qs.Get("expanded") == "1" {
		ctrl.ExpandAbstract()
	}
	if qs.Get("license") == "1" {
		ctrl.ToggleLicenseText()
	}
	if qs.Get("mfr") == "full" {
		ctrl.ExpandMFR()
	}
	if id := qs.Get("file"); id == "" || !ctrl.ChooseFileByID(id) {
		if len(p.Files) > 0 {
			ctrl.ChooseFile(&p.Files[0])
		}
	}

	pg.Title = ctrl.Title()
	pg.Detail = &detailView{Controller: ctrl, License: p.License}
	return http.StatusOK, pg
}

// providerFilter limits listings to the branded provider or the provider in
// the URL.
func (s *Server) providerFilter(slug string) string {
	if slug != "" {
		return slug
	}
	if s.theme.IsDomain {
		return s.theme.ID
	}
	return ""
}

func (s *Server) listing(providerID string) []listItem {
	tbl := s.router.Table()
	var out []listItem
	for _, p := range s.store.List(providerID) {
		href, err := tbl.Generate(router.Content, map[string]string{"preprint_id": p.ID})
		if tbl.Mode() == router.Nested && p.Provider != "" && s.slugs[p.Provider] {
			href, err = tbl.Generate(router.ProviderContent, map[string]string{"slug": p.Provider, "preprint_id": p.ID})
		}
		if err != nil {
			continue
		}
		title := p.Title
		if _, n, err := s.store.Get(p.ID); err == nil && n != nil && n.Title != "" {
			title = n.Title
		}
		out = append(out, listItem{Title: title, Href: s.href(href)})
	}
	return out
}

func (s *Server) links(slug string) links {
	tbl := s.router.Table()
	gen := func(name, providerName string) string {
		if slug != "" && tbl.Mode() == router.Nested {
			if u, err := tbl.Generate(providerName, map[string]string{"slug": slug}); err == nil {
				return s.href(u)
			}
		}
		u, _ := tbl.Generate(name, nil)
		return s.href(u)
	}
	return links{
		Index:    gen(router.Index, router.ProviderIndex),
		Discover: gen(router.Discover, router.ProviderDisc),
		Submit:   gen(router.Submit, router.ProviderSubmit),
	}
}

// baseRoute maps provider child routes onto the page they render.
func baseRoute(name string) string {
	if name == router.ProviderIndex {
		return router.Index
	}
	return strings.TrimPrefix(name, router.Provider+".")
}

// pageURL is the shared address of the current page. It is built from the
// configured public_url, or from the configured hostname, and never from
// request headers.
func (s *Server) pageURL(r *http.Request) string {
	if base := strings.TrimRight(s.cfg.PublicURL, "/"); base != "" {
		return base + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := s.cfg.Hostname
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host + r.URL.RequestURI()
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  seconds(s.cfg.ReadTimeoutSec, 15),
		WriteTimeout: seconds(s.cfg.WriteTimeoutSec, 30),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), seconds(s.cfg.ShutdownTimeoutSec, 10))
		defer cancel()
		return srv.Shutdown(sctx)
	})
	s.log.Info().Str("addr", ln.Addr().String()).Str("theme", s.theme.ID).Bool("branded", s.theme.IsDomain).Msg("serving")
	return g.Wait()
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
