package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/preprints/internal/content"
	"github.com/KaramelBytes/preprints/internal/store"
	"github.com/spf13/cobra"
)

var (
	addID          string
	addProvider    string
	addTitle       string
	addDescription string
	addTags        []string
	addDOI         string
	addLicense     string
	addAdmin       bool
	addFiles       []string

	listProvider string
)

var preprintCmd = &cobra.Command{
	Use:   "preprint",
	Short: "Manage the local preprint store",
}

var preprintAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a preprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(addTitle) == "" {
			return fmt.Errorf("--title is required")
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(c.DataDir)
		if err != nil {
			return err
		}
		p := content.Preprint{
			ID:       addID,
			Provider: addProvider,
			Title:    addTitle,
			DOI:      addDOI,
			License:  addLicense,
		}
		for i, f := range addFiles {
			name, url, ok := strings.Cut(f, "=")
			if !ok {
				return fmt.Errorf("invalid --file %q (want name=url)", f)
			}
			p.Files = append(p.Files, content.File{ID: fmt.Sprintf("f%d", i+1), Name: name, DownloadURL: url})
		}
		n := &content.Node{
			Title:       addTitle,
			Description: addDescription,
			Tags:        addTags,
		}
		if addAdmin {
			n.CurrentUserPermissions = []string{"read", "write", content.AdminPermission}
		}
		id := st.Put(p, n)
		if err := st.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Preprint saved: %s\n", id)
		return nil
	},
}

var preprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(c.DataDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ps := st.List(listProvider)
		if len(ps) == 0 {
			fmt.Fprintln(out, "(no preprints)")
			return nil
		}
		for _, p := range ps {
			title := p.Title
			if _, n, err := st.Get(p.ID); err == nil && n != nil && n.Title != "" {
				title = n.Title
			}
			prov := p.Provider
			if prov == "" {
				prov = "-"
			}
			fmt.Fprintf(out, "- %s: %s [%s]\n", p.ID, title, prov)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preprintCmd)
	preprintCmd.AddCommand(preprintAddCmd)
	preprintCmd.AddCommand(preprintListCmd)

	f := preprintAddCmd.Flags()
	f.StringVar(&addID, "id", "", "preprint id (generated when empty)")
	f.StringVarP(&addProvider, "provider", "p", "", "provider id")
	f.StringVarP(&addTitle, "title", "t", "", "title")
	f.StringVarP(&addDescription, "desc", "d", "", "abstract")
	f.StringSliceVar(&addTags, "tag", nil, "tag (repeatable)")
	f.StringVar(&addDOI, "doi", "", "DOI")
	f.StringVar(&addLicense, "license", "", "license text")
	f.BoolVar(&addAdmin, "admin", false, "grant the viewing user admin on the node")
	f.StringArrayVar(&addFiles, "file", nil, "file as name=url (repeatable)")

	preprintListCmd.Flags().StringVarP(&listProvider, "provider", "p", "", "only list this provider's preprints")
}
