package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/an4s911/library-fullstack/internal/api"
	"github.com/an4s911/library-fullstack/internal/config"
	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/query"
	"github.com/an4s911/library-fullstack/internal/ui"
)

// app holds everything a command needs; built once in PersistentPreRunE.
type app struct {
	cfg    config.Config
	client *api.Client
	store  *options.Store
	render ui.Renderer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Terminal frontend for the library catalog",
		Long:          "Browse, search and manage the shared book catalog from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			client, err := api.New(a.cfg.BaseURL,
				api.WithTimeout(a.cfg.Timeout),
				api.WithCookieFile(a.cfg.CookieFile()),
			)
			if err != nil {
				return err
			}
			a.client = client
			a.store = options.New(
				query.Default(a.cfg.PageSize),
				options.WithPrefsFile(a.cfg.PrefsFile()),
			)
			a.render = ui.Renderer{Out: os.Stdout}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// Django rotates session cookies; keep the jar current.
			if a.client != nil {
				_ = a.client.SaveCookies()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return browse(a)
		},
	}

	root.AddCommand(
		newBrowseCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newImportCmd(a),
		newBorrowCmd(a),
		newReturnCmd(a),
		newAllowBorrowCmd(a),
		newDeleteCmd(a),
		newFacetsCmd(a, api.FacetAuthor),
		newFacetsCmd(a, api.FacetGenre),
		newAddFacetCmd(a, api.FacetAuthor),
		newAddFacetCmd(a, api.FacetGenre),
		newLoginCmd(a),
		newLogoutCmd(a),
	)
	return root
}

func browse(a *app) error {
	return ui.NewShell(a.client, a.store, a.cfg.Timeout).Run()
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive catalog browser (the default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return browse(a)
		},
	}
}
