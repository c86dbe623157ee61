package cmd

import (
	"github.com/spf13/cobra"

	"github.com/magidevv/authflows/internal/fakeapp"
	"github.com/magidevv/authflows/internal/observability"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fake application the scenarios can run against",
		Long: `Serve an in-memory stand-in for the application under test. The
configured fakeapp.username is seeded as an active account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			srv, err := fakeapp.New(cfg.FakeApp(), observability.GetLogger())
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	serveCmd.Flags().String("addr", "", "Listen address. (Overrides config/env)")
	serveCmd.Flags().String("variant", "", "Application to imitate, 'tracker' or 'portal'. (Overrides config/env)")
	configFlag(serveCmd, "addr", "fakeapp.addr")
	configFlag(serveCmd, "variant", "fakeapp.variant")
	return serveCmd
}
