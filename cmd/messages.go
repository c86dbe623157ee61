package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magidevv/authflows/internal/messages"
)

func newMessagesCmd() *cobra.Command {
	var locale string

	messagesCmd := &cobra.Command{
		Use:   "messages",
		Short: "Print the message catalog the scenarios assert against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := messages.Locale(locale)
			keys := messages.Keys(loc)
			if len(keys) == 0 {
				return fmt.Errorf("unknown locale %q (available: %v)", locale, messages.Locales())
			}
			out := cmd.OutOrStdout()
			for _, k := range keys {
				text, err := messages.Lookup(loc, k)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-24s %s\n", k, text)
			}
			return nil
		},
	}

	messagesCmd.Flags().StringVar(&locale, "locale", string(messages.English), "Catalog language.")
	return messagesCmd
}
