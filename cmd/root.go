package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "userbot",
		Short:         "Telegram userbot: multi-account login and chat automation",
		Long:          "userbot logs into one or more Telegram accounts, applies a fixed profile makeover, and reacts to chat command triggers (mass ban, service-message cleanup, status, bulk join/leave).",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runMenu(cmd, app)
	}

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
