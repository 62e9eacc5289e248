package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWithServices(geminiServices)
}

func newRootCommandWithServices(services serviceFactory) *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag, services)

	rootCmd := &cobra.Command{
		Use:           "posterdrop",
		Short:         "Generate advertising posters and location videos for product images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default ./posterdrop.yaml)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newGenerateCommand(ctx))

	return rootCmd
}
