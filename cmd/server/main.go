package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-rest-auth-starter/internal/app"
)

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "REST API with JWT auth, token rotation and user management",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.InitializeApp(ctx)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
