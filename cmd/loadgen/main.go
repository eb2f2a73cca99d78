package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go-rest-auth-starter/internal/tools/common"
	"go-rest-auth-starter/internal/tools/loadgen"
	"go-rest-auth-starter/internal/tools/ui"
)

func main() {
	var (
		baseURL     string
		profile     string
		duration    time.Duration
		rps         int
		concurrency int
		seed        int64
		ci          bool
	)

	root := &cobra.Command{
		Use:           "loadgen",
		Short:         "Generate synthetic auth and user traffic against a running instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = common.LoadEnvFile(".env")

			runFn := func(ctx context.Context) ([]string, error) {
				res, err := loadgen.Run(ctx, loadgen.Config{
					BaseURL:     baseURL,
					Profile:     profile,
					Duration:    duration,
					RPS:         rps,
					Concurrency: concurrency,
					Seed:        seed,
				})
				if err != nil {
					return nil, err
				}
				details := []string{
					fmt.Sprintf("total=%d failures=%d elapsed=%s", res.TotalRequests, res.Failures, res.Elapsed.Round(time.Millisecond)),
				}
				for class, count := range res.StatusCounts {
					details = append(details, fmt.Sprintf("%s=%d", class, count))
				}
				return details, nil
			}

			if ci {
				details, err := runFn(cmd.Context())
				common.PrintCIResult(err == nil, "loadgen", details, err)
				return err
			}
			details, err := ui.Run("loadgen "+profile, runFn)
			for _, d := range details {
				fmt.Println(d)
			}
			return err
		},
	}

	root.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL")
	root.Flags().StringVar(&profile, "profile", "mixed", "traffic profile: mixed, auth, users, health")
	root.Flags().DurationVar(&duration, "duration", 30*time.Second, "run duration")
	root.Flags().IntVar(&rps, "rps", 20, "target requests per second")
	root.Flags().IntVar(&concurrency, "concurrency", 4, "worker count")
	root.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	root.Flags().BoolVar(&ci, "ci", false, "non-interactive machine-readable output")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
