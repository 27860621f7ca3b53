package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/supportqa/internal/logger"
	"github.com/kailas-cloud/supportqa/internal/version"
	"github.com/kailas-cloud/supportqa/pkg/client"
)

type rootOptions struct {
	server  string
	apiKey  string
	verbose bool
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := logpkg.NewLogger("local", "debug")
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.server, client.WithAPIKey(o.apiKey))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "knowledgectl",
		Short:         "Manage the supportqa knowledge base",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serverDefault := os.Getenv("SUPPORTQA_URL")
	if serverDefault == "" {
		serverDefault = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", serverDefault, "supportqa base URL (env SUPPORTQA_URL)")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", os.Getenv("SUPPORTQA_API_KEY"),
		"Bearer API key (env SUPPORTQA_API_KEY)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newBuildCmd(opts),
		newValidateCmd(),
		newClassifyCmd(),
		newRelatedCmd(),
		newTagsCmd(),
		newAskCmd(opts),
		newUploadCmd(opts),
	)
	return cmd
}
