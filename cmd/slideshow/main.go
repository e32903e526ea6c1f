// Command slideshow serves an image gallery and rotates through it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Storage backends register themselves with the storage factory.
	_ "github.com/kbukum/slideshow/storage/local"
	_ "github.com/kbukum/slideshow/storage/s3"
	_ "github.com/kbukum/slideshow/storage/supabase"
)

var (
	// Global flags
	configFile string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "slideshow",
	Short: "Image slideshow server",
	Long: `slideshow lists images from a storage folder and rotates through them.

The serve command exposes the listing endpoint, the images, a live slideshow
page and an event stream. The rotate command runs the rotation headless
against any configured source and logs each slide.

Configuration is read from config.yml, .env and the environment, e.g.
GALLERY_PREFIX=images/ SLIDESHOW_INTERVAL=5s.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gallery, the slideshow page and the event stream",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate through the configured source and log each slide",
	Long: `Runs the rotation without an HTTP server. Each committed slide, loading
step and error is written to the log.

Example:
  slideshow rotate --source github --interval 3s`,
	Args: cobra.NoArgs,
	RunE: runRotate,
}

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "Print the images a prefix lists, as the /list endpoint would",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: search ./cmd/slideshow/config.yml, ./config.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rotateCmd.Flags().StringVar(&rotateSource, "source", "", "override source.type (listing, github, static)")
	rotateCmd.Flags().DurationVar(&rotateInterval, "interval", 0, "override slideshow.interval")
	listCmd.Flags().BoolVar(&listPretty, "pretty", false, "indent the JSON output")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON")

	rootCmd.AddCommand(serveCmd, rotateCmd, listCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
