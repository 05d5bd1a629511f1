package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guestpix/guestpix/internal/drive"
	"github.com/guestpix/guestpix/internal/genai"
	"github.com/guestpix/guestpix/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the guestpix HTTP service",
	Long:  "Serve the optimize and upload API plus the static web client. Backend credentials come from flags, config file, or GUESTPIX_* environment variables.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("static-dir", "", "directory of web client assets to serve")
	serveCmd.Flags().String("genai-endpoint", "", "generative image API endpoint")
	serveCmd.Flags().String("genai-api-key", "", "generative image API key")
	serveCmd.Flags().String("drive-client-id", "", "drive OAuth client id")
	serveCmd.Flags().String("drive-client-secret", "", "drive OAuth client secret")
	serveCmd.Flags().String("drive-refresh-token", "", "drive OAuth refresh token")
	serveCmd.Flags().String("drive-folder-id", "", "drive folder receiving uploads")

	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("static_dir", serveCmd.Flags().Lookup("static-dir"))
	viper.BindPFlag("genai.endpoint", serveCmd.Flags().Lookup("genai-endpoint"))
	viper.BindPFlag("genai.api_key", serveCmd.Flags().Lookup("genai-api-key"))
	viper.BindPFlag("drive.client_id", serveCmd.Flags().Lookup("drive-client-id"))
	viper.BindPFlag("drive.client_secret", serveCmd.Flags().Lookup("drive-client-secret"))
	viper.BindPFlag("drive.refresh_token", serveCmd.Flags().Lookup("drive-refresh-token"))
	viper.BindPFlag("drive.folder_id", serveCmd.Flags().Lookup("drive-folder-id"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	gen := genai.NewClient(
		viper.GetString("genai.endpoint"),
		viper.GetString("genai.api_key"),
		nil,
	)

	uploader := drive.NewClient(cmd.Context(), drive.Config{
		ClientID:     viper.GetString("drive.client_id"),
		ClientSecret: viper.GetString("drive.client_secret"),
		RefreshToken: viper.GetString("drive.refresh_token"),
		FolderID:     viper.GetString("drive.folder_id"),
	})

	srv := server.New(server.Config{
		Addr:      viper.GetString("addr"),
		StaticDir: viper.GetString("static_dir"),
	}, gen, uploader, logger)

	logger.Info("guestpix service starting", "addr", viper.GetString("addr"))
	return srv.ListenAndServe(cmd.Context())
}
