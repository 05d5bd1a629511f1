package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "guestpix",
	Short: "Wedding-photo upload client and service",
	Long:  "CLI for the guestpix photo service: run the HTTP service, optimize photos through the style API, and upload them to the shared album.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/guestpix/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "cache directory (default: ~/.local/share/guestpix)")
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "guestpix service base URL")

	viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GUESTPIX")
	viper.AutomaticEnv()
	viper.SetDefault("cache_dir", defaultCacheDir())

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "guestpix")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "guestpix")
	}
	return ".guestpix"
}

func defaultCacheDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "guestpix")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "guestpix")
	}
	return ".guestpix"
}

func getCacheDir() string {
	return viper.GetString("cache_dir")
}

func getServerURL() string {
	return viper.GetString("server")
}
