package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/guestpix/guestpix"
)

var (
	uploadStyle    int
	uploadOptimize bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a photo to the shared album",
	Long:  "Upload a photo through the service. With --optimize, the styled variant is derived first (from cache when warm) and uploaded instead of the original.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolVar(&uploadOptimize, "optimize", false, "upload the optimized variant")
	uploadCmd.Flags().IntVar(&uploadStyle, "style", 0, "style index for --optimize")
}

func runUpload(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sess, err := guestpix.Open(getServerURL(), guestpix.WithCacheDir(getCacheDir()))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := sess.Select(filepath.Base(path), detectMediaType(path, data), data); err != nil {
		return err
	}

	if uploadOptimize {
		if _, err := sess.SetStyle(cmd.Context(), uploadStyle); err != nil {
			return err
		}
		if _, err := sess.EnableOptimized(cmd.Context()); err != nil {
			return fmt.Errorf("optimize failed: %w", err)
		}
	}

	res, err := sess.Submit(cmd.Context())
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Uploaded %s\n", filepath.Base(path))
	if res.FileLink != "" {
		fmt.Println(res.FileLink)
	} else {
		fmt.Println(res.FileID)
	}
	return nil
}
