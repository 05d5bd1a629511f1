package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/guestpix/guestpix"
	"github.com/guestpix/guestpix/internal/styles"
)

var (
	optimizeStyle   int
	optimizeAll     bool
	optimizeOut     string
	optimizeWorkers int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <file>",
	Short: "Derive a styled variant of a photo",
	Long:  "Optimize a photo through the service. Results are cached locally, so repeating a (file, style) pair makes no network call. With --all-styles, every catalog style is prefetched concurrently.",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().IntVar(&optimizeStyle, "style", 0, "style index")
	optimizeCmd.Flags().BoolVar(&optimizeAll, "all-styles", false, "prefetch every style into the cache")
	optimizeCmd.Flags().StringVar(&optimizeOut, "out", "", "write the optimized image to this path")
	optimizeCmd.Flags().IntVar(&optimizeWorkers, "workers", 4, "parallel requests for --all-styles")
}

func runOptimize(cmd *cobra.Command, args []string) (err error) {
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

	if optimizeAll {
		indexes := make([]int, 0, styles.Count())
		for _, st := range styles.All() {
			indexes = append(indexes, st.Index)
		}
		fmt.Fprintf(os.Stderr, "Prefetching %d styles...\n", len(indexes))
		if err := sess.PrefetchStyles(cmd.Context(), indexes, optimizeWorkers); err != nil {
			return fmt.Errorf("prefetch failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Done.")
		return nil
	}

	if _, err := sess.SetStyle(cmd.Context(), optimizeStyle); err != nil {
		return err
	}
	variant, err := sess.EnableOptimized(cmd.Context())
	if err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}

	mediaType, out, err := guestpix.DecodeDataURL(variant.DataURL)
	if err != nil {
		return err
	}
	if optimizeOut == "" {
		fmt.Fprintf(os.Stderr, "Optimized (%s, %d bytes). Use --out to save.\n", mediaType, len(out))
		return nil
	}
	if err := os.WriteFile(optimizeOut, out, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", optimizeOut)
	return nil
}

func detectMediaType(path string, data []byte) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return http.DetectContentType(data)
}
