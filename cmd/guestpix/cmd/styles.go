package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guestpix/guestpix/internal/styles"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available optimization styles",
	RunE:  runStyles,
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	for _, st := range styles.All() {
		fmt.Printf("%d\t%s\n", st.Index, st.Name)
	}
	return nil
}
