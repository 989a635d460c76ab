package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: "Print the text extracted from documents",
		Args:  cobra.MinimumNArgs(1),
		Run:   runExtract,
	}
	RootCmd.AddCommand(cmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	docs, err := readDocuments(args)
	if err != nil {
		exitErr("extract", err)
	}
	for _, d := range docs {
		if len(docs) > 1 {
			fmt.Printf("==> %s <==\n", d.Name)
		}
		fmt.Println(d.Text)
	}
}
