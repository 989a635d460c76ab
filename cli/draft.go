package cli

import (
	"fmt"
	"strings"

	"jurisai-backend/models"
	"jurisai-backend/service"

	"github.com/spf13/cobra"
)

func init() {
	names := make([]string, len(models.DocumentTypes))
	for i, t := range models.DocumentTypes {
		names[i] = string(t)
	}

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft a court document from briefing notes",
		Run:   runDraft,
	}

	cmd.Flags().String("type", string(models.DocumentTypeSkeletonArgument), "Document type: "+strings.Join(names, ", "))
	cmd.Flags().StringP("notes", "n", "", "Briefing notes (required)")
	cmd.Flags().StringSliceP("file", "f", nil, "Supporting files, repeatable")

	cmd.MarkFlagRequired("notes")

	RootCmd.AddCommand(cmd)
}

func runDraft(cmd *cobra.Command, args []string) {
	rawType, _ := cmd.Flags().GetString("type")
	notes, _ := cmd.Flags().GetString("notes")
	files, _ := cmd.Flags().GetStringSlice("file")

	docType, err := models.ParseDocumentType(rawType)
	if err != nil {
		exitErr("draft", err)
	}
	docs, err := readDocuments(files)
	if err != nil {
		exitErr("extract", err)
	}

	p, err := openPipeline(cmd)
	if err != nil {
		exitErr("open pipeline", err)
	}
	defer p.close()

	svc := service.NewDocumentService(
		service.DocumentWithGenerator(p.generator),
		service.DocumentWithLogger(p.logger),
	)
	out, err := svc.DraftDocument(cmd.Context(), service.DraftDocumentRequest{
		DocumentType:  docType,
		BriefingNotes: notes,
		Documents:     docs,
	})
	if err != nil {
		exitErr("draft", err)
	}
	fmt.Println(out.Text)
}
