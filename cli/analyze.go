package cli

import (
	"errors"
	"io"
	"os"

	"jurisai-backend/service"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Critique a judgment for grounds of appeal",
		Run:   runAnalyze,
	}

	cmd.Flags().StringP("file", "f", "", "Judgment file (pdf, docx, xlsx or text)")
	cmd.Flags().StringP("text", "t", "", "Judgment text; use - to read stdin")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	text, _ := cmd.Flags().GetString("text")

	switch {
	case text == "-":
		b, err := readAllStdin()
		if err != nil {
			exitErr("read stdin", err)
		}
		text = b
	case text == "" && file != "":
		docs, err := readDocuments([]string{file})
		if err != nil {
			exitErr("extract", err)
		}
		text = docs[0].Text
	case text == "":
		exitErr("analyze", errors.New("pass --file or --text"))
	}

	p, err := openPipeline(cmd)
	if err != nil {
		exitErr("open pipeline", err)
	}
	defer p.close()

	svc := service.NewJudgmentService(
		service.JudgmentWithGenerator(p.generator),
		service.JudgmentWithLogger(p.logger),
	)
	result, err := svc.Analyze(cmd.Context(), service.AnalyzeJudgmentRequest{Text: text})
	if err != nil {
		exitErr("analyze", err)
	}
	printJSON(result.Analysis)
}

func readAllStdin() (string, error) {
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
