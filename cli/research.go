package cli

import (
	"strings"

	"jurisai-backend/service"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "research [query]",
		Short: "Research a legal issue and list relevant authorities",
		Args:  cobra.MinimumNArgs(1),
		Run:   runResearch,
	}
	RootCmd.AddCommand(cmd)
}

func runResearch(cmd *cobra.Command, args []string) {
	p, err := openPipeline(cmd)
	if err != nil {
		exitErr("open pipeline", err)
	}
	defer p.close()

	svc := service.NewResearchService(
		service.ResearchWithAssembler(p.assembler),
		service.ResearchWithGenerator(p.generator),
		service.ResearchWithLogger(p.logger),
	)
	result, err := svc.Research(cmd.Context(), service.ResearchRequest{Query: strings.Join(args, " ")})
	if err != nil {
		exitErr("research", err)
	}
	printJSON(result.Research)
}
