package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agency-os/research-core/internal/gate"
	"github.com/agency-os/research-core/internal/model"
)

var (
	gateBriefFile      string
	gateValidationFile string
	gateDecision       string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate a research artifact against its risk-adaptive quality threshold",
	Long:  "Classifies the project's risk class from the brief, compares the validation artifact's quality score against the class threshold, and prints the verdict. Exits non-zero when the verdict blocks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var brief model.ResearchBrief
		if err := readJSONFile(gateBriefFile, &brief); err != nil {
			return err
		}
		var validation model.FactValidation
		if err := readJSONFile(gateValidationFile, &validation); err != nil {
			return err
		}

		verdict := gate.Evaluate(brief, validation, gate.Decision(gateDecision))
		if err := printJSON(verdict); err != nil {
			return err
		}

		if verdict.Blocking {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return eris.New("gate: research blocked")
		}
		return nil
	},
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "gate: read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "gate: parse %s", path)
	}
	return nil
}

func init() {
	gateCmd.Flags().StringVar(&gateBriefFile, "brief", "research_brief.json", "research brief JSON file")
	gateCmd.Flags().StringVar(&gateValidationFile, "validation", "fact_validation.json", "fact validation JSON file")
	gateCmd.Flags().StringVar(&gateDecision, "decision", "", "user decision for below-threshold results (continue_anyway)")
	rootCmd.AddCommand(gateCmd)
}
