package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var formulaCmd = &cobra.Command{
	Use:   "formula <name>",
	Short: "Get the elemental composition of a modification",
	Args:  cobra.ExactArgs(1),
	Run:   runFormula,
}

func init() {
	rootCmd.AddCommand(formulaCmd)
}

func runFormula(cmd *cobra.Command, args []string) {
	name := args[0]

	db := mustOpenDB()
	defer db.Close()

	formula, err := db.GetFormula(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := &FormulaResponse{Name: name, Formula: formula}
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
