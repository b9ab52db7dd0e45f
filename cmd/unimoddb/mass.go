package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var massType string

var massCmd = &cobra.Command{
	Use:   "mass <name>",
	Short: "Get the mass delta of a modification",
	Long: `Retrieve the mass delta of a modification by name.

The name matches the short Unimod title first, then falls back to a
case-insensitive match on the full descriptive name.`,
	Args: cobra.ExactArgs(1),
	Run:  runMass,
}

func init() {
	massCmd.Flags().StringVar(&massType, "mass-type", "mono", "Mass type (mono, avg)")
	rootCmd.AddCommand(massCmd)
}

func runMass(cmd *cobra.Command, args []string) {
	name := args[0]

	db := mustOpenDB()
	defer db.Close()

	mass, err := db.GetMass(name, parseMassType(massType))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := &MassResponse{Name: name, MassType: massType, Mass: mass}
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
