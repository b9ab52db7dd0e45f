package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"unimoddb"
)

var (
	nameMassType  string
	nameTolerance float64
)

var nameCmd = &cobra.Command{
	Use:   "name <mass>",
	Short: "Find a modification name by its mass delta",
	Long: `Find the name of a modification whose mass delta lies within a
tolerance window of the given mass. With several modifications inside the
window an arbitrary one is reported.`,
	Args: cobra.ExactArgs(1),
	Run:  runName,
}

func init() {
	nameCmd.Flags().StringVar(&nameMassType, "mass-type", "mono", "Mass type (mono, avg)")
	nameCmd.Flags().Float64Var(&nameTolerance, "tol", unimoddb.DefaultTolerance,
		"Mass tolerance window half-width")
	rootCmd.AddCommand(nameCmd)
}

func runName(cmd *cobra.Command, args []string) {
	mass, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: mass must be a number, got %q\n", args[0])
		os.Exit(1)
	}

	db := mustOpenDB()
	defer db.Close()

	name, err := db.GetName(mass, parseMassType(nameMassType), nameTolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := &MassResponse{Name: name, MassType: nameMassType, Mass: mass}
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
