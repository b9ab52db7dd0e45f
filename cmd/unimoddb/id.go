package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var idMassType string

var idCmd = &cobra.Command{
	Use:   "id <ptmId>",
	Short: "Get a modification by its Unimod identifier",
	Args:  cobra.ExactArgs(1),
	Run:   runID,
}

func init() {
	idCmd.Flags().StringVar(&idMassType, "mass-type", "mono", "Mass type (mono, avg)")
	rootCmd.AddCommand(idCmd)
}

func runID(cmd *cobra.Command, args []string) {
	ptmID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: identifier must be an integer, got %q\n", args[0])
		os.Exit(1)
	}

	db := mustOpenDB()
	defer db.Close()

	name, mass, err := db.GetByID(ptmID, parseMassType(idMassType))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := &MassResponse{Name: name, MassType: idMassType, Mass: mass}
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
