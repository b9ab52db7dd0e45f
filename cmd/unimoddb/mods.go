package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unimoddb"
)

var (
	modsMassType string
	modsClass    string
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "List modifications with their sites",
	Long: `List all modifications joined with the residue sites they apply to,
optionally restricted to one classification (exact, case-sensitive match).`,
	Args: cobra.NoArgs,
	Run:  runMods,
}

var ptmsCmd = &cobra.Command{
	Use:   "ptms",
	Short: "List post-translational modifications with their sites",
	Args:  cobra.NoArgs,
	Run:   runPTMs,
}

func init() {
	modsCmd.Flags().StringVar(&modsMassType, "mass-type", "mono", "Mass type (mono, avg)")
	modsCmd.Flags().StringVar(&modsClass, "class", "",
		`Classification filter, e.g. "Post-translational" or "Artefact"`)
	ptmsCmd.Flags().StringVar(&modsMassType, "mass-type", "mono", "Mass type (mono, avg)")
	rootCmd.AddCommand(modsCmd)
	rootCmd.AddCommand(ptmsCmd)
}

func runMods(cmd *cobra.Command, args []string) {
	listMods(modsClass)
}

func runPTMs(cmd *cobra.Command, args []string) {
	listMods(unimoddb.PTMClassification)
}

func listMods(class string) {
	db := mustOpenDB()
	defer db.Close()

	mods, err := db.GetMods(parseMassType(modsMassType), class)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := modsResponse(mods, modsMassType, class)
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
