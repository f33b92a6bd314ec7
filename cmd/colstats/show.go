package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/colstats/mortality/pkg/mortality"
)

func showCmd(configPath *string) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Build the dataset and print a terminal report of the main views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, builder, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			ds, err := builder.Dataset()
			if err != nil {
				return err
			}

			// Locale-aware number printer for the report.
			p := message.NewPrinter(language.Spanish)
			all := mortality.Filters{}

			sum := ds.Summarize()
			p.Printf("\nMortalidad no fetal, Colombia 2019\n\n")
			p.Printf("  Muertes      : %d\n", sum.TotalDeaths)
			p.Printf("  Departamentos: %d\n", sum.Departments)
			p.Printf("  Municipios   : %d\n", sum.Municipalities)
			p.Printf("  Meses        : %d\n", sum.Months)

			p.Printf("\nTop 10 causas de muerte:\n\n")
			for i, row := range ds.TopCauses(all) {
				p.Printf("%02d. %-10s %-60.60s %8d\n", i+1, row.CauseCode, row.Description, row.Deaths)
			}

			p.Printf("\nTop 5 ciudades más violentas (homicidios):\n\n")
			for i, row := range ds.TopViolentCities(all) {
				p.Printf("%02d. %-25s (%s) %8d\n", i+1, row.Municipality, row.Department, row.Deaths)
			}

			p.Printf("\nMuertes por mes:\n\n")
			for _, row := range ds.MonthlySeries(all) {
				p.Printf("  mes %02d  %8d\n", row.Month, row.Deaths)
			}

			p.Printf("\nMuertes por categoría de edad:\n\n")
			for _, row := range ds.AgeHistogram(all) {
				p.Printf("  %-26s %8d\n", row.Bracket, row.Deaths)
			}

			if dump {
				spew.Dump(ds.FilterOptions())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "spew-dump the filter options after the report")
	return cmd
}
