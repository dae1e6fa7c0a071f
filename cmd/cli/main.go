package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"statadvisor/app"
	domain "statadvisor/domain/profiling"
	"statadvisor/domain/recommendation"
	"statadvisor/internal/config"
	"statadvisor/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var asJSON bool
	rootCmd := &cobra.Command{
		Use:   "statadvisor",
		Short: "Profile datasets and recommend statistical methods",
	}
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(
		newProfileCmd(&asJSON),
		newRecommendCmd(&asJSON),
		newCorrelateCmd(&asJSON),
		newOutliersCmd(&asJSON),
		newMethodsCmd(&asJSON),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg, nil)
}

func loadDataset(c *container.Container, path string) (domain.Dataset, error) {
	ds, err := c.Reader.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newProfileCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <file>",
		Short: "Profile every column of a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			ds, err := loadDataset(c, args[0])
			if err != nil {
				return err
			}
			profiles := c.Advisor.Profile(ds)
			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, profiles)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tKIND\tCOUNT\tMISSING\tUNIQUE\tID\tTEMPORAL\tMEAN\tSTD")
			for _, p := range profiles {
				mean, std := "-", "-"
				if p.NumericStats != nil {
					mean = fmt.Sprintf("%.3f", p.NumericStats.Mean)
					std = fmt.Sprintf("%.3f", p.NumericStats.Std)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%t\t%t\t%s\t%s\n",
					p.Name, p.Kind, p.Count, p.MissingCount, p.UniqueCount, p.IDLikelihood.IsID, p.Temporal, mean, std)
			}
			return tw.Flush()
		},
	}
}

func newRecommendCmd(asJSON *bool) *cobra.Command {
	var purpose, valueColumn, groupColumn string
	var skipAssumptions bool

	cmd := &cobra.Command{
		Use:   "recommend <file>",
		Short: "Recommend a statistical method for an analysis purpose",
		Long: `Recommend a statistical method for a dataset.

Purposes: compare, relationship, distribution, prediction, timeseries.

Example: statadvisor recommend trial.csv --purpose compare --value score --group arm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := recommendation.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			c, err := buildContainer()
			if err != nil {
				return err
			}
			ds, err := loadDataset(c, args[0])
			if err != nil {
				return err
			}

			analysis, err := c.Advisor.Recommend(cmd.Context(), app.RecommendRequest{
				Dataset:         ds,
				Purpose:         p,
				ValueColumn:     valueColumn,
				GroupColumn:     groupColumn,
				SkipAssumptions: skipAssumptions,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, analysis)
			}
			printRecommendation(out, analysis.Record)
			return nil
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "compare", "Analysis purpose")
	cmd.Flags().StringVar(&valueColumn, "value", "", "Outcome column (default: first numeric column)")
	cmd.Flags().StringVar(&groupColumn, "group", "", "Grouping column (default: detected)")
	cmd.Flags().BoolVar(&skipAssumptions, "skip-assumptions", false, "Do not call the numeric backend")

	return cmd
}

func printRecommendation(w io.Writer, record *recommendation.Record) {
	rec := record.Recommendation
	fmt.Fprintf(w, "%s (%s)\n", rec.Method.Name, rec.Method.ID)
	fmt.Fprintf(w, "Confidence: %.0f%%\n\n", rec.Confidence*100)
	for _, line := range rec.Reasoning {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	if len(rec.Alternatives) > 0 {
		names := make([]string, len(rec.Alternatives))
		for i, alt := range rec.Alternatives {
			names[i] = alt.Name
		}
		fmt.Fprintf(w, "\nAlternatives: %s\n", strings.Join(names, ", "))
	}
}

func newCorrelateCmd(asJSON *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "correlate <file>",
		Short: "Correlate every pair of numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			ds, err := loadDataset(c, args[0])
			if err != nil {
				return err
			}
			result := c.Advisor.Correlations(ds)
			if limit > 0 && len(result.Pairs) > limit {
				result.Pairs = result.Pairs[:limit]
			}
			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "X\tY\tR\tR2\tN\tSTRENGTH")
			for _, p := range result.Pairs {
				fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3f\t%d\t%s\n", p.ColumnX, p.ColumnY, p.R, p.RSquared, p.N, p.Strength)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the strongest N pairs")
	return cmd
}

func newOutliersCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "outliers <file> <column>",
		Short: "List IQR outliers of a numeric column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			ds, err := loadDataset(c, args[0])
			if err != nil {
				return err
			}
			report, err := c.Advisor.Outliers(ds, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, report)
			}

			st := report.Statistics
			fmt.Fprintf(out, "%s: q1=%.3f median=%.3f q3=%.3f iqr=%.3f bounds=[%.3f, %.3f]\n",
				report.Column, st.Q1, st.Median, st.Q3, st.IQR, st.LowerBound, st.UpperBound)
			if len(report.Outliers) == 0 {
				fmt.Fprintln(out, "no outliers")
				return nil
			}
			for _, o := range report.Outliers {
				marker := ""
				if o.IsExtreme {
					marker = " (extreme)"
				}
				fmt.Fprintf(out, "  row %d: %g%s\n", o.RowIndex, o.Value, marker)
			}
			return nil
		},
	}
}

func newMethodsCmd(asJSON *bool) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the method catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			methods := c.Catalog.All()
			if category != "" {
				methods = c.Catalog.ByCategory(recommendation.Category(category))
			}
			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, methods)
			}

			fmt.Fprintf(out, "Catalog %s\n\n", c.Catalog.Version())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY")
			for _, m := range methods {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Name, m.Category)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list one category")
	return cmd
}
