package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gradebook/adapters/excel"
	"gradebook/app"
	"gradebook/domain/student"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	file    string
	sheet   string
	buckets int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "gradebook-cli",
		Short:         "Manage and summarise the student data file from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.file, "file", envOrDefault("DATA_FILE", "student_data.xlsx"), "Student data file (.xlsx or .csv)")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", envOrDefault("DATA_SHEET", "Sheet1"), "Worksheet name used when creating a workbook")
	rootCmd.PersistentFlags().IntVar(&opts.buckets, "bins", 10, "Histogram bucket count")

	rootCmd.AddCommand(
		newInitCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newStatsCmd(opts),
	)
	return rootCmd
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func (o *rootOptions) roster() (*app.RosterService, error) {
	config := excel.DefaultExcelConfig()
	config.FilePath = o.file
	config.SheetName = o.sheet

	store, err := excel.NewStore(config)
	if err != nil {
		return nil, err
	}
	roster := app.NewRosterService(store, o.buckets)
	if err := roster.Init(); err != nil {
		return nil, err
	}
	return roster, nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data file with its header row if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.roster(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data file ready: %s\n", opts.file)
			return nil
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var raw student.RawCandidate

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate and append one student record",
		Long: `Validate and append one student record.

Example: gradebook-cli add --name Ali --roll 101 --class 6th --marks 55`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := raw.Candidate()
			if err != nil {
				return err
			}
			roster, err := opts.roster()
			if err != nil {
				return err
			}
			result, err := roster.Submit(cmd.Context(), candidate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data saved successfully (%d records)\n", result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&raw.Name, "name", "", "Student name")
	cmd.Flags().StringVar(&raw.RollNumber, "roll", "", "Roll number")
	cmd.Flags().StringVar(&raw.Class, "class", "", "Class ("+strings.Join(student.Classes, ", ")+")")
	cmd.Flags().StringVar(&raw.Marks, "marks", "", "Marks from 0 to 100")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var classes []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the student table, optionally filtered by class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := opts.roster()
			if err != nil {
				return err
			}
			report, err := roster.Report(cmd.Context(), app.ReportOptions{Classes: classes, Table: true})
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringSliceVar(&classes, "class", nil, "Only include these classes (repeatable)")
	return cmd
}

func printTable(out io.Writer, report *app.Report) error {
	if report.NoData {
		fmt.Fprintln(out, "No data available for the selected classes.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(append(append([]string{}, student.Header...), "Result"), "\t"))
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", row.Name, row.RollNumber, row.Class, row.Marks, row.Result)
	}
	return w.Flush()
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var classes []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print pass/fail counts, class averages, the marks histogram and summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := opts.roster()
			if err != nil {
				return err
			}
			sections := app.AllSections(classes)
			sections.Table = false
			report, err := roster.Report(cmd.Context(), sections)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printStats(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringSliceVar(&classes, "class", nil, "Only include these classes (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printStats(out io.Writer, report *app.Report) error {
	if report.NoData {
		fmt.Fprintln(out, "No data available for the selected classes.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	s := report.Summary
	fmt.Fprintf(w, "Total Students\t%d\n", s.Count)
	fmt.Fprintf(w, "Average Marks\t%.2f\n", s.RoundedMean())
	fmt.Fprintf(w, "Highest Marks\t%g\n", s.Max)
	fmt.Fprintf(w, "Lowest Marks\t%g\n", s.Min)
	fmt.Fprintf(w, "Median Marks\t%g\n", s.Median)
	fmt.Fprintf(w, "Standard Deviation\t%.2f\n", s.StdDev)

	pf := report.PassFail
	fmt.Fprintf(w, "Pass\t%d (%.1f%%)\n", pf.Pass, pf.PassPercent())
	fmt.Fprintf(w, "Fail\t%d (%.1f%%)\n", pf.Fail, pf.FailPercent())

	fmt.Fprintln(w, "\nClass\tAverage")
	for _, avg := range report.Averages {
		fmt.Fprintf(w, "%s\t%.2f\n", avg.Class, avg.Mean)
	}

	fmt.Fprintln(w, "\nMarks\tStudents")
	for _, b := range report.Histogram {
		fmt.Fprintf(w, "%s\t%d\n", b.Label(), b.Count)
	}
	return w.Flush()
}
