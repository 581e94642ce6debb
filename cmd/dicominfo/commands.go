package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"dicom-info/internal/cli"
	"dicom-info/internal/config"
	"dicom-info/internal/tui"
)

var (
	scope         string
	ageReference  string
	sizePrecision int
	extension     string
	reportPath    string
	reportTitle   string
)

// applyScanFlags copies the scan flags that were set on cmd into cfg.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("scope") {
		cfg.Scope = scope
	}
	if flags.Changed("age-reference") {
		cfg.AgeReference = ageReference
	}
	if flags.Changed("size-precision") {
		cfg.SizePrecision = sizePrecision
	}
	if flags.Changed("ext") {
		cfg.Extension = extension
	}
	if flags.Changed("title") {
		cfg.ReportTitle = reportTitle
	}
	return cfg.Validate()
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scope, "scope", config.ScopeFolder,
		"aggregate patients per \"folder\" or over the whole \"tree\"")
	cmd.Flags().StringVar(&ageReference, "age-reference", config.AgeFromStudy,
		"compute ages at the \"study\" date or \"today\"")
	cmd.Flags().IntVar(&sizePrecision, "size-precision", 2,
		"decimals of the folder size in MB (0 or 2)")
	cmd.Flags().StringVar(&extension, "ext", ".dcm",
		"extension of slice files")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var scanCmd = &cobra.Command{
	Use:   "scan DIR",
	Short: "Scan a folder tree and print one row per patient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyScanFlags(cmd, cfg); err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		return cli.Run(ctx, cli.Options{
			Root:       args[0],
			Config:     cfg,
			ReportPath: reportPath,
			Logger:     log.Log,
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report DIR",
	Short: "Scan a folder tree and write the patients to a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyScanFlags(cmd, cfg); err != nil {
			return err
		}
		if reportPath == "" {
			return fmt.Errorf("output file is required (-o)")
		}
		ctx, stop := signalContext()
		defer stop()

		return cli.Run(ctx, cli.Options{
			Root:       args[0],
			Config:     cfg,
			ReportPath: reportPath,
			ReportOnly: true,
			Logger:     log.Log,
		})
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [DIR]",
	Short: "Scan a folder tree in an interactive terminal table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyScanFlags(cmd, cfg); err != nil {
			return err
		}
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		// the terminal UI prints over stderr log lines otherwise
		log.SetLevel(log.ErrorLevel)
		return tui.Run(context.Background(), root, cfg, log.Log)
	},
}

func init() {
	addScanFlags(scanCmd)
	scanCmd.Flags().StringVarP(&reportPath, "report", "r", "",
		"also write the table to this PDF file")
	scanCmd.Flags().StringVar(&reportTitle, "title", "",
		"title of the PDF report")

	addScanFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportPath, "output", "o", "",
		"PDF file to write")
	reportCmd.Flags().StringVar(&reportTitle, "title", "",
		"title of the PDF report")

	addScanFlags(tuiCmd)

	rootCmd.AddCommand(scanCmd, reportCmd, tuiCmd)
}
