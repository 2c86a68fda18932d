package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/audityzer-org/audityzer/internal/config"
	"github.com/audityzer-org/audityzer/internal/engine"
	"github.com/audityzer-org/audityzer/internal/logging"
	"github.com/audityzer-org/audityzer/internal/mode"
	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/report"
	"github.com/audityzer-org/audityzer/internal/tui"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newScanCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newRulesCmd())
}

func newScanCmd() *cobra.Command {
	var (
		format        string
		modeName      string
		failOn        string
		outputFile    string
		sarifOut      string
		baselineIn    string
		writeBaseline string
		extraRules    bool
		noCache       bool
		useTUI        bool
		verbose       bool
		debug         bool
	)
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan Solidity sources for vulnerabilities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			logger, err := logging.New(debug)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			cfg, cfgPath, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config %s: %w", cfgPath, err)
			}
			if extraRules {
				cfg.ExtraRules = true
			}
			if cmd.Flags().Changed("format") || cfg.Format == "" {
				cfg.Format = format
			}
			if modeName == "" {
				modeName = cfg.Mode
			}

			m, err := mode.ParseMode(modeName)
			if err != nil {
				return err
			}
			ctrl := mode.NewController(logger)
			if m != ctrl.Mode() {
				ctrl.Switch(m)
			}

			eng := engine.New(engine.Options{
				Config:   cfg,
				Baseline: baselineIn,
				NoCache:  noCache,
				Logger:   logger,
			})
			result, err := eng.Scan(cmd.Context(), path)
			if err != nil {
				return err
			}
			ctrl.ConsumeEnergy(result.Elapsed.Seconds())
			if !ctrl.HasEnergy() {
				logger.Warn("energy budget exhausted", zap.Float64("energy", ctrl.Energy()))
			}

			if useTUI {
				return tui.Run(result.Findings)
			}
			switch cfg.Format {
			case "json":
				data, _ := json.MarshalIndent(result, "", "  ")
				if outputFile != "" {
					return os.WriteFile(outputFile, data, 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "sarif":
				data, err := report.ToSARIF(result.Findings)
				if err != nil {
					return err
				}
				if sarifOut != "" {
					return os.WriteFile(sarifOut, data, 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			default:
				opts := []report.TextOption{report.WithSnippets()}
				if verbose {
					opts = append(opts, report.WithVerbose())
				}
				if err := report.NewTextWriter(cmd.OutOrStdout(), opts...).Write(result); err != nil {
					return err
				}
			}

			if writeBaseline != "" {
				if err := engine.WriteBaseline(writeBaseline, result.Findings); err != nil {
					return err
				}
			}
			if failOn != "" {
				threshold := model.ParseSeverity(failOn)
				for _, f := range result.Findings {
					if model.SeverityGTE(f.Severity, threshold) {
						return fmt.Errorf("fail-on threshold met: %s", f.Severity)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table|json|sarif")
	cmd.Flags().StringVar(&modeName, "mode", "", "Operational mode: strength|speed|armor|stealth")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Fail if a finding of this severity or higher exists (low|medium|high|critical)")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write report to file (with --format json)")
	cmd.Flags().StringVar(&sarifOut, "sarif-out", "", "Write SARIF report to file (with --format sarif)")
	cmd.Flags().StringVar(&baselineIn, "baseline", "", "Suppress findings recorded in this baseline file")
	cmd.Flags().StringVar(&writeBaseline, "write-baseline", "", "Write a baseline file with finding fingerprints")
	cmd.Flags().BoolVar(&extraRules, "extra-rules", false, "Enable the optional detector set")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the analysis result cache")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render interactive TUI output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include statistics and suggestions in table output")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}
