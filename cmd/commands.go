package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/formatter"
	"github.com/oakwood-commons/facetnav/internal/limiter"
)

var (
	exportFormat string
	exportTitle  string
	configOutput string
)

var optionsCmd = &cobra.Command{
	Use:   "options [source]",
	Short: "List the next level's options with row counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(rootCtx, cmd, args)
		if err != nil {
			return err
		}
		level := s.engine.NextLevel()
		if level < 0 {
			return nil
		}
		opts := s.viewOptions()
		fmt.Fprint(cmd.OutOrStdout(), formatter.RenderOptions(
			s.cfg.FacetSchema().LevelColumn(level), s.engine.OptionCounts(level), opts))
		return nil
	},
}

var trailCmd = &cobra.Command{
	Use:   "trail [source]",
	Short: "Print the navigation trail for the --pick values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(rootCtx, cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderTrail(s.engine.Trail(), s.viewOptions()))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "Write the matching rows as csv, json, yaml, toml, markdown or html",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatter.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		lc := limitConfig()
		if err := lc.Validate(); err != nil {
			return fmt.Errorf("record limiting: %w", err)
		}
		s, err := newSession(rootCtx, cmd, args)
		if err != nil {
			return err
		}
		v := s.engine.View()
		title := exportTitle
		if title == "" {
			title = s.title()
		}
		return formatter.Export(cmd.OutOrStdout(), format, s.cfg.FacetSchema(), limiter.Apply(lc, v.Results), formatter.ExportOptions{
			Title:        title,
			Filters:      s.engine.Filters(),
			Delimiter:    s.cfg.DelimiterRune(),
			EmptyMessage: formatter.StatusMessage(v, s.viewOptions()),
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(rootCtx)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		data, err := config.Marshal(cfg, configOutput)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print facetnav version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}
