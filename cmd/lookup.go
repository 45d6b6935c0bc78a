package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/server"
	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/internal/validation"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
	"go.uber.org/zap"
)

func lookupCmd() *cobra.Command {
	var unitFlag string

	cmd := &cobra.Command{
		Use:   "lookup <city>",
		Short: "Print current weather and the daily forecast for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer shutdownServices()

			cfg := config.GetConfig()
			if unitFlag == "" {
				unitFlag = cfg.Weather.DefaultUnits
			}
			unit, err := units.Parse(unitFlag)
			if err != nil {
				return err
			}

			city, err := validation.City(args[0])
			if err != nil {
				return errors.New(weather.UserMessage(err))
			}

			fetcher := server.NewFetcher(cfg, log.Logger, tele)
			snapshot, err := fetcher.Fetch(cmd.Context(), city, unit)
			if err != nil {
				log.Debug("Lookup failed", zap.String("city", city), zap.Error(err))
				return errors.New(weather.UserMessage(err))
			}

			return printSnapshot(cmd.OutOrStdout(), snapshot)
		},
	}

	cmd.Flags().StringVarP(&unitFlag, "units", "u", "", "metric or imperial (default from config)")

	return cmd
}

func printSnapshot(w io.Writer, s *weather.Snapshot) error {
	suffix := s.Unit.Suffix()

	lines := []string{
		s.Current.Name,
		fmt.Sprintf("%.1f°%s, %s", s.Current.Temperature, suffix, s.Current.Description),
		fmt.Sprintf("lat %.4f, lon %.4f", s.Current.Coordinates.Lat, s.Current.Coordinates.Lon),
	}
	if s.Timezone != "" {
		lines = append(lines, "timezone "+s.Timezone)
	}
	lines = append(lines, "")
	for _, p := range s.Forecast {
		lines = append(lines, fmt.Sprintf("%s  %.1f°%s", p.Time, p.Temp, suffix))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
