package live

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/racelytics/f1-analysis-service-go/log"
	"github.com/racelytics/f1-analysis-service-go/pkg/config"
	"github.com/racelytics/f1-analysis-service-go/pkg/export"
	"github.com/racelytics/f1-analysis-service-go/pkg/model"
	"github.com/racelytics/f1-analysis-service-go/pkg/monitor"
	"github.com/racelytics/f1-analysis-service-go/pkg/simulate"
)

func NewLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "monitors a (simulated) live timing feed until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive()
		},
	}
	cmd.Flags().StringVar(&config.Interval,
		"interval",
		"5s",
		"poll interval for the live feed")
	cmd.Flags().IntVar(&config.HistSize,
		"history-size",
		monitor.DefaultCapacity,
		"number of snapshots retained in history")
	cmd.Flags().StringVar(&config.ExportFile,
		"export",
		"",
		"write the retained history to this JSON file on shutdown")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		logger = logger.FilterRules(config.LogFilter)
	}
	return logger
}

func runLive() error {
	log.ResetDefault(setupLogger())

	interval, err := time.ParseDuration(config.Interval)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", config.Interval, err)
	}

	m := monitor.New(
		monitor.WithFeed(simulate.New()),
		monitor.WithInterval(interval),
		monitor.WithCapacity(config.HistSize),
		monitor.WithName("live"),
	)
	m.AddSubscriber(logStandings)

	if err := m.Start(context.Background()); err != nil {
		log.Error("monitor could not be started", log.ErrorField(err))
		return err
	}
	log.Info("Live monitoring started",
		log.Duration("interval", interval),
		log.Int("historySize", config.HistSize))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	v := <-sigChan
	log.Debug("Got signal ", log.Any("signal", v))
	m.Stop()

	stats := m.SessionStatistics()
	log.Info("Session summary",
		log.Duration("duration", stats.Duration),
		log.Int("updates", stats.TotalUpdates),
		log.String("leader", stats.CurrentLeader),
		log.Float64("fastestLap", stats.FastestLap),
		log.Int("drivers", stats.DriverCount))

	if config.ExportFile != "" {
		if err := exportHistory(m); err != nil {
			log.Error("history export failed", log.ErrorField(err))
			return err
		}
	}
	log.Info("Live monitoring terminated")
	return nil
}

// logStandings reports the top three plus track conditions on each poll.
func logStandings(snap *model.Snapshot) {
	top := snap.Standings
	if len(top) > 3 {
		top = top[:3]
	}
	for _, t := range top {
		log.Info("standing",
			log.Int("pos", t.Position),
			log.String("driver", t.Driver),
			log.Float64("last", t.LastLapTime),
			log.Float64("gap", t.GapToLeader))
	}
	log.Info("conditions",
		log.Float64("airTemp", snap.Weather.AirTemp),
		log.Float64("trackTemp", snap.Weather.TrackTemp),
		log.String("status", snap.TrackStatus))
}

func exportHistory(m *monitor.Monitor) error {
	f, err := os.Create(config.ExportFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", config.ExportFile, err)
	}
	defer f.Close()
	if err := export.WriteHistoryJSON(f, m.History()); err != nil {
		return err
	}
	log.Info("History exported",
		log.String("file", config.ExportFile),
		log.Int("snapshots", m.HistorySize()))
	return nil
}
