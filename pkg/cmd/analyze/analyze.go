package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/racelytics/f1-analysis-service-go/log"
	"github.com/racelytics/f1-analysis-service-go/pkg/config"
	"github.com/racelytics/f1-analysis-service-go/pkg/export"
	"github.com/racelytics/f1-analysis-service-go/pkg/model"
	"github.com/racelytics/f1-analysis-service-go/pkg/processing/pace"
	"github.com/racelytics/f1-analysis-service-go/pkg/processing/segment"
	"github.com/racelytics/f1-analysis-service-go/pkg/session"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <session-key>",
		Short: "computes pace, pit stop and degradation reports for a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0])
		},
	}
	cmd.Flags().StringVar(&config.SessionDir,
		"session-dir",
		".",
		"directory containing recorded session files (<key>.json)")
	cmd.Flags().StringVar(&config.OutputDir,
		"out",
		".",
		"directory for the generated CSV reports")
	cmd.Flags().StringVar(&config.CacheTTL,
		"cache-ttl",
		"5m",
		"expiry for cached sessions")
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

func runAnalyze(cmd *cobra.Command, key string) error {
	log.ResetDefault(setupLogger())

	ttl, err := time.ParseDuration(config.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid cache-ttl %q: %w", config.CacheTTL, err)
	}
	provider := session.NewProvider(
		session.WithDir(config.SessionDir),
		session.WithExpiration(ttl))

	sess, err := provider.Load(cmd.Context(), key)
	if err != nil {
		log.Error("session could not be loaded",
			log.String("key", key), log.ErrorField(err))
		return err
	}
	log.Info("Analyzing session",
		log.String("name", sess.Name),
		log.String("track", sess.Track),
		log.Int("drivers", len(sess.Drivers())))

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	if err := writePaceReport(sess); err != nil {
		return err
	}
	if err := writePitStopReport(sess); err != nil {
		return err
	}
	if err := writeDegradationReport(sess); err != nil {
		return err
	}
	if err := writeSegmentReports(sess); err != nil {
		return err
	}
	log.Info("Analysis complete", log.String("out", config.OutputDir))
	return nil
}

func writePaceReport(sess *model.Session) error {
	summaries := pace.Summaries(sess.Laps)
	return writeReport("pace.csv", len(summaries), func(f *os.File) error {
		return export.WritePaceCSV(f, summaries, sess.Drivers())
	})
}

func writePitStopReport(sess *model.Session) error {
	stops := lo.FlatMap(sess.Drivers(),
		func(driver string, _ int) []model.PitStopEvent {
			return pace.DetectPitStops(driver, sess.Laps[driver])
		})
	return writeReport("pitstops.csv", len(stops), func(f *os.File) error {
		return export.WritePitStopsCSV(f, stops)
	})
}

func writeDegradationReport(sess *model.Session) error {
	degs := pace.EstimateDegradation(sess.Laps)
	return writeReport("degradation.csv", len(degs), func(f *os.File) error {
		return export.WriteDegradationCSV(f, degs)
	})
}

func writeSegmentReports(sess *model.Session) error {
	for _, driver := range sess.Drivers() {
		samples := sess.Telemetry[driver]
		if len(samples) == 0 {
			continue
		}
		events := append(segment.Corners(samples), segment.BrakingZones(samples)...)
		name := fmt.Sprintf("segments_%s.csv", driver)
		err := writeReport(name, len(events), func(f *os.File) error {
			return export.WriteSegmentsCSV(f, driver, events)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeReport(name string, rows int, write func(f *os.File) error) error {
	path := filepath.Join(config.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info("Report written", log.String("file", path), log.Int("rows", rows))
	return nil
}
