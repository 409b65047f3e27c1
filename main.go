package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pitchperfect/pitch-perfect/audio"
	"github.com/pitchperfect/pitch-perfect/clients"
	cfg "github.com/pitchperfect/pitch-perfect/config"
	"github.com/pitchperfect/pitch-perfect/metrics"
	"github.com/pitchperfect/pitch-perfect/orchestrator"
	"github.com/pitchperfect/pitch-perfect/results"
	"github.com/pitchperfect/pitch-perfect/session"
	"github.com/pitchperfect/pitch-perfect/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pitchperfect",
		Short:         "Pitch Perfect speech improvement UI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newVoicesCmd())
	return root
}

// app bundles the wired components every command needs.
type app struct {
	cfg      *cfg.Root
	log      *logrus.Entry
	store    *session.Store
	gw       *clients.Gateway
	pipeline *orchestrator.Pipeline
	metrics  *metrics.Metrics
}

func buildApp() (*app, error) {
	conf, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(conf.App.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	log := logrus.WithField("app", "pitchperfect")

	store := session.NewStoreWithLimits(conf.Session.HistoryLimit, conf.Session.CacheLimit, conf.Session.CacheKeep)
	gw := clients.New(conf, log)
	validator := audio.NewValidator(conf.Audio.MaxUploadMB, conf.Audio.MaxDuration, conf.Audio.Formats)
	m := metrics.New()
	pipeline := orchestrator.NewPipeline(conf, gw, store, validator, m, log)

	return &app{cfg: conf, log: log, store: store, gw: gw, pipeline: pipeline, metrics: m}, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			a.log.WithField("backend", a.cfg.Backend.URL).Info("starting Pitch Perfect")

			if a.gw.HealthCheck(cmd.Context()) {
				a.log.Info("backend is accessible")
			} else {
				a.log.Warn("backend is not accessible - the UI will run but processing will fail")
			}

			server := web.NewServer(a.cfg, a.pipeline, a.store, a.gw, a.metrics, a.log)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-sig:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Stop(ctx)
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var voice, depth string
	var focus []string

	cmd := &cobra.Command{
		Use:   "analyze <path/to/audio.(wav|mp3|m4a|flac)>",
		Short: "Run one analysis from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			settings := results.Settings{
				VoiceSelection:   voice,
				AnalysisDepth:    depth,
				ImprovementFocus: focus,
			}

			outcome := a.pipeline.Process(cmd.Context(), args[0], settings)
			f := outcome.Formatted

			fmt.Println(f.Status)
			printSection("Transcript", f.Transcript)
			printSection("Sentiment", f.SentimentSummary)
			printSection("Tonal", f.TonalSummary)
			printSection("Improved Text", f.ImprovedText)
			printSection("Feedback", f.ImprovementFeedback)

			if len(f.ImprovedAudio) > 0 {
				format, _ := f.SynthesisInfo["format"].(string)
				if format == "" {
					format = "mp3"
				}
				path, err := audio.WriteTemp(f.ImprovedAudio, format)
				if err != nil {
					a.log.WithError(err).Warn("could not save improved audio")
				} else {
					fmt.Printf("\nImproved audio written to %s\n", path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&voice, "voice", "Default Voice", "TTS voice selection")
	cmd.Flags().StringVar(&depth, "depth", "Detailed", "analysis depth (Basic|Detailed|Comprehensive)")
	cmd.Flags().StringSliceVar(&focus, "focus", []string{"Clarity", "Tone"}, "improvement focus areas")
	return cmd
}

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List available TTS voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			for _, v := range a.gw.VoiceOptions(cmd.Context()) {
				fmt.Printf("%-16s %-24s %-10s %s\n", v.VoiceID, v.Name, v.Category, v.Description)
			}
			return nil
		},
	}
}

func printSection(title, body string) {
	if body == "" {
		return
	}
	fmt.Printf("\n--- %s ---\n%s\n", title, body)
}
