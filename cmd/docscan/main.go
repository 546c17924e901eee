package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ironsheep/docscan/internal/camera"
	"github.com/ironsheep/docscan/internal/capture"
	"github.com/ironsheep/docscan/internal/config"
	"github.com/ironsheep/docscan/internal/detection"
	"github.com/ironsheep/docscan/internal/dialogue"
	"github.com/ironsheep/docscan/internal/events"
	"github.com/ironsheep/docscan/internal/guidance"
	"github.com/ironsheep/docscan/internal/imaging"
	"github.com/ironsheep/docscan/internal/logging"
	"github.com/ironsheep/docscan/internal/ocr"
	"github.com/ironsheep/docscan/internal/remote"
	"github.com/ironsheep/docscan/internal/session"
	"github.com/ironsheep/docscan/internal/speech"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("docscan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tesseract:  %s\n", ocr.Version())
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	configDir := flag.String("config", ".", "directory holding docscan.toml and .env")
	frames := flag.String("frames", "", "directory of camera frames (overrides camera.dir)")
	engine := flag.String("engine", "", "recognition engine: remote or tesseract (overrides ocr.engine)")
	preview := flag.String("preview", "", "write the live preview with guide overlay to this PNG file")
	perRune := flag.Duration("speech-per-rune", 60*time.Millisecond, "simulated speaking time per character")
	flag.Usage = usage
	flag.Parse()

	if err := run(*configDir, *frames, *engine, *preview, *perRune); err != nil {
		fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("docscan - guided document capture with spoken confirmation")
	fmt.Println()
	fmt.Println("Usage: docscan [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config DIR            Directory with docscan.toml, overlays and .env (default .)")
	fmt.Println("  -frames DIR            Replay camera frames from DIR")
	fmt.Println("  -engine NAME           Recognition engine: remote or tesseract")
	fmt.Println("  -preview FILE          Save the live preview to FILE about once a second")
	fmt.Println("  -speech-per-rune D     Simulated speech duration per character")
	fmt.Println("  --version, -v          Print version information")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  DOCSCAN_ENV=staging          Load docscan.staging.toml over docscan.toml")
	fmt.Println("  DOCSCAN_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  DOCSCAN_API_BASE_URL=URL     Document service address")
	fmt.Println("  DOCSCAN_REDIS_ADDR=host:port Publish status events to Redis")
	fmt.Println()
	fmt.Println("Spoken output is printed to stdout. Answer the confirmation question by")
	fmt.Println("typing a line on stdin; an empty line counts as silence.")
}

func run(configDir, frames, engine, previewPath string, perRune time.Duration) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if frames != "" {
		cfg.Camera.Dir = frames
	}
	if engine != "" {
		cfg.OCR.Engine = engine
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.Camera.Dir == "" {
		return errors.New("no frame directory: set camera.dir or pass -frames")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	log := logging.Component(logger, "main")
	log.WithFields(logrus.Fields{"version": Version, "env": cfg.Env}).Info("docscan starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec *speech.Recorder
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		rec = speech.NewRecorder(logging.Component(logger, "speech"))
	}
	speaker := speech.NewConsoleSpeaker(os.Stdout, perRune, logging.Component(logger, "speaker"))
	listener := speech.NewConsoleListener(os.Stdin, os.Stdout)
	channel := speech.NewChannel(speaker, listener, cfg.Speech, rec, logging.Component(logger, "speech"))

	client := remote.NewClient(cfg.Remote, logging.Component(logger, "remote"))
	var recognizer ocr.Recognizer = client
	if cfg.OCR.Engine == "tesseract" {
		recognizer = ocr.NewTesseract(cfg.OCR)
	}

	publisher := events.Multi{events.NewLog(logging.Component(logger, "status"))}
	if cfg.Redis.Enabled() {
		r := events.NewRedis(cfg.Redis, logging.Component(logger, "redis"))
		defer r.Close()
		publisher = append(publisher, r)
	}

	ctrl := session.New(cfg.Session, session.Deps{
		Source:    camera.NewDirSource(cfg.Camera, logging.Component(logger, "camera")),
		Detector:  detection.NewDetector(cfg.Detection, logging.Component(logger, "detector")),
		Guidance:  guidance.NewEngine(cfg.Guidance),
		Rectifier: capture.NewRectifier(cfg.Capture),
		Channel:   channel,
		Advisor:   speech.NewAdvisor(channel, cfg.Speech),
		Dialogue:  dialogue.New(cfg.Dialogue, recognizer, channel, cfg.Speech.Policy(), logging.Component(logger, "dialogue")),
		Creator:   client,
		Events:    publisher,
		Preview:   previewWriter(previewPath, log),
	}, logging.Component(logger, "session"))
	defer ctrl.Close()

	runErr := ctrl.Run(ctx)

	if rec != nil {
		if err := speech.CheckExclusive(rec.Events()); err != nil {
			log.WithError(err).Error("speech overlapped listening")
		}
	}

	if res, ok := ctrl.Result(); ok {
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	if errors.Is(runErr, context.Canceled) {
		log.Info("interrupted")
		return nil
	}
	return runErr
}

// previewWriter saves at most one preview per second to path.
func previewWriter(path string, log *logrus.Entry) func(*image.RGBA) {
	if path == "" {
		return nil
	}
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func(img *image.RGBA) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(last) < time.Second {
			return
		}
		last = time.Now()
		if err := imaging.Save(img, path); err != nil {
			log.WithError(err).Warn("preview not saved")
		}
	}
}
