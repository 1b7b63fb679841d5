package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bhashakisan/assistant/adapters/backend"
	"github.com/bhashakisan/assistant/adapters/speech"
	"github.com/bhashakisan/assistant/domain/entities"
	"github.com/bhashakisan/assistant/domain/repositories"
	"github.com/bhashakisan/assistant/internal/auth"
	"github.com/bhashakisan/assistant/internal/config"
	"github.com/bhashakisan/assistant/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize backend adapters
	backendConfig := backend.Config{
		BaseURL: cfg.BackendBaseURL,
		Timeout: cfg.RequestTimeout,
	}
	analysis := backend.NewClient(backendConfig, logger)
	history := backend.NewHistoryClient(backendConfig, logger)
	prober := backend.NewProber(backendConfig, logger)
	weather := backend.NewWeatherClient(cfg.WeatherBaseURL, logger)

	// Initialize the orchestration core
	monitor := usecase.NewOfflineMonitor(prober, cfg.ProbeInterval, logger)
	go monitor.Run(ctx)

	normalizer := usecase.NewResponseNormalizer(logger)
	cache := usecase.NewHistoryCache(cfg.HistoryLimit)
	dispatcher := usecase.NewRequestDispatcher(analysis, monitor, normalizer, cache, cfg.RequestTimeout, logger)
	builder := usecase.NewQueryBuilder(cfg.Language, logger)

	identity := auth.NewTokenIdentity([]byte(cfg.JWTSecret), cfg.UserToken)
	userID := identity.CurrentUserID()

	// Speech capability: a WebSocket capture bridge or Google streaming
	// recognition when configured, a scripted mock otherwise so the voice
	// flow works in a bare terminal.
	var capability repositories.SpeechCapability
	switch {
	case cfg.SpeechProvider == "google":
		capability = speech.NewGoogleCapability(cfg.SpeechSampleRate, cfg.SpeechEncoding, logger)
	case cfg.SpeechProvider == "bridge" || (cfg.SpeechProvider == "" && cfg.SpeechBridgeURL != ""):
		capability = speech.NewBridgeCapability(cfg.SpeechBridgeURL, logger)
	default:
		capability = speech.NewMockCapability(logger,
			"Tamatar",
			"Tamatar me khad",
			"Tamatar me khad kaun si dalen?")
	}
	session := usecase.NewSpeechSession(capability, cfg.Language, logger)

	// Resolved transcripts become voice queries.
	go func() {
		for transcript := range session.Ready() {
			fmt.Printf("Heard: %q\n", transcript)
			query, err := builder.FromTranscript(userID, transcript)
			if err != nil {
				fmt.Println("Could not build voice query:", err)
				continue
			}
			submit(ctx, dispatcher, query)
		}
	}()

	// Shut down on interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
		os.Exit(0)
	}()

	logger.Info("Assistant started",
		zap.String("backend", cfg.BackendBaseURL),
		zap.String("userID", userID),
		zap.String("language", cfg.Language))

	fmt.Println("Bhasha-Kisan assistant. Type a question, or /speak, /image <path>, /history, /weather <place>, /status, /quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return

		case line == "/speak":
			if err := session.Start(ctx); err != nil {
				fmt.Println("Could not start listening:", err)
				continue
			}
			fmt.Println("Listening... (/stop to finish)")

		case line == "/stop":
			if err := session.Stop(); err != nil {
				fmt.Println("Not listening:", err)
			}

		case strings.HasPrefix(line, "/image "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/image "))
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Println("Could not read image:", err)
				continue
			}
			mimeType := mime.TypeByExtension(filepath.Ext(path))
			query, err := builder.FromImage(userID, data, mimeType)
			if err != nil {
				fmt.Println("Could not build image query:", err)
				continue
			}
			submit(ctx, dispatcher, query)

		case line == "/history":
			entries, err := history.List(ctx, userID)
			if err != nil {
				fmt.Println("Could not fetch history:", err)
				continue
			}
			for _, entry := range entries {
				fmt.Printf("[%s] %s -> %s\n", entry.Timestamp, entry.Transcript, entry.Answer)
			}
			for _, record := range cache.Records() {
				fmt.Printf("(this session) %s -> %s\n", record.Query.Text, record.Response.Text)
			}

		case strings.HasPrefix(line, "/weather "):
			location := strings.TrimSpace(strings.TrimPrefix(line, "/weather "))
			report, err := weather.Current(ctx, location)
			if err != nil {
				fmt.Println("Could not fetch weather:", err)
				continue
			}
			fmt.Printf("%s: %.1f C, %s, humidity %d%%\n",
				report.Location, report.TemperatureC, report.Condition, report.Humidity)

		case line == "/status":
			status := monitor.Status()
			state := dispatcher.State()
			fmt.Printf("online=%v latency=%dms dispatch=%s\n",
				status.Online, status.LastLatencyMs, state.Status)

		default:
			query, err := builder.FromText(userID, line)
			if err != nil {
				fmt.Println("Could not build query:", err)
				continue
			}
			submit(ctx, dispatcher, query)
		}
	}
}

// submit dispatches one query and prints the normalized response.
func submit(ctx context.Context, dispatcher *usecase.RequestDispatcher, query entities.Query) {
	response, err := dispatcher.Submit(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrBusy):
			fmt.Println("Still working on the previous question, try again in a moment.")
		case errors.Is(err, entities.ErrOffline):
			fmt.Println("You appear to be offline. Check your connection and retry.")
		default:
			fmt.Println("The assistant could not answer:", err)
		}
		return
	}

	if response.Kind == entities.ResponseKindCropDiagnosis {
		if response.CropType != "" {
			fmt.Println("Crop:", response.CropType)
		}
		if response.DiseaseIdentified != "" {
			fmt.Printf("Issue: %s (severity: %s)\n", response.DiseaseIdentified, response.Severity)
		}
		if response.AudioURL != "" {
			fmt.Println("Audio:", response.AudioURL)
		}
	}
	fmt.Println(response.Text)
}
