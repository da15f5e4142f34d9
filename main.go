package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"yt-transcript/config"
	"yt-transcript/format"
	"yt-transcript/logger"
	"yt-transcript/services/transcript"
	"yt-transcript/youtube"
)

func main() {
	var (
		languages      = flag.String("languages", "", "Comma-separated language codes in priority order")
		translateTo    = flag.String("translate", "", "Translate the selected track to this language code")
		outputFormat   = flag.String("format", "text", "Output format (json, text, srt, markdown)")
		withTimestamps = flag.Bool("timestamps", false, "Prefix text/markdown output with start offsets")
		outputPath     = flag.String("o", "", "Write output to this file instead of stdout")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: yt-transcript [flags] <video URL or ID>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogDir, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	f, err := format.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	client, err := youtube.NewClient(youtube.Config{
		Timeout:      cfg.HTTPTimeout,
		UserAgent:    cfg.UserAgent,
		RequestDelay: cfg.RequestDelay,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize client: %v\n", err)
		os.Exit(1)
	}

	service := transcript.NewService(client, transcript.Config{
		DefaultLanguages: cfg.DefaultLanguages,
	})

	t, err := service.Fetch(context.Background(), flag.Arg(0), splitLanguages(*languages), *translateTo)
	if err != nil {
		logrus.WithError(err).Error("Transcript fetch failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out, err := format.Render(t, f, *withTimestamps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Print(out)
}

func splitLanguages(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
