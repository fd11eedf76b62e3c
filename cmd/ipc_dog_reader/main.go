package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/logger"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/pipeline"
)

func main() {
	cfg, err := pipeline.LoadConfig()
	if err != nil {
		log.Printf("Invalid environment: %v", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.ShmName, "shm", cfg.ShmName, "Shared memory object name")
	flag.StringVar(&cfg.ShmDir, "shm-dir", cfg.ShmDir, "Directory backing POSIX shared memory")
	flag.StringVar(&cfg.ImagePath, "image", cfg.ImagePath, "Input image path")
	flag.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Annotated output image path")
	flag.IntVar(&cfg.JPEGQuality, "quality", cfg.JPEGQuality, "JPEG output quality (1-100)")
	flag.StringVar(&cfg.BoxColor, "color", cfg.BoxColor, "Box and label color (hex)")
	flag.IntVar(&cfg.LineThickness, "thickness", cfg.LineThickness, "Box line thickness in pixels")
	flag.Float64Var(&cfg.FontScale, "font-scale", cfg.FontScale, "Label font scale")
	flag.IntVar(&cfg.TextThickness, "text-thickness", cfg.TextThickness, "Label stroke thickness")
	flag.IntVar(&cfg.LabelOffset, "label-offset", cfg.LabelOffset, "Label baseline distance above the box")
	flag.StringVar(&cfg.LabelPrefix, "label", cfg.LabelPrefix, "Label text before the confidence")
	flag.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "Write Prometheus metrics to this file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error, silent)")
	flag.BoolVar(&cfg.LogColor, "log-color", cfg.LogColor, "Enable colored log output")
	flag.Parse()

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("Invalid log level: %v", err)
		os.Exit(1)
	}
	logger.Init(level, os.Stderr, cfg.LogColor)

	logger.Debug("Main", "Shared memory: %s (dir %s)", cfg.ShmName, cfg.ShmDir)
	logger.Debug("Main", "Image: %s -> %s", cfg.ImagePath, cfg.OutputPath)

	if _, err := pipeline.NewRunner(cfg, os.Stdout, nil).Run(); err != nil {
		logger.Error("Main", "%v", err)
		if level == logger.SILENT {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(pipeline.ExitCode(err))
	}
}
