package main

import (
	"flag"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-intrusion/bgsub"
	"github.com/nvr-ai/go-intrusion/denoise"
	"github.com/nvr-ai/go-intrusion/geometry"
	"github.com/nvr-ai/go-intrusion/pipeline"
	"github.com/nvr-ai/go-intrusion/profiler"
	"github.com/nvr-ai/go-intrusion/video"
)

func main() {
	var (
		framesDir  string
		videoPath  string
		subtractor string
		blur       string
		ksize      int
		noRefine   bool
		scaleWidth int
		gray       bool
		verbose    bool
	)
	flag.StringVar(&framesDir, "frames", "", "Directory of frame-<N>.jpg/.png files")
	flag.StringVar(&videoPath, "video", "", "Video file path (requires a build with -tags withcv)")
	flag.StringVar(&subtractor, "subtractor", "mog2", "Background subtraction variant: mog2 or knn")
	flag.StringVar(&blur, "blur", "gaussian", "Spatial denoising filter: gaussian, box or off")
	flag.IntVar(&ksize, "ksize", pipeline.DefaultDenoiseKSize, "Denoising kernel size (odd)")
	flag.BoolVar(&noRefine, "no-refine", false, "Disable morphological mask cleanup")
	flag.IntVar(&scaleWidth, "scale-width", 0, "Downscale frames to this width (0 = native)")
	flag.BoolVar(&gray, "gray", true, "Convert frames to grayscale before processing")
	flag.BoolVar(&verbose, "verbose", false, "Log every frame, not only verdict changes")
	flag.Parse()

	source, err := openSource(framesDir, videoPath, video.SequenceOptions{
		Gray:       gray,
		ScaleWidth: scaleWidth,
	})
	if err != nil {
		log.WithError(err).Fatal("opening frame source")
	}
	defer source.Close()

	cfg, err := buildConfig(subtractor, blur, ksize, noRefine)
	if err != nil {
		log.WithError(err).Fatal("building pipeline configuration")
	}

	p := pipeline.New(cfg)
	if err := p.Fit(); err != nil {
		log.WithError(err).Fatal("configuring pipeline")
	}

	stats := profiler.NewRunStats()
	frame := 0
	lastVerdict := -1
	for {
		f, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).WithField("frame", frame).Fatal("reading frame")
		}

		verdict, err := p.Predict(f)
		if err != nil {
			log.WithError(err).WithField("frame", frame).Fatal("processing frame")
		}
		stats.Observe(verdict, p.LastMask())

		if verdict != lastVerdict || verbose {
			entry := log.WithFields(log.Fields{"frame": frame, "verdict": verdict})
			if verdict == 1 {
				blobs := geometry.Blobs(p.LastMask())
				entry = entry.WithField("blobs", len(blobs))
				entry.Warn("intrusion detected")
			} else {
				entry.Info("clear")
			}
			lastVerdict = verdict
		}
		frame++
	}

	report := stats.Report()
	log.WithFields(log.Fields{
		"frames":     report.Frames,
		"intrusions": report.Intrusions,
		"coverage":   report.Coverage,
		"fps":        report.FramesPerSecond,
		"elapsed":    report.Elapsed,
	}).Info("run complete")
}

func openSource(framesDir, videoPath string, opts video.SequenceOptions) (video.Source, error) {
	switch {
	case framesDir != "" && videoPath != "":
		flag.Usage()
		os.Exit(2)
		return nil, nil
	case framesDir != "":
		return video.NewSequenceSource(framesDir, opts)
	case videoPath != "":
		return video.NewCaptureSource(videoPath, opts)
	default:
		flag.Usage()
		os.Exit(2)
		return nil, nil
	}
}

func buildConfig(subtractor, blur string, ksize int, noRefine bool) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	switch strings.ToLower(subtractor) {
	case "mog2":
		cfg.Subtractor.Variant = bgsub.MOG2
	case "knn":
		cfg.Subtractor.Variant = bgsub.KNN
	default:
		return pipeline.Config{}, &pipeline.ConfigError{
			Stage: "subtractor", Reason: "unknown variant " + subtractor,
		}
	}

	switch strings.ToLower(blur) {
	case "gaussian":
		cfg.Denoise = &pipeline.DenoiseConfig{Filter: denoise.Gaussian, KSize: ksize}
	case "box":
		cfg.Denoise = &pipeline.DenoiseConfig{Filter: denoise.Box, KSize: ksize}
	case "off":
		cfg.Denoise = nil
	default:
		return pipeline.Config{}, &pipeline.ConfigError{
			Stage: "denoise", Reason: "unknown filter " + blur,
		}
	}

	if noRefine {
		cfg.Refine = nil
	}
	return cfg, nil
}
