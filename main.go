// rknncam runs a YOLOv8 RKNN model over a live camera or a video file,
// prints per-frame detections, and re-encodes the annotated frames into an
// output video. The detection stream goes to stdout; diagnostics go to
// stderr.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rknncam/coords"
	"rknncam/detection"
	"rknncam/overlay"
	"rknncam/pipeline"
	"rknncam/video"
)

var (
	outputPath = flag.String("output", "output.mp4", "Output video file path")
	fourCC     = flag.String("fourcc", "avc1", "FourCC codec identifier for the output container")
	labelsPath = flag.String("labels", "", "Class names file, one per line (default: built-in COCO classes)")
	npuCore    = flag.String("core", "auto", "NPU core selector: auto, 0, 1, 2 or all")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <rknn_model> <video_source>\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  video_source: camera id (e.g. 0) or video file path")
	flag.PrintDefaults()
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		return 2
	}
	modelPath, sourceSpec := flag.Arg(0), flag.Arg(1)

	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup: %v\n", err)
		return 1
	}
	defer zl.Sync()
	log := zl.Sugar().With("run", uuid.NewString())

	labels := detection.COCOLabels()
	if *labelsPath != "" {
		labels, err = detection.LoadLabels(*labelsPath)
		if err != nil {
			log.Errorw("loading labels", "path", *labelsPath, "error", err)
			return 2
		}
	}

	core, err := detection.CoreMask(*npuCore)
	if err != nil {
		log.Errorw("bad core selector", "error", err)
		return 2
	}

	provider, err := detection.NewRKNNProvider(modelPath, labels, core)
	if err != nil {
		log.Errorw("initializing detector", "model", modelPath, "error", err)
		return 1
	}

	modelW, modelH := provider.InputSize()
	mapper, err := coords.NewMapper(modelW, modelH)
	if err != nil {
		provider.Close()
		log.Errorw("invalid model input size", "model", modelPath, "error", err)
		return 1
	}
	log.Infow("detector ready",
		"model", modelPath,
		"input", fmt.Sprintf("%dx%d", modelW, modelH),
		"backend", provider.Info().Backend,
		"init", provider.Info().InitTime)

	source, err := video.OpenSource(sourceSpec)
	if err != nil {
		provider.Close()
		log.Errorw("opening video source", "source", sourceSpec, "error", err)
		return 1
	}

	sink := video.OpenSink(*outputPath, *fourCC, source.FPS(), image.Pt(source.Width(), source.Height()))
	savingVideo := sink.IsOpen()
	if savingVideo {
		log.Infow("saving inference result",
			"path", *outputPath,
			"fps", source.FPS(),
			"size", fmt.Sprintf("%dx%d", source.Width(), source.Height()))
	} else {
		log.Warnw("video writer failed to open, not saving video", "path", *outputPath)
	}

	driver := pipeline.NewDriver(source, provider, sink, overlay.NewRenderer(), mapper, log, os.Stdout)
	if err := driver.Run(); err != nil {
		log.Errorw("pipeline failed", "frames", driver.Frames(), "error", err)
		return 1
	}
	if savingVideo {
		log.Infow("video saved", "path", *outputPath, "frames", driver.Frames())
	}
	return 0
}
