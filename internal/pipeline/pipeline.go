// Package pipeline runs the one-shot read, decode, render sequence.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/logger"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/metrics"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/overlay"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/record"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/shm"
)

// Summary describes a completed run.
type Summary struct {
	Count      int
	Boxes      int
	Labels     int
	OutputPath string
}

// Runner executes the pipeline once per Run call.
type Runner struct {
	cfg     Config
	stdout  io.Writer
	metrics *metrics.Metrics
}

// NewRunner creates a runner. A nil stdout means os.Stdout; a nil metrics
// gets a private instance.
func NewRunner(cfg Config, stdout io.Writer, m *metrics.Metrics) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if m == nil {
		m = metrics.New()
	}
	return &Runner{
		cfg:     cfg,
		stdout:  stdout,
		metrics: m,
	}
}

// Metrics returns the runner's metrics.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// Run reads the shared record, draws its detections on the input image and
// writes the output image. Errors are *Error values carrying their Kind.
// The output file is only written once every earlier step succeeded.
func (r *Runner) Run() (sum *Summary, err error) {
	start := time.Now()
	defer func() { r.finish(start, err) }()

	if err := r.cfg.Validate(); err != nil {
		return nil, newError(KindConfig, "validate config", err)
	}
	style, err := r.cfg.Style()
	if err != nil {
		return nil, newError(KindConfig, "build style", err)
	}

	raw, err := shm.ReadRecordBytes(r.cfg.ShmDir, r.cfg.ShmName)
	if err != nil {
		return nil, newError(KindResourceUnavailable, "read shared memory", err)
	}
	r.metrics.RecordsRead.Add(1)

	rec, err := record.Decode(raw)
	if err != nil {
		return nil, newError(KindDataCorruption, "decode record", err)
	}
	dets := rec.Valid()
	r.metrics.DetectionsDecoded.Store(uint64(len(dets)))
	logger.Info("Reader", "Decoded %d detection(s) from %s", len(dets), r.cfg.ShmName)

	fmt.Fprintf(r.stdout, "Detections read from shared memory: %d\n", rec.Count)

	img, err := overlay.LoadImage(r.cfg.ImagePath)
	if err != nil {
		return nil, newError(KindImageLoad, "load image", err)
	}

	ann, err := overlay.NewAnnotator(style)
	if err != nil {
		return nil, newError(KindConfig, "create annotator", err)
	}
	defer ann.Close()

	res, err := ann.Annotate(img, dets)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	r.metrics.BoxesDrawn.Add(uint64(res.Boxes))
	r.metrics.LabelsDrawn.Add(uint64(res.Labels))

	if err := overlay.SaveImage(res.Image, r.cfg.OutputPath, r.cfg.JPEGQuality); err != nil {
		return nil, newError(KindImageWrite, "write image", err)
	}
	r.metrics.ImagesWritten.Add(1)

	fmt.Fprintf(r.stdout, "Output saved as %s\n", r.cfg.OutputPath)

	return &Summary{
		Count:      len(dets),
		Boxes:      res.Boxes,
		Labels:     res.Labels,
		OutputPath: r.cfg.OutputPath,
	}, nil
}

func (r *Runner) finish(start time.Time, err error) {
	r.metrics.UpdateRunDuration(start)
	if err != nil {
		kind := "unknown"
		var pe *Error
		if errors.As(err, &pe) {
			kind = pe.Kind.String()
		}
		r.metrics.RecordError(kind)
	} else {
		r.metrics.MarkSuccess(time.Now())
	}

	if r.cfg.MetricsTextfile == "" {
		return
	}
	if werr := r.metrics.WriteTextfile(r.cfg.MetricsTextfile); werr != nil {
		logger.Warn("Metrics", "%v", werr)
		return
	}
	logger.Debug("Metrics", "Wrote %s", r.cfg.MetricsTextfile)
}
