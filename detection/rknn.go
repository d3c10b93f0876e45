package detection

import (
	"fmt"
	"image"
	"time"

	"github.com/swdee/go-rknnlite"
	"github.com/swdee/go-rknnlite/postprocess"
	"github.com/swdee/go-rknnlite/preprocess"
	"gocv.io/x/gocv"
)

// RKNNProvider runs a YOLOv8 model on the Rockchip NPU through the rknnlite
// runtime. The provider owns the runtime handle; Close releases it.
type RKNNProvider struct {
	rt      *rknnlite.Runtime
	proc    *postprocess.YOLOv8
	resizer *preprocess.Resizer
	labels  []string
	width   int
	height  int
	info    ProviderInfo
}

// CoreMask maps a core selector flag value to an rknnlite NPU core mask.
func CoreMask(name string) (rknnlite.CoreMask, error) {
	switch name {
	case "", "auto":
		return rknnlite.NPUCoreAuto, nil
	case "0":
		return rknnlite.NPUCore0, nil
	case "1":
		return rknnlite.NPUCore1, nil
	case "2":
		return rknnlite.NPUCore2, nil
	case "all":
		return rknnlite.NPUCore012, nil
	}
	return rknnlite.NPUCoreAuto, fmt.Errorf("unknown NPU core selector %q", name)
}

// NewRKNNProvider loads the model and queries its input geometry. Any failure
// here is a configuration error; there is no per-frame retry.
func NewRKNNProvider(modelPath string, labels []string, core rknnlite.CoreMask) (*RKNNProvider, error) {
	start := time.Now()

	rt, err := rknnlite.NewRuntime(modelPath, core)
	if err != nil {
		return nil, fmt.Errorf("loading rknn model %s: %w", modelPath, err)
	}
	// quantized YOLOv8 models post-process from the int8 outputs directly
	rt.SetWantFloat(false)

	attrs := rt.InputAttrs()
	if len(attrs) == 0 {
		rt.Close()
		return nil, fmt.Errorf("model %s reports no input tensors", modelPath)
	}
	// NHWC: [1, height, width, channels]
	height := int(attrs[0].Dims[1])
	width := int(attrs[0].Dims[2])
	if width <= 0 || height <= 0 {
		rt.Close()
		return nil, fmt.Errorf("model %s reports invalid input size %dx%d", modelPath, width, height)
	}

	return &RKNNProvider{
		rt:   rt,
		proc: postprocess.NewYOLOv8(postprocess.YOLOv8COCOParams()),
		// Identity resizer: views arrive already sized to the model input,
		// so detection boxes stay in model-input coordinates.
		resizer: preprocess.NewResizer(width, height, width, height),
		labels:  labels,
		width:   width,
		height:  height,
		info: ProviderInfo{
			Backend:  "rknnlite",
			Device:   "NPU",
			InitTime: time.Since(start),
		},
	}, nil
}

// InputSize reports the model's fixed input dimensions.
func (p *RKNNProvider) InputSize() (int, int) { return p.width, p.height }

// Info describes the backend.
func (p *RKNNProvider) Info() ProviderInfo { return p.info }

// Detect runs one synchronous inference pass. The view must already match
// the model input size and is not modified.
func (p *RKNNProvider) Detect(view gocv.Mat) (Batch, error) {
	outputs, err := p.rt.Inference([]gocv.Mat{view})
	if err != nil {
		return nil, fmt.Errorf("rknn inference: %w", err)
	}
	defer outputs.Free()

	results := p.proc.DetectObjects(outputs, p.resizer).GetDetectResults()

	batch := make(Batch, 0, len(results))
	for _, det := range results {
		batch = append(batch, Detection{
			ClassID:    det.Class,
			ClassName:  ClassName(p.labels, det.Class),
			Confidence: float64(det.Probability),
			Box:        image.Rect(det.Box.Left, det.Box.Top, det.Box.Right, det.Box.Bottom),
		})
	}
	return batch, nil
}

// Close releases the NPU runtime.
func (p *RKNNProvider) Close() error {
	return p.rt.Close()
}
