package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iafilius/CensusScatter/src/census"
	"github.com/iafilius/CensusScatter/src/logging"
	"github.com/iafilius/CensusScatter/src/scatter"
)

// ScreenshotName is the file name used for one axis combination.
func ScreenshotName(sel scatter.Selection) string {
	return fmt.Sprintf("%s_%s.png", sel.X, sel.Y)
}

// WriteScreenshots renders every X/Y combination of spec as PNGs under outDir. The
// selections are made through a controller, the same way a user would click through
// the labels. It returns the written paths in render order.
func WriteScreenshots(ds census.Dataset, spec scatter.ChartSpec, outDir string) ([]string, error) {
	defer logging.TimeTrack(time.Now(), "screenshots")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	ctl := scatter.NewController(spec, nil)
	if err := ctl.Initialize(ds); err != nil {
		return nil, err
	}
	var written []string
	for _, xo := range spec.X.Options {
		ctl.SelectX(xo.Field)
		for _, yo := range spec.Y.Options {
			ctl.SelectY(yo.Field)
			sc := ctl.Scene()
			var buf bytes.Buffer
			if err := PNG(&buf, sc, Caption(sc)); err != nil {
				return written, fmt.Errorf("%s: %w", ScreenshotName(sc.Selection), err)
			}
			p := filepath.Join(outDir, ScreenshotName(sc.Selection))
			if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", p, err)
			}
			logging.Debugf("wrote %s", p)
			written = append(written, p)
		}
	}
	logging.Infof("wrote %d screenshots to %s", len(written), outDir)
	return written, nil
}
