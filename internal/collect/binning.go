package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"ebecollect/internal/datafile"
	"ebecollect/internal/schema"
)

const (
	binningFormatFile = "integrated_flow_format.dat"
	binningBinsFile   = "pT_bins.dat"
)

var binnedFlowFile = regexp.MustCompile(`^(integrated|differential)_flow_([A-Za-z+]+)\.dat$`)

// binnedSpecies maps the particle token of a binning output file name to a
// species name.
var binnedSpecies = map[string]string{
	"total":   "total",
	"pion":    "pion",
	"kaon":    "kaon",
	"nucleon": "nucleon",
	"sigma":   "sigma",
	"xi":      "xi",
	"lambda":  "lambda",
	"omega":   "omega",
	"phi":     "phi",
}

type binningLayout struct {
	countCol  int
	pTCol     int
	harmonics []datafile.Harmonic
	dpT       float64
}

func loadBinningLayout(dir string) (*binningLayout, error) {
	format, err := datafile.LoadFormat(filepath.Join(dir, binningFormatFile))
	if err != nil {
		return nil, fmt.Errorf("loading flow format: %w", err)
	}
	countCol, err := format.Column(datafile.FieldCount)
	if err != nil {
		return nil, err
	}
	pTCol, err := format.Column(datafile.FieldPTMean)
	if err != nil {
		return nil, err
	}
	harmonics, err := format.Harmonics()
	if err != nil {
		return nil, err
	}
	dpT, err := datafile.BinWidth(filepath.Join(dir, binningBinsFile))
	if err != nil {
		return nil, fmt.Errorf("loading pT bins: %w", err)
	}
	return &binningLayout{countCol: countCol, pTCol: pTCol, harmonics: harmonics, dpT: dpT}, nil
}

// collectBinnedFlow reads the binning utility output in dir. It returns the
// number of flow files read and the number skipped for an unknown particle.
func collectBinnedFlow(dir string, factor float64, rows *eventRows, log *zap.Logger) (read, skipped int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("listing flow folder: %w", err)
	}

	layout, err := loadBinningLayout(dir)
	if err != nil {
		return 0, 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := binnedFlowFile.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		name, ok := binnedSpecies[match[2]]
		if !ok {
			log.Debug("skipped flow file",
				zap.String("file", filepath.Join(dir, entry.Name())),
				zap.String("particle", match[2]),
			)
			skipped++
			continue
		}
		pid, err := schema.PID(name)
		if err != nil {
			return read, skipped, err
		}

		path := filepath.Join(dir, entry.Name())
		if match[1] == "integrated" {
			err = readIntegratedBinned(path, pid, factor, layout, rows)
		} else {
			err = readDifferentialBinned(path, pid, factor, layout, rows)
		}
		if err != nil {
			return read, skipped, err
		}
		read++
	}
	return read, skipped, nil
}

func readIntegratedBinned(path string, pid int64, factor float64, layout *binningLayout, rows *eventRows) error {
	m, err := datafile.LoadMatrix(path)
	if err != nil {
		return err
	}
	for i := 0; i < m.Len(); i++ {
		for _, h := range layout.harmonics {
			re, im, err := harmonicAt(m, i, h)
			if err != nil {
				return err
			}
			rows.add(schema.TableInteVn, pid, int64(h.N), re, im)
		}
		count, err := m.At(i, layout.countCol)
		if err != nil {
			return err
		}
		rows.add(schema.TableMultiplicities, pid, count*factor)
	}
	return nil
}

func readDifferentialBinned(path string, pid int64, factor float64, layout *binningLayout, rows *eventRows) error {
	m, err := datafile.LoadMatrix(path)
	if err != nil {
		return err
	}
	for i := 0; i < m.Len(); i++ {
		pT, err := m.At(i, layout.pTCol)
		if err != nil {
			return err
		}
		for _, h := range layout.harmonics {
			re, im, err := harmonicAt(m, i, h)
			if err != nil {
				return err
			}
			rows.add(schema.TableDiffVn, pid, pT, int64(h.N), re, im)
		}
		count, err := m.At(i, layout.countCol)
		if err != nil {
			return err
		}
		rows.add(schema.TableSpectra, pid, pT, count*factor/layout.dpT)
	}
	return nil
}

func harmonicAt(m *datafile.Matrix, i int, h datafile.Harmonic) (float64, float64, error) {
	re, err := m.At(i, h.RealCol)
	if err != nil {
		return 0, 0, err
	}
	im, err := m.At(i, h.ImagCol)
	if err != nil {
		return 0, 0, err
	}
	return re, im, nil
}
