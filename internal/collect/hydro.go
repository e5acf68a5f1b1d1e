package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"ebecollect/internal/datafile"
	"ebecollect/internal/schema"
)

const (
	hydroDiffFile = "%s_vndata.dat"
	hydroInteFile = "%s_integrated_vndata.dat"

	// each harmonic occupies a group of three columns
	hydroGroupWidth = 3
)

// hydroSpecies maps the particle token of an iS output file name to a
// species name.
var hydroSpecies = map[string]string{
	"Charged":      "charged_hydro",
	"pion_p":       "pion_p_hydro",
	"Kaon_p":       "kaon_p_hydro",
	"proton":       "proton_hydro",
	"Sigma_p":      "sigma_p_hydro",
	"Xi_m":         "xi_m_hydro",
	"Omega":        "omega_hydro",
	"Lambda":       "lambda_hydro",
	"Phi":          "phi_hydro",
	"thermal_211":  "pion_p_thermal",
	"thermal_321":  "kaon_p_thermal",
	"thermal_2212": "proton_thermal",
}

var hydroTokens = sortedKeys(hydroSpecies)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// collectHydroFlow reads the per-species iS output files in dir. Absent
// files are skipped and counted.
func collectHydroFlow(dir string, rows *eventRows, log *zap.Logger) (read, missing int, err error) {
	for _, token := range hydroTokens {
		pid, err := schema.PID(hydroSpecies[token])
		if err != nil {
			return read, missing, err
		}

		for _, f := range []struct {
			name string
			load func(string, int64, *eventRows) error
		}{
			{fmt.Sprintf(hydroDiffFile, token), readDifferentialHydro},
			{fmt.Sprintf(hydroInteFile, token), readIntegratedHydro},
		} {
			path := filepath.Join(dir, f.name)
			ok, err := fileExists(path)
			if err != nil {
				return read, missing, err
			}
			if !ok {
				log.Debug("missing flow file", zap.String("file", path))
				missing++
				continue
			}
			if err := f.load(path, pid, rows); err != nil {
				return read, missing, err
			}
			read++
		}
	}
	return read, missing, nil
}

// readDifferentialHydro takes pT from column 0 and dN/(pT dpT dphi) from
// column 2; harmonic n sits in columns 3n and 3n+1.
func readDifferentialHydro(path string, pid int64, rows *eventRows) error {
	m, err := datafile.LoadMatrix(path)
	if err != nil {
		return err
	}
	largest := m.Width() / hydroGroupWidth
	for i := 0; i < m.Len(); i++ {
		pT, err := m.At(i, 0)
		if err != nil {
			return err
		}
		for n := 1; n < largest; n++ {
			re, err := m.At(i, hydroGroupWidth*n)
			if err != nil {
				return err
			}
			im, err := m.At(i, hydroGroupWidth*n+1)
			if err != nil {
				return err
			}
			rows.add(schema.TableDiffVn, pid, pT, int64(n), re, im)
		}
		dN, err := m.At(i, 2)
		if err != nil {
			return err
		}
		rows.add(schema.TableSpectra, pid, pT, dN*2*math.Pi*pT)
	}
	return nil
}

// readIntegratedHydro takes harmonic n from columns 3 and 4 of row n and the
// multiplicity from column 1 of row 0.
func readIntegratedHydro(path string, pid int64, rows *eventRows) error {
	m, err := datafile.LoadMatrix(path)
	if err != nil {
		return err
	}
	for n := 1; n < m.Len(); n++ {
		re, err := m.At(n, 3)
		if err != nil {
			return err
		}
		im, err := m.At(n, 4)
		if err != nil {
			return err
		}
		rows.add(schema.TableInteVn, pid, int64(n), re, im)
	}
	mult, err := m.At(0, 1)
	if err != nil {
		return err
	}
	rows.add(schema.TableMultiplicities, pid, mult)
	return nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
