package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"ebecollect/internal/datafile"
	"ebecollect/internal/schema"
)

const (
	eccRealCol  = 0
	eccImagCol  = 1
	rInteCol    = 3
	rInteShellN = 1
)

var eccFiles = []struct {
	pattern *regexp.Regexp
	eccType string
}{
	{regexp.MustCompile(`^ecc-init-sd-r_power-(\d+)\.dat$`), "sd"},
	{regexp.MustCompile(`^ecc-init-r_power-(\d+)\.dat$`), "ed"},
}

// collectEccentricities reads every eccentricity file in dir. Row n of a file
// is harmonic shell n; shell 1 also carries the radial integral.
func collectEccentricities(dir string, rows *eventRows) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("listing eccentricity folder: %w", err)
	}

	files := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, ef := range eccFiles {
			match := ef.pattern.FindStringSubmatch(entry.Name())
			if match == nil {
				continue
			}
			rPower, err := strconv.ParseInt(match[1], 10, 64)
			if err != nil {
				return files, fmt.Errorf("r_power in %s: %w", entry.Name(), err)
			}
			eccID, err := schema.EccID(ef.eccType)
			if err != nil {
				return files, err
			}
			if err := readEccentricityFile(filepath.Join(dir, entry.Name()), eccID, rPower, rows); err != nil {
				return files, err
			}
			files++
			break
		}
	}
	return files, nil
}

func readEccentricityFile(path string, eccID, rPower int64, rows *eventRows) error {
	m, err := datafile.LoadMatrix(path)
	if err != nil {
		return err
	}
	for n := 0; n < m.Len(); n++ {
		re, err := m.At(n, eccRealCol)
		if err != nil {
			return err
		}
		im, err := m.At(n, eccImagCol)
		if err != nil {
			return err
		}
		rows.add(schema.TableEccentricities, eccID, rPower, int64(n), re, im)

		if n == rInteShellN {
			rInte, err := m.At(n, rInteCol)
			if err != nil {
				return err
			}
			rows.add(schema.TableRIntegrals, eccID, rPower, rInte)
		}
	}
	return nil
}
