package collect

import (
	"errors"
	"fmt"
	"path/filepath"
)

var ErrUnknownMode = errors.New("unknown collect mode")

// Mode selects the folder layout and flow file format of a run.
type Mode string

const (
	ModeUrQMD               Mode = "fromUrQMD"
	ModePureHydro           Mode = "fromPureHydro"
	ModePureHydroNewStoring Mode = "fromPureHydroNewStoring"
)

func Modes() []Mode {
	return []Mode{ModeUrQMD, ModePureHydro, ModePureHydroNewStoring}
}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type flowFormat int

const (
	flowBinning flowFormat = iota
	flowHydro
)

// folderLayout describes where a mode keeps its files relative to an event folder.
type folderLayout struct {
	eccSubdir  string
	flowSubdir string
	flow       flowFormat
	// filtered modes only accept folders matching the subfolder pattern.
	filtered bool
}

func (m Mode) layout() (folderLayout, error) {
	switch m {
	case ModeUrQMD:
		return folderLayout{flow: flowBinning, filtered: true}, nil
	case ModePureHydro:
		return folderLayout{eccSubdir: "results", flowSubdir: "spectra", flow: flowHydro}, nil
	case ModePureHydroNewStoring:
		return folderLayout{flow: flowHydro, filtered: true}, nil
	default:
		return folderLayout{}, fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
}

func (l folderLayout) eccDir(eventDir string) string {
	return filepath.Join(eventDir, l.eccSubdir)
}

func (l folderLayout) flowDir(eventDir string) string {
	return filepath.Join(eventDir, l.flowSubdir)
}
