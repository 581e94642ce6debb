package dicom

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// JPEG-LS Transfer Syntax UIDs
const (
	JPEGLSLossless  = "1.2.840.10008.1.2.4.80"
	JPEGLSNearLossy = "1.2.840.10008.1.2.4.81"
)

// IsJPEGLSCompressed checks if a DICOM file uses JPEG-LS compression.
func IsJPEGLSCompressed(path string) bool {
	ds, err := ReadDicomMetadataOnly(path)
	if err != nil {
		return false
	}

	ts := ds.GetTransferSyntax()
	return strings.Contains(ts, JPEGLSLossless) || strings.Contains(ts, JPEGLSNearLossy)
}

// DecompressJPEGLS decompresses a JPEG-LS DICOM file using dcmtk.
// Returns the path to the decompressed temporary file; the caller removes it.
func DecompressJPEGLS(inputPath string) (string, error) {
	bin := dcmdjplsPath()
	if bin == "" {
		return "", fmt.Errorf("dcmtk not installed. Run: %s", InstallHint())
	}

	tempFile, err := os.CreateTemp("", "dicominfo-*.dcm")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	tempFile.Close()

	cmd := exec.Command(bin, inputPath, tempPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("dcmdjpls failed: %s", strings.TrimSpace(string(output)))
	}

	return tempPath, nil
}

// dcmtkLocations are checked when dcmdjpls is not on PATH.
var dcmtkLocations = map[string][]string{
	"darwin":  {"/opt/homebrew/bin/dcmdjpls", "/usr/local/bin/dcmdjpls"},
	"linux":   {"/usr/bin/dcmdjpls", "/usr/local/bin/dcmdjpls"},
	"windows": {`C:\Program Files\dcmtk\bin\dcmdjpls.exe`, `C:\dcmtk\bin\dcmdjpls.exe`},
}

// CheckDcmtkInstalled reports whether dcmdjpls can be found.
func CheckDcmtkInstalled() bool {
	return dcmdjplsPath() != ""
}

func dcmdjplsPath() string {
	if p, err := exec.LookPath("dcmdjpls"); err == nil {
		return p
	}
	for _, p := range dcmtkLocations[runtime.GOOS] {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// InstallCommand returns the shell command that installs dcmtk on this
// platform, or "" when there is no single command for it.
func InstallCommand() string {
	return installCommand(runtime.GOOS)
}

func installCommand(goos string) string {
	switch goos {
	case "darwin":
		return "brew install dcmtk"
	case "linux":
		return "sudo apt-get update && sudo apt-get install -y dcmtk"
	default:
		return ""
	}
}

// InstallHint tells the user how to install dcmtk.
func InstallHint() string {
	if cmd := InstallCommand(); cmd != "" {
		return cmd
	}
	return "install dcmtk using your system package manager"
}
