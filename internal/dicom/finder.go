package dicom

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the slice file extension matched by default.
const DefaultExtension = ".dcm"

// ErrStopWalk can be returned by a FolderFunc to end the walk early.
var ErrStopWalk = errors.New("stop walk")

// FolderFunc is called for every directory visited by WalkFolders.
// err is non-nil when the directory could not be read; returning nil
// skips it and continues the walk.
type FolderFunc func(folder string, err error) error

// SliceFile is a candidate slice file in a folder.
type SliceFile struct {
	Path string
	Size int64
}

// WalkFolders visits root and every directory below it depth-first,
// reading each directory only when the walk reaches it.
func WalkFolders(root string, fn FolderFunc) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil && path == root {
				return err
			}
			if ferr := fn(path, err); ferr != nil {
				return ferr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		// WalkDir reports a directory before reading it; an unreadable one
		// must reach fn once, with its error.
		if rerr := checkReadable(path); rerr != nil {
			if ferr := fn(path, rerr); ferr != nil {
				return ferr
			}
			return filepath.SkipDir
		}
		return fn(path, nil)
	})
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func checkReadable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ListSliceFiles returns the immediate files of folder whose extension
// matches ext case-insensitively, in directory listing order.
func ListSliceFiles(folder, ext string) ([]SliceFile, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var files []SliceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}

		path := filepath.Join(folder, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			// dangling link or removed since listing
			continue
		}

		files = append(files, SliceFile{Path: path, Size: info.Size()})
	}
	return files, nil
}

// FolderSize sums the byte sizes of the given slice files.
func FolderSize(files []SliceFile) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

// hasDicomMagicBytes checks if a file has the DICOM magic bytes ("DICM" at offset 128)
func hasDicomMagicBytes(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 132)
	if _, err := io.ReadFull(file, header); err != nil {
		return false
	}

	return string(header[128:132]) == "DICM"
}
