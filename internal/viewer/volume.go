// Package viewer stacks the slices of one patient into a volume and renders
// axial, coronal and sagittal planes of it.
package viewer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/apex/log"

	"dicom-info/internal/dicom"
)

// ErrNoSlices is returned when none of the given files had usable pixels.
var ErrNoSlices = errors.New("no displayable slices")

// Axis is a viewing direction.
type Axis int

const (
	Axial Axis = iota
	Coronal
	Sagittal
)

// Axes lists every axis in display order.
var Axes = []Axis{Axial, Coronal, Sagittal}

func (a Axis) String() string {
	switch a {
	case Axial:
		return "Axial"
	case Coronal:
		return "Coronal"
	case Sagittal:
		return "Sagittal"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Volume holds the voxels of a stack of equally sized slices.
// Voxels are indexed z*Width*Height + y*Width + x.
type Volume struct {
	Width  int
	Height int
	Depth  int
	Voxels []float64

	// Slices are the paths in stacking order; Skipped were left out.
	Slices  []string
	Skipped []string
}

// SliceReader reads the pixels of one slice file.
type SliceReader func(path string) (*dicom.SlicePixels, error)

// LoadVolume reads the first frame of every path and stacks them.
func LoadVolume(paths []string) (*Volume, error) {
	return Load(paths, dicom.ReadSlicePixels, log.Log)
}

// Load is LoadVolume with an explicit reader and logger. Slices are ordered
// by instance number, then path. Slices that cannot be read or whose
// dimensions differ from the first one are skipped.
func Load(paths []string, read SliceReader, logger log.Interface) (*Volume, error) {
	v := &Volume{}

	var slices []*dicom.SlicePixels
	for _, p := range paths {
		px, err := read(p)
		if err != nil {
			logger.WithError(err).WithField("path", p).Warn("viewer skipping slice")
			v.Skipped = append(v.Skipped, p)
			continue
		}
		slices = append(slices, px)
	}

	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].Instance != slices[j].Instance {
			return slices[i].Instance < slices[j].Instance
		}
		return slices[i].Path < slices[j].Path
	})

	var kept []*dicom.SlicePixels
	for _, px := range slices {
		if len(kept) > 0 && (px.Rows != kept[0].Rows || px.Cols != kept[0].Cols) {
			logger.WithFields(log.Fields{
				"path": px.Path,
				"size": fmt.Sprintf("%dx%d", px.Cols, px.Rows),
				"want": fmt.Sprintf("%dx%d", kept[0].Cols, kept[0].Rows),
			}).Warn("viewer skipping slice with different dimensions")
			v.Skipped = append(v.Skipped, px.Path)
			continue
		}
		kept = append(kept, px)
	}

	if len(kept) == 0 {
		return nil, ErrNoSlices
	}

	v.Width, v.Height, v.Depth = kept[0].Cols, kept[0].Rows, len(kept)
	v.Voxels = make([]float64, 0, v.Width*v.Height*v.Depth)
	for _, px := range kept {
		v.Voxels = append(v.Voxels, px.Data...)
		v.Slices = append(v.Slices, px.Path)
	}
	return v, nil
}

// At returns the voxel at x, y, z.
func (v *Volume) At(x, y, z int) float64 {
	return v.Voxels[(z*v.Height+y)*v.Width+x]
}

// Count returns the number of planes along axis.
func (v *Volume) Count(axis Axis) int {
	switch axis {
	case Coronal:
		return v.Height
	case Sagittal:
		return v.Width
	}
	return v.Depth
}

// Plane is a 2D cut through a volume, row-major.
type Plane struct {
	Axis   Axis
	Index  int
	Count  int
	Width  int
	Height int
	Data   []float64
}

// Label returns the overlay text, for example "Axial 3/40".
func (p *Plane) Label() string {
	return fmt.Sprintf("%s %d/%d", p.Axis, p.Index+1, p.Count)
}

// Plane extracts plane index along axis. Coronal and sagittal planes have
// the slice stack as their vertical direction.
func (v *Volume) Plane(axis Axis, index int) (*Plane, error) {
	count := v.Count(axis)
	if index < 0 || index >= count {
		return nil, fmt.Errorf("%s plane %d out of range [0, %d)", axis, index, count)
	}

	p := &Plane{Axis: axis, Index: index, Count: count}
	switch axis {
	case Axial:
		p.Width, p.Height = v.Width, v.Height
		start := index * v.Width * v.Height
		p.Data = append([]float64(nil), v.Voxels[start:start+v.Width*v.Height]...)
	case Coronal:
		p.Width, p.Height = v.Width, v.Depth
		p.Data = make([]float64, 0, p.Width*p.Height)
		for z := 0; z < v.Depth; z++ {
			for x := 0; x < v.Width; x++ {
				p.Data = append(p.Data, v.At(x, index, z))
			}
		}
	case Sagittal:
		p.Width, p.Height = v.Height, v.Depth
		p.Data = make([]float64, 0, p.Width*p.Height)
		for z := 0; z < v.Depth; z++ {
			for y := 0; y < v.Height; y++ {
				p.Data = append(p.Data, v.At(index, y, z))
			}
		}
	default:
		return nil, fmt.Errorf("unknown axis %d", int(axis))
	}
	return p, nil
}
