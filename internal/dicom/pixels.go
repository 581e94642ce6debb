package dicom

import (
	"fmt"
	"image/color"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// SlicePixels is the first frame of a slice as modality values
// (rescale slope and intercept applied), row-major.
type SlicePixels struct {
	Path     string
	Instance int
	Location float64
	Rows     int
	Cols     int
	Data     []float64
}

// At returns the value at column x, row y.
func (p *SlicePixels) At(x, y int) float64 {
	return p.Data[y*p.Cols+x]
}

// ReadSlicePixels reads the first frame of a slice file. JPEG-LS encoded
// files are decompressed with dcmtk first.
func ReadSlicePixels(path string) (*SlicePixels, error) {
	source := path
	if IsJPEGLSCompressed(path) {
		tmp, err := DecompressJPEGLS(path)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp)
		source = tmp
	}

	ds, err := ReadDicom(source)
	if err != nil {
		return nil, err
	}

	elem, err := ds.Data.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("no pixel data: %w", err)
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || len(info.Frames) == 0 {
		return nil, fmt.Errorf("no frames in pixel data")
	}

	px, err := framePixels(info.Frames[0])
	if err != nil {
		return nil, err
	}

	slope := ds.GetFloat(tag.RescaleSlope, 1)
	intercept := ds.GetFloat(tag.RescaleIntercept, 0)
	if slope != 1 || intercept != 0 {
		for i, v := range px.Data {
			px.Data[i] = v*slope + intercept
		}
	}

	px.Path = path
	px.Instance = ds.GetInt(tag.InstanceNumber)
	px.Location = ds.GetFloat(tag.SliceLocation, 0)
	return px, nil
}

func framePixels(fr *frame.Frame) (*SlicePixels, error) {
	if fr.Encapsulated {
		img, err := fr.GetImage()
		if err != nil {
			return nil, fmt.Errorf("could not decode encapsulated frame: %w", err)
		}
		b := img.Bounds()
		px := &SlicePixels{Rows: b.Dy(), Cols: b.Dx(), Data: make([]float64, b.Dx()*b.Dy())}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
				px.Data[(y-b.Min.Y)*px.Cols+(x-b.Min.X)] = float64(g.Y)
			}
		}
		return px, nil
	}

	nd := fr.NativeData
	if nd.Data == nil {
		return nil, fmt.Errorf("native frame data is nil")
	}
	if len(nd.Data) != nd.Rows*nd.Cols {
		return nil, fmt.Errorf("frame has %d pixels, want %dx%d", len(nd.Data), nd.Rows, nd.Cols)
	}

	px := &SlicePixels{Rows: nd.Rows, Cols: nd.Cols, Data: make([]float64, len(nd.Data))}
	for i, samples := range nd.Data {
		// colour slices are reduced to the mean of their samples
		var sum int
		for _, s := range samples {
			sum += s
		}
		if len(samples) > 0 {
			px.Data[i] = float64(sum) / float64(len(samples))
		}
	}
	return px, nil
}
