// Package dicomtest writes small DICOM slice files for tests.
package dicomtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Slice describes the header (and optional pixels) of a fixture file.
// Empty strings leave the element out of the file.
type Slice struct {
	PatientName      string
	PatientID        string
	BirthDate        string
	Sex              string
	StudyDate        string
	StudyDescription string
	Manufacturer     string
	Model            string
	Modality         string
	SliceThickness   string
	Instance         int

	// Rows and Cols > 0 add 16-bit native pixel data filled by Pixel.
	Rows             int
	Cols             int
	Pixel            func(x, y int) int
	RescaleSlope     string
	RescaleIntercept string
}

// Patient returns a fully populated slice for the given name and id.
func Patient(name, id string) Slice {
	return Slice{
		PatientName:      name,
		PatientID:        id,
		BirthDate:        "19800115",
		Sex:              "M",
		StudyDate:        "20230115",
		StudyDescription: "BRAIN",
		Manufacturer:     "SIEMENS",
		Model:            "Skyra",
		Modality:         "MR",
		SliceThickness:   "1.000000",
		Instance:         1,
	}
}

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// Write creates path (and its parent directories) as a DICOM file.
func Write(tb testing.TB, path string, s Slice) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	sopUID := "1.2.826.0.1.3680043.8.498." + strconv.Itoa(s.Instance+1)
	elems := []*dicom.Element{
		mustNewElement(tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.4"}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
	}

	add := func(t tag.Tag, v string) {
		if v != "" {
			elems = append(elems, mustNewElement(t, []string{v}))
		}
	}

	// ascending tag order
	add(tag.SOPClassUID, "1.2.840.10008.5.1.4.1.1.4")
	add(tag.SOPInstanceUID, sopUID)
	add(tag.StudyDate, s.StudyDate)
	add(tag.Modality, s.Modality)
	add(tag.Manufacturer, s.Manufacturer)
	add(tag.StudyDescription, s.StudyDescription)
	add(tag.ManufacturerModelName, s.Model)
	add(tag.PatientName, s.PatientName)
	add(tag.PatientID, s.PatientID)
	add(tag.PatientBirthDate, s.BirthDate)
	add(tag.PatientSex, s.Sex)
	add(tag.SliceThickness, s.SliceThickness)
	if s.Instance > 0 {
		add(tag.InstanceNumber, strconv.Itoa(s.Instance))
	}

	if s.Rows > 0 && s.Cols > 0 {
		elems = append(elems,
			mustNewElement(tag.SamplesPerPixel, []int{1}),
			mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
			mustNewElement(tag.Rows, []int{s.Rows}),
			mustNewElement(tag.Columns, []int{s.Cols}),
			mustNewElement(tag.BitsAllocated, []int{16}),
			mustNewElement(tag.BitsStored, []int{16}),
			mustNewElement(tag.HighBit, []int{15}),
			mustNewElement(tag.PixelRepresentation, []int{0}),
		)
		add(tag.RescaleIntercept, s.RescaleIntercept)
		add(tag.RescaleSlope, s.RescaleSlope)
		elems = append(elems, mustNewElement(tag.PixelData, pixelData(s)))
	}

	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := dicom.Write(f, dicom.Dataset{Elements: elems}); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

func pixelData(s Slice) dicom.PixelDataInfo {
	data := make([][]int, s.Rows*s.Cols)
	for y := 0; y < s.Rows; y++ {
		for x := 0; x < s.Cols; x++ {
			v := 0
			if s.Pixel != nil {
				v = s.Pixel(x, y)
			}
			data[y*s.Cols+x] = []int{v}
		}
	}

	return dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData: frame.NativeFrame{
					Data:          data,
					Rows:          s.Rows,
					Cols:          s.Cols,
					BitsPerSample: 16,
				},
			},
		},
	}
}

// WriteInvalid creates a file with the given name that is not DICOM.
func WriteInvalid(tb testing.TB, path string) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("this is not a dicom file"), 0644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// WriteSized creates a non-DICOM file of exactly size bytes.
func WriteSized(tb testing.TB, path string, size int64) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		tb.Fatalf("truncate %s: %v", path, err)
	}
}
