package patient

import "strconv"

// Summary is the aggregated record for one patient key.
type Summary struct {
	Key              string
	Name             string
	PatientID        string
	BirthDate        string
	Age              string
	Sex              string
	StudyDate        string
	StudyDescription string
	Manufacturer     string
	Equipment        string
	Modality         string
	SliceCount       int
	SliceThickness   string
	FolderSize       string
	FolderBytes      int64
	Folder           string

	// Files are the slice paths in the order they were folded in.
	Files []string
}

// Column identifies a displayable field of a Summary.
type Column int

const (
	ColName Column = iota
	ColPatientID
	ColBirthDate
	ColAge
	ColSex
	ColStudyDate
	ColStudyDescription
	ColManufacturer
	ColEquipment
	ColModality
	ColSlices
	ColThickness
	ColFolderSize
	ColFolder
)

var columnTitles = [...]string{
	ColName:             "Name",
	ColPatientID:        "Patient ID",
	ColBirthDate:        "Birth Date",
	ColAge:              "Age",
	ColSex:              "Sex",
	ColStudyDate:        "Study Date",
	ColStudyDescription: "Study Description",
	ColManufacturer:     "Manufacturer",
	ColEquipment:        "Equipment",
	ColModality:         "Modality",
	ColSlices:           "Slices",
	ColThickness:        "Slice Thickness",
	ColFolderSize:       "Folder Size",
	ColFolder:           "Folder",
}

// Columns lists every column in table order.
var Columns = []Column{
	ColName, ColPatientID, ColBirthDate, ColAge, ColSex, ColStudyDate,
	ColStudyDescription, ColManufacturer, ColEquipment, ColModality,
	ColSlices, ColThickness, ColFolderSize, ColFolder,
}

// ReportColumns are the columns written to the exported report.
var ReportColumns = []Column{
	ColName, ColBirthDate, ColSex, ColAge, ColStudyDate, ColStudyDescription,
	ColManufacturer, ColEquipment, ColSlices, ColThickness,
}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnTitles) {
		return "Column(" + strconv.Itoa(int(c)) + ")"
	}
	return columnTitles[c]
}

// Value returns the display string of a column.
func (s *Summary) Value(c Column) string {
	switch c {
	case ColName:
		return s.Name
	case ColPatientID:
		return s.PatientID
	case ColBirthDate:
		return s.BirthDate
	case ColAge:
		return s.Age
	case ColSex:
		return s.Sex
	case ColStudyDate:
		return s.StudyDate
	case ColStudyDescription:
		return s.StudyDescription
	case ColManufacturer:
		return s.Manufacturer
	case ColEquipment:
		return s.Equipment
	case ColModality:
		return s.Modality
	case ColSlices:
		return strconv.Itoa(s.SliceCount)
	case ColThickness:
		return s.SliceThickness
	case ColFolderSize:
		return s.FolderSize
	case ColFolder:
		return s.Folder
	}
	return ""
}

// Row returns the values for the given columns.
func (s *Summary) Row(cols []Column) []string {
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = s.Value(c)
	}
	return row
}

// Titles returns the header titles for the given columns.
func Titles(cols []Column) []string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.String()
	}
	return titles
}
