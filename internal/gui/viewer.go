package gui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	dcm "dicom-info/internal/dicom"
	"dicom-info/internal/patient"
	"dicom-info/internal/viewer"
)

const viewerSize = 512

// openViewer shows the selected patient's slices in a new window.
func (a *App) openViewer() {
	row := a.selectedRow()
	if row == nil {
		return
	}
	if len(row.Files) == 0 {
		return
	}
	summary := *row

	w := a.fyneApp.NewWindow(fmt.Sprintf("%s - %s", summary.Name, summary.StudyDescription))
	w.Resize(fyne.NewSize(viewerSize+40, viewerSize+120))
	loading := widget.NewProgressBarInfinite()
	w.SetContent(container.NewCenter(container.NewVBox(
		widget.NewLabel(fmt.Sprintf("Loading %d slice(s)...", len(summary.Files))),
		loading,
	)))
	w.Show()

	go func() {
		vol, err := viewer.Load(summary.Files, dcm.ReadSlicePixels, a.log)
		fyne.Do(func() {
			loading.Stop()
			if err != nil {
				a.log.WithError(err).WithField("patient", summary.Key).Warn("viewer could not load slices")
				w.SetContent(container.NewCenter(widget.NewLabel("Could not load slices: " + err.Error())))
				return
			}
			w.SetContent(buildViewer(vol, summary))
		})
	}()
}

func buildViewer(vol *viewer.Volume, summary patient.Summary) fyne.CanvasObject {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, viewerSize, viewerSize)))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(viewerSize, viewerSize))

	info := widget.NewLabel("")
	axis := viewer.Axial
	index := vol.Count(axis) / 2
	var win viewer.Window
	windowSet := false

	render := func() {
		plane, err := vol.Plane(axis, index)
		if err != nil {
			info.SetText(err.Error())
			return
		}
		if !windowSet {
			win = viewer.AutoWindow(vol.Voxels)
			windowSet = true
		}
		img.Image = viewer.Render(plane, win, viewerSize, viewerSize)
		img.Refresh()
		info.SetText(fmt.Sprintf("%dx%dx%d voxels, %d slice(s) skipped", vol.Width, vol.Height, vol.Depth, len(vol.Skipped)))
	}

	slider := widget.NewSlider(0, float64(max(0, vol.Count(axis)-1)))
	slider.Step = 1
	slider.SetValue(float64(index))
	slider.OnChanged = func(v float64) {
		index = int(v)
		render()
	}

	var names []string
	for _, ax := range viewer.Axes {
		names = append(names, ax.String())
	}
	axes := widget.NewRadioGroup(names, func(selected string) {
		for _, ax := range viewer.Axes {
			if ax.String() == selected && ax != axis {
				axis = ax
				index = vol.Count(axis) / 2
				slider.Max = float64(max(0, vol.Count(axis)-1))
				slider.SetValue(float64(index))
				render()
			}
		}
	})
	axes.Horizontal = true
	axes.SetSelected(axis.String())

	render()

	header := widget.NewLabelWithStyle(fmt.Sprintf("%s  |  %s  |  %d slice(s)", summary.Name, summary.Modality, summary.SliceCount),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return container.NewBorder(
		container.NewVBox(header, axes),
		container.NewVBox(slider, info),
		nil, nil,
		img,
	)
}
