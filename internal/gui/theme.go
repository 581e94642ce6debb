package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Dark palette
var (
	ColorBackground      = color.NRGBA{R: 0x1E, G: 0x1E, B: 0x2E, A: 0xFF}
	ColorCardBackground  = color.NRGBA{R: 0x2A, G: 0x2A, B: 0x3E, A: 0xFF}
	ColorPrimaryAccent   = color.NRGBA{R: 0x89, G: 0xB4, B: 0xFA, A: 0xFF}
	ColorSuccess         = color.NRGBA{R: 0xA6, G: 0xE3, B: 0xA1, A: 0xFF}
	ColorWarning         = color.NRGBA{R: 0xF9, G: 0xE2, B: 0xAF, A: 0xFF}
	ColorError           = color.NRGBA{R: 0xF3, G: 0x8B, B: 0xA8, A: 0xFF}
	ColorTextPrimary     = color.NRGBA{R: 0xCD, G: 0xD6, B: 0xF4, A: 0xFF}
	ColorTextSecondary   = color.NRGBA{R: 0xA6, G: 0xAD, B: 0xC8, A: 0xFF}
	ColorDisabled        = color.NRGBA{R: 0x58, G: 0x5B, B: 0x70, A: 0xFF}
	ColorInputBackground = color.NRGBA{R: 0x31, G: 0x32, B: 0x44, A: 0xFF}
	ColorBorder          = color.NRGBA{R: 0x45, G: 0x47, B: 0x5A, A: 0xFF}
	ColorHover           = color.NRGBA{R: 0x3A, G: 0x3C, B: 0x52, A: 0xFF}
	ColorRowSelection    = color.NRGBA{R: 0x89, G: 0xB4, B: 0xFA, A: 0x55}
	ColorStatusGreen     = color.NRGBA{R: 0x40, G: 0xC0, B: 0x57, A: 0xFF}
	ColorStatusRed       = color.NRGBA{R: 0xFA, G: 0x52, B: 0x52, A: 0xFF}
)

var palette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:        ColorBackground,
	theme.ColorNameButton:            ColorCardBackground,
	theme.ColorNameDisabledButton:    ColorDisabled,
	theme.ColorNameDisabled:          ColorDisabled,
	theme.ColorNameError:             ColorError,
	theme.ColorNameFocus:             ColorPrimaryAccent,
	theme.ColorNameForeground:        ColorTextPrimary,
	theme.ColorNameHeaderBackground:  ColorCardBackground,
	theme.ColorNameHover:             ColorHover,
	theme.ColorNameHyperlink:         ColorPrimaryAccent,
	theme.ColorNameInputBackground:   ColorInputBackground,
	theme.ColorNameInputBorder:       ColorBorder,
	theme.ColorNameMenuBackground:    ColorCardBackground,
	theme.ColorNameOverlayBackground: ColorCardBackground,
	theme.ColorNamePlaceHolder:       ColorTextSecondary,
	theme.ColorNamePrimary:           ColorPrimaryAccent,
	theme.ColorNameScrollBar:         ColorBorder,
	theme.ColorNameSelection:         ColorRowSelection,
	theme.ColorNameSeparator:         ColorBorder,
	theme.ColorNameShadow:            color.NRGBA{A: 0x66},
	theme.ColorNameSuccess:           ColorSuccess,
	theme.ColorNameWarning:           ColorWarning,
}

// ModernTheme is a dense dark theme for the patient table.
type ModernTheme struct{}

var _ fyne.Theme = (*ModernTheme)(nil)

func (m *ModernTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (m *ModernTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m *ModernTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size keeps table rows compact.
func (m *ModernTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameScrollBarSmall:
		return 4
	case theme.SizeNameSeparatorThickness:
		return 1
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 16
	case theme.SizeNameCaptionText:
		return 11
	case theme.SizeNameInputBorder:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
