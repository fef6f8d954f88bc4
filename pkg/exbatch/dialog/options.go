package dialog

import (
	"fmt"
	"strings"
)

// OverlapPolicy decides what Open does while another session is still open.
type OverlapPolicy string

const (
	// OverlapReject makes Open fail with ErrSessionActive.
	OverlapReject OverlapPolicy = "reject"
	// OverlapReplace closes the open session before displaying a new one.
	OverlapReplace OverlapPolicy = "replace"
)

// DisplayOptions sizes the dialog as percentages of the screen.
type DisplayOptions struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Options configures a Messenger.
type Options struct {
	// URL is the page displayed in the dialog.
	URL     string         `json:"url"`
	Display DisplayOptions `json:"display"`
	// Element is the id of the UI element that receives the message.
	Element string        `json:"element"`
	Overlap OverlapPolicy `json:"overlap"`
}

func DefaultOptions() Options {
	return Options{
		URL:     "https://accplan.herokuapp.com/popup.html",
		Display: DisplayOptions{Height: 35, Width: 25},
		Element: "user-name",
		Overlap: OverlapReject,
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if strings.TrimSpace(o.URL) == "" {
		return fmt.Errorf("dialog: url is required")
	}
	if strings.TrimSpace(o.Element) == "" {
		return fmt.Errorf("dialog: element is required")
	}
	if err := o.Display.Validate(); err != nil {
		return err
	}
	switch o.Overlap {
	case OverlapReject, OverlapReplace:
		return nil
	default:
		return fmt.Errorf("dialog: unknown overlap policy %q", o.Overlap)
	}
}

func (d DisplayOptions) Validate() error {
	if d.Height < 1 || d.Height > 100 || d.Width < 1 || d.Width > 100 {
		return fmt.Errorf("dialog: size %dx%d%% out of range 1-100", d.Width, d.Height)
	}
	return nil
}
