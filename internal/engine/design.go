package engine

import (
	"github.com/pkg/errors"
)

// AvatarDesign holds one selection per axis. It is a value type; a finalized
// design is simply a copy nobody mutates again.
type AvatarDesign struct {
	Build string `json:"build"`
	Skin  string `json:"skin"`
	Eyes  string `json:"eyes"`
	Hair  string `json:"hair"`
}

// DefaultDesign picks the first option on every axis.
func DefaultDesign() AvatarDesign {
	return AvatarDesign{
		Build: axisOptions[AxisBuild][0],
		Skin:  axisOptions[AxisSkin][0],
		Eyes:  axisOptions[AxisEyes][0],
		Hair:  axisOptions[AxisHair][0],
	}
}

// Get returns the selection for an axis.
func (d AvatarDesign) Get(a Axis) string {
	switch a {
	case AxisBuild:
		return d.Build
	case AxisSkin:
		return d.Skin
	case AxisEyes:
		return d.Eyes
	case AxisHair:
		return d.Hair
	}
	return ""
}

// With returns a copy of d with the axis set to option.
func (d AvatarDesign) With(a Axis, option string) (AvatarDesign, error) {
	if !a.Validate() {
		return d, errors.Wrapf(ErrUnknownOption, "axis %q", a)
	}
	if !contains(axisOptions[a], option) {
		return d, errors.Wrapf(ErrUnknownOption, "%s option %q", a, option)
	}
	switch a {
	case AxisBuild:
		d.Build = option
	case AxisSkin:
		d.Skin = option
	case AxisEyes:
		d.Eyes = option
	case AxisHair:
		d.Hair = option
	}
	return d, nil
}

// Validate reports whether every axis holds a known option.
func (d AvatarDesign) Validate() bool {
	for _, a := range AllAxes {
		if !contains(axisOptions[a], d.Get(a)) {
			return false
		}
	}
	return true
}

// DesignerPhase is derived from the designer's fields, never stored.
type DesignerPhase string

const (
	PhaseNoPhoto    DesignerPhase = "no_photo"
	PhaseUploaded   DesignerPhase = "photo_uploaded"
	PhaseGenerating DesignerPhase = "generating"
	PhaseGenerated  DesignerPhase = "generated"
)

const (
	msgNoImage         = "The model did not return an image. Please try adjusting your selections."
	msgGenerationError = "An error occurred during image generation. Please try again."
)

// Designer is the avatar designer screen state. It is created fresh every
// time the designer screen mounts.
type Designer struct {
	design     AvatarDesign
	photo      *ImageRef
	generated  *ImageRef
	generating bool
	finalizing bool
	finalized  bool
	errMsg     string
}

func NewDesigner() *Designer {
	return &Designer{design: DefaultDesign()}
}

func (d *Designer) Design() AvatarDesign { return d.design }
func (d *Designer) Photo() *ImageRef     { return d.photo }
func (d *Designer) Generated() *ImageRef { return d.generated }
func (d *Designer) Error() string        { return d.errMsg }
func (d *Designer) Finalizing() bool     { return d.finalizing }
func (d *Designer) Finalized() bool      { return d.finalized }

func (d *Designer) Phase() DesignerPhase {
	switch {
	case d.photo == nil:
		return PhaseNoPhoto
	case d.generating:
		return PhaseGenerating
	case d.generated != nil:
		return PhaseGenerated
	default:
		return PhaseUploaded
	}
}

// Preview is the image the designer should show: the generated render when
// present, otherwise the uploaded photo.
func (d *Designer) Preview() *ImageRef {
	if d.generated != nil {
		return d.generated
	}
	return d.photo
}

// Upload replaces the reference photo and discards any previous render.
func (d *Designer) Upload(ref ImageRef) {
	if d.finalized {
		return
	}
	d.photo = &ref
	d.generated = nil
	d.errMsg = ""
}

// Choose changes one axis. A generated render is kept; the user has to
// generate again to see the change.
func (d *Designer) Choose(a Axis, option string) error {
	if d.finalized || d.finalizing {
		return nil
	}
	next, err := d.design.With(a, option)
	if err != nil {
		return err
	}
	d.design = next
	return nil
}

// Cycle moves an axis selection by step positions, wrapping around.
func (d *Designer) Cycle(a Axis, step int) {
	opts := axisOptions[a]
	if len(opts) == 0 {
		return
	}
	idx := 0
	cur := d.design.Get(a)
	for i, o := range opts {
		if o == cur {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(opts)
	if idx < 0 {
		idx += len(opts)
	}
	_ = d.Choose(a, opts[idx])
}

// CanGenerate is true once a photo exists and no generation is running.
func (d *Designer) CanGenerate() bool {
	return d.photo != nil && !d.generating && !d.finalized && !d.finalizing
}

// BeginGenerate marks a generation in flight and returns the inputs for the
// gateway. ok is false when the request must not be issued.
func (d *Designer) BeginGenerate() (photo ImageRef, design AvatarDesign, ok bool) {
	if !d.CanGenerate() {
		return ImageRef{}, AvatarDesign{}, false
	}
	d.generating = true
	d.generated = nil
	d.errMsg = ""
	return *d.photo, d.design, true
}

// CompleteGenerate records the gateway result. An ErrNoImage failure gets its
// own message so the user knows to change selections rather than retry.
func (d *Designer) CompleteGenerate(ref ImageRef, err error) {
	if !d.generating {
		return
	}
	d.generating = false
	switch {
	case errors.Is(err, ErrNoImage):
		d.errMsg = msgNoImage
	case err != nil:
		d.errMsg = msgGenerationError
	default:
		d.generated = &ref
	}
}

// CanFinalize is true only once a render exists.
func (d *Designer) CanFinalize() bool {
	return d.generated != nil && !d.generating && !d.finalizing && !d.finalized
}

// BeginFinalize starts the processing step and returns the design to commit.
func (d *Designer) BeginFinalize() (AvatarDesign, bool) {
	if !d.CanFinalize() {
		return AvatarDesign{}, false
	}
	d.finalizing = true
	return d.design, true
}

// CompleteFinalize ends the processing step and reports whether the design
// was registered. A failed commit leaves the designer usable so the user can
// finalize again; a completion with no finalize pending is ignored.
func (d *Designer) CompleteFinalize(err error) bool {
	if !d.finalizing {
		return false
	}
	d.finalizing = false
	if err != nil {
		d.errMsg = "Design registration failed. Please try again."
		return false
	}
	d.finalized = true
	return true
}
