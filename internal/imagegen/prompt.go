package imagegen

import (
	"fmt"
	"strings"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

// PropertyPrompt builds the render instruction for a listing.
func PropertyPrompt(p engine.Property) string {
	desc := strings.TrimSpace(p.Description)
	desc = strings.TrimSuffix(desc, ".")
	return fmt.Sprintf(
		"Futuristic architectural render of %q, a %s class condo on a comet. %s. "+
			"The style should be sleek, cosmic, and awe-inspiring. High resolution, photorealistic.",
		p.Name, strings.ToLower(string(p.Tier)), desc)
}

// AvatarPrompt builds the edit instruction applied to the uploaded photo.
func AvatarPrompt(d engine.AvatarDesign) string {
	return fmt.Sprintf(
		"Modify the person in this image to have %s. Change their skin to be %s. "+
			"Make their eyes %s. Finally, give them %s. "+
			"Maintain the original photo's composition, background, and the person's facial structure as much as possible. "+
			"The modifications should look photorealistic.",
		d.Build, d.Skin, d.Eyes, d.Hair)
}
