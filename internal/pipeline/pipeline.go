// Package pipeline composes the preprocessing steps applied to an image
// before the rotation search.
package pipeline

import "image"

// Compose runs every enabled step of cfg in canonical order, feeding each
// step the output of the previous one, and returns the final buffer with the
// tag of the steps that ran. With no step enabled the input is returned
// unchanged and the tag is empty.
func Compose(img image.Image, cfg Config) (image.Image, Tag) {
	cur := img
	tag := Tag{}
	for _, step := range cfg.Steps() {
		if !step.Enabled {
			continue
		}
		cur = step.Apply(cur)
		tag = append(tag, step.Kind.Label())
	}
	return cur, tag
}
