package models

// Image is one catalog entry, either a real photograph or an AI render
type Image struct {
	ID          int64
	FileName    string
	Description string
	IsReal      bool
	Difficulty  Difficulty
}

// DescriptionOrFallback returns the catalog description, or a deterministic
// placeholder naming the image when the catalog has none. The answer feedback
// field must never be empty.
func (i *Image) DescriptionOrFallback() string {
	if i.Description != "" {
		return i.Description
	}
	return "a real photograph (" + i.FileName + ")"
}

// ImagePair is the real/AI pair served for one turn
type ImagePair struct {
	Real       Image
	AI         Image
	LeftIsReal bool
}

// Left returns the image shown in the left slot
func (p *ImagePair) Left() Image {
	if p.LeftIsReal {
		return p.Real
	}
	return p.AI
}

// Right returns the image shown in the right slot
func (p *ImagePair) Right() Image {
	if p.LeftIsReal {
		return p.AI
	}
	return p.Real
}

// BonusGameType discriminates the two bonus challenge forms
type BonusGameType string

const (
	BonusFourImage   BonusGameType = "four_image"
	BonusSingleImage BonusGameType = "single_image"
)

// BonusChallenge is either a four-image pick-the-real challenge or a
// single-image true/false challenge
type BonusChallenge struct {
	Type BonusGameType

	// Four-image form: 1 real among 3 AI, RealPosition in [0,3]
	Images       []Image
	RealPosition int

	// Single-image form
	Image  *Image
	IsReal bool
}
