package enums

import "fmt"

// InteractionType is the direction of a product interaction.
type InteractionType string

const (
	InteractionLike    InteractionType = "like"
	InteractionDislike InteractionType = "dislike"
)

var validInteractionTypes = []InteractionType{
	InteractionLike,
	InteractionDislike,
}

// String implements fmt.Stringer.
func (i InteractionType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InteractionType.
func (i InteractionType) IsValid() bool {
	for _, candidate := range validInteractionTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// IsLike maps the direction onto the stored is_like flag.
func (i InteractionType) IsLike() bool {
	return i == InteractionLike
}

// InteractionFromIsLike converts the stored flag back into a direction.
func InteractionFromIsLike(isLike bool) InteractionType {
	if isLike {
		return InteractionLike
	}
	return InteractionDislike
}

// ParseInteractionType converts raw input into an InteractionType.
func ParseInteractionType(value string) (InteractionType, error) {
	for _, candidate := range validInteractionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interaction type %q", value)
}
