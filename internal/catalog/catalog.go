// Package catalog defines the data structures shared by every layer: the
// filter option lists shown in the catalog UI and the catalog models.
package catalog

import "time"

// ModelListLimit caps the number of summaries returned by a list request.
const ModelListLimit = 50

// FilterSet is the singleton collection of selectable option lists.
//
// Each list is always non-nil once it leaves the repository layer, so it
// encodes as [] and never as null.
type FilterSet struct {
	ID          int64     `json:"-"`
	FaceTypes   []string  `json:"faceTypes"`
	EyeColors   []string  `json:"eyeColors"`
	SkinColors  []string  `json:"skinColors"`
	BodyTypes   []string  `json:"bodyTypes"`
	HairColors  []string  `json:"hairColors"`
	HairLengths []string  `json:"hairLengths"`
	HairTypes   []string  `json:"hairTypes"`
	UpdatedAt   time.Time `json:"-"`
}

// Normalize replaces nil lists with empty ones.
func (f *FilterSet) Normalize() {
	for _, list := range f.lists() {
		if *list == nil {
			*list = []string{}
		}
	}
}

func (f *FilterSet) lists() []*[]string {
	return []*[]string{
		&f.FaceTypes, &f.EyeColors, &f.SkinColors, &f.BodyTypes,
		&f.HairColors, &f.HairLengths, &f.HairTypes,
	}
}

// EmptyFilterSet is what a reader sees before any filter set was saved.
func EmptyFilterSet() *FilterSet {
	f := &FilterSet{}
	f.Normalize()
	return f
}

// Attributes are the seven descriptive fields every model carries.
type Attributes struct {
	FaceType   string `json:"faceType"`
	EyeColor   string `json:"eyeColor"`
	SkinColor  string `json:"skinColor"`
	BodyType   string `json:"bodyType"`
	HairColor  string `json:"hairColor"`
	HairLength string `json:"hairLength"`
	HairType   string `json:"hairType"`
}

// Model is a catalog entry with its full photo list.
type Model struct {
	ID     int64    `json:"id"`
	Photos []string `json:"photos"`
	Attributes
	CreatedAt time.Time `json:"-"`
}

// ModelSummary is the list-view projection of a Model. It carries the number
// of photos instead of the photos themselves.
type ModelSummary struct {
	ID          int64 `json:"id"`
	PhotosCount int   `json:"photosCount"`
	Attributes
	CreatedAt time.Time `json:"-"`
}
