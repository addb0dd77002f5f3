package destination

import "strings"

type Destination struct {
	Name string
}

func (d Destination) Code() string {
	return d.Name
}

func (d Destination) Label() string {
	if len(d.Name) == 0 {
		return ""
	}
	return strings.ToUpper(d.Name[:1]) + d.Name[1:]
}

type Enum struct {
	Kitchen   Destination
	Bartender Destination
	Both      Destination
}

var Destinations = Enum{
	Kitchen:   Destination{Name: "kitchen"},
	Bartender: Destination{Name: "bartender"},
	Both:      Destination{Name: "both"},
}

var All = []Destination{
	Destinations.Kitchen,
	Destinations.Bartender,
	Destinations.Both,
}

// ByName returns the destination for a given name, or nil if not found
func ByName(name string) *Destination {
	for _, d := range All {
		if d.Name == name {
			return &d
		}
	}
	return nil
}
