package sessionstatus

import "strings"

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if len(s.Name) == 0 {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// Terminal reports whether the status ends the session lifecycle.
func (s Status) Terminal() bool {
	return s.Name == Statuses.Closed.Name || s.Name == Statuses.Abandoned.Name
}

type Enum struct {
	Open      Status
	Closed    Status
	Abandoned Status
}

var Statuses = Enum{
	Open:      Status{Name: "open"},
	Closed:    Status{Name: "closed"},
	Abandoned: Status{Name: "abandoned"},
}

var All = []Status{
	Statuses.Open,
	Statuses.Closed,
	Statuses.Abandoned,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
