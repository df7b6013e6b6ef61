package models

// Programme is a course of study offered by the institute.
type Programme struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Programmes is the catalogue of programmes an applicant may apply for,
// keyed by the short programme code used on the wire.
var Programmes = map[string]string{
	"electrical":  "Electrical Installation & Maintenance",
	"plumbing":    "Plumbing & Pipe Fitting",
	"carpentry":   "Carpentry & Joinery",
	"masonry":     "Masonry & Concrete Work",
	"welding":     "Welding & Metal Fabrication",
	"motor":       "Motor Vehicle Mechanics",
	"hospitality": "Hospitality & Catering",
	"ict":         "Information & Communication Technology",
	"business":    "Business Studies",
	"tailoring":   "Tailoring & Fashion Design",
}

// ProgrammeList returns the catalogue as a stable slice ordered by key.
func ProgrammeList() []Programme {
	keys := []string{
		"business", "carpentry", "electrical", "hospitality", "ict",
		"masonry", "motor", "plumbing", "tailoring", "welding",
	}
	list := make([]Programme, 0, len(keys))
	for _, k := range keys {
		list = append(list, Programme{Key: k, Title: Programmes[k]})
	}
	return list
}
