package models

// Doctor is an entry of the static doctor directory.
type Doctor struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Specialty  string  `json:"specialty"`
	Experience string  `json:"experience"`
	Rating     float64 `json:"rating"`
	Avatar     string  `json:"avatar"`
}

var doctors = []Doctor{
	{
		ID:         1,
		Name:       "Dr. Sarah Johnson",
		Specialty:  "Cardiology",
		Experience: "15 years",
		Rating:     4.8,
		Avatar:     "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?w=150&h=150&fit=crop&crop=face",
	},
	{
		ID:         2,
		Name:       "Dr. Michael Chen",
		Specialty:  "Dermatology",
		Experience: "12 years",
		Rating:     4.9,
		Avatar:     "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=150&h=150&fit=crop&crop=face",
	},
	{
		ID:         3,
		Name:       "Dr. Emily Rodriguez",
		Specialty:  "Pediatrics",
		Experience: "10 years",
		Rating:     4.7,
		Avatar:     "https://images.unsplash.com/photo-1594824475212-5ee96ea31725?w=150&h=150&fit=crop&crop=face",
	},
	{
		ID:         4,
		Name:       "Dr. David Williams",
		Specialty:  "Orthopedics",
		Experience: "18 years",
		Rating:     4.6,
		Avatar:     "https://images.unsplash.com/photo-1582750433449-648ed127bb54?w=150&h=150&fit=crop&crop=face",
	},
}

// Doctors returns a copy of the directory in id order.
func Doctors() []Doctor {
	out := make([]Doctor, len(doctors))
	copy(out, doctors)
	return out
}

// FindDoctor looks a doctor up by id.
func FindDoctor(id int) (Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}
