package models

// Category classifies an event. The value is stored as-is in the database
// and returned as-is over the API.
type Category string

const (
	CategoryWork          Category = "Work"
	CategoryPersonal      Category = "Personal"
	CategorySocial        Category = "Social"
	CategoryConcert       Category = "Concert"
	CategoryEntertainment Category = "Entertainment"
	CategoryTravel        Category = "Travel"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryFinance       Category = "Finance"
	CategoryOther         Category = "Other"
)

var AllCategories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategorySocial,
	CategoryConcert,
	CategoryEntertainment,
	CategoryTravel,
	CategoryHealth,
	CategoryEducation,
	CategoryFinance,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}
