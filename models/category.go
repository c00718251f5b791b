package models

// Category is the closed set of topics a post belongs to.
type Category string

const (
	CategorySystemDesign  Category = "system-design"
	CategoryDSA           Category = "dsa"
	CategoryLinkedIn      Category = "linkedin"
	CategoryInterviews    Category = "interviews"
	CategoryStartupHiring Category = "startup-hiring"
)

// CategoryInfo holds display metadata for a category.
type CategoryInfo struct {
	Slug Category `json:"slug"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
}

// Categories 는 화면 노출 순서를 유지한다.
var Categories = []CategoryInfo{
	{Slug: CategorySystemDesign, Name: "System Design", Icon: "🏗️"},
	{Slug: CategoryDSA, Name: "DSA", Icon: "🧮"},
	{Slug: CategoryLinkedIn, Name: "LinkedIn", Icon: "💼"},
	{Slug: CategoryInterviews, Name: "Interviews", Icon: "🎯"},
	{Slug: CategoryStartupHiring, Name: "Startup Hiring", Icon: "🚀"},
}

func (c Category) Valid() bool {
	_, ok := LookupCategory(string(c))
	return ok
}

// Name returns the display name, or the raw value for unknown categories.
func (c Category) Name() string {
	if info, ok := LookupCategory(string(c)); ok {
		return info.Name
	}
	return string(c)
}

func LookupCategory(s string) (CategoryInfo, bool) {
	for _, info := range Categories {
		if string(info.Slug) == s {
			return info, true
		}
	}
	return CategoryInfo{}, false
}
