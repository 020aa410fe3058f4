package cookbook

// Meal is a single recipe entry in the cookbook.
// - Name: Identifies the meal; non-blank and unique within a Cookbook (case sensitive).
// - Tags: Free-form labels in the order they were supplied. May be empty.
type Meal struct {
	Name string   `json:"name" yaml:"name"`
	Tags []string `json:"tags" yaml:"tags"`
}

// NewMeal builds a Meal from user input. A nil tag list becomes an empty one so
// that the meal always serializes with a "tags" array.
func NewMeal(name string, tags []string) Meal {
	if tags == nil {
		tags = []string{}
	}
	return Meal{Name: name, Tags: tags}
}

// clone returns a deep copy so callers can never mutate catalog memory.
func (m Meal) clone() Meal {
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	return Meal{Name: m.Name, Tags: tags}
}
