package types

// OthersCategory groups custom ingredients added by the user.
const OthersCategory = "Others"

// Category is a named group of ingredients.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// DefaultPantry returns the built-in ingredient categories.
func DefaultPantry() []Category {
	return []Category{
		{Name: "Grains & Starches", Items: []string{"Rice", "Pasta", "Bread", "Potatoes", "Flour"}},
		{Name: "Protein", Items: []string{"Chicken", "Beef", "Fish", "Eggs", "Pork"}},
		{Name: "Vegetables", Items: []string{"Tomatoes", "Carrots", "Cabbage", "Onion", "Cauliflower"}},
		{Name: "Fruits", Items: []string{"Bananas", "Apples", "Oranges", "Coconut", "Lemons"}},
	}
}
