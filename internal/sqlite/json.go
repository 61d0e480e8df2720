// JSON record structures for the data files.
package sqlite

// mealJSON is the canonical record stored under each name in meals.json.
type mealJSON struct {
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
}
