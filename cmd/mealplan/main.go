// Command mealplan matches recipes to ingredients, suggests daily meals and
// keeps a library of saved meals.
package main

import "github.com/mesh-intelligence/mealplan/internal/cli"

func main() {
	cli.Execute()
}
