// Package render formats recipes, saved meals and daily plans for the
// terminal. Styles degrade to plain text when the output is not a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Placeholder texts.
const (
	NoDetail      = "(No detailed recipe found)"
	NoIngredients = "(No ingredients)"
	NoDescription = "(No description)"
	NoRecipes     = "No recipes"
)

const bullet = "• "

// cardWidth is the inner width of one daily plan card.
const cardWidth = 24

// Printer renders values with styles bound to one output.
type Printer struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	card    lipgloss.Style
}

// New returns a Printer whose color profile is detected from w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		heading: r.NewStyle().
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		card: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1).
			Width(cardWidth),
	}
}

// RecipeDetail renders a recipe with its ingredients and instruction steps
// as bullet lists.
func (p *Printer) RecipeDetail(r types.Recipe) string {
	var b strings.Builder
	b.WriteString(p.title.Render(r.DisplayName() + ":"))
	b.WriteString("\n\n")
	b.WriteString(p.heading.Render("Ingredients:"))
	b.WriteString("\n")
	writeBullets(&b, r.Ingredients)
	b.WriteString("\n")
	b.WriteString(p.heading.Render("Instructions:"))
	b.WriteString("\n")
	writeBullets(&b, r.Instructions)
	return b.String()
}

// MissingRecipe renders the placeholder for a name with no catalog entry.
func (p *Printer) MissingRecipe() string {
	return p.muted.Render(NoDetail) + "\n"
}

// MealDetail renders a saved meal.
func (p *Printer) MealDetail(m types.SavedMeal) string {
	var b strings.Builder
	b.WriteString(p.title.Render(m.Name + ":"))
	b.WriteString("\n\n")
	b.WriteString(p.heading.Render("Ingredients:"))
	b.WriteString("\n")
	if len(m.Ingredients) == 0 {
		b.WriteString(p.muted.Render(NoIngredients))
		b.WriteString("\n")
	} else {
		writeBullets(&b, m.Ingredients)
	}
	b.WriteString("\n")
	b.WriteString(p.heading.Render("Description:"))
	b.WriteString("\n")
	if strings.TrimSpace(m.Description) == "" {
		b.WriteString(p.muted.Render(NoDescription))
	} else {
		b.WriteString(m.Description)
	}
	b.WriteString("\n")
	return b.String()
}

// RecipeList renders one recipe name per line.
func (p *Printer) RecipeList(recipes []types.Recipe) string {
	var b strings.Builder
	for _, r := range recipes {
		b.WriteString(r.DisplayName())
		b.WriteString("\n")
	}
	return b.String()
}

// MealList renders saved meal names with their ingredient counts.
func (p *Printer) MealList(meals []types.SavedMeal) string {
	var b strings.Builder
	for _, m := range meals {
		fmt.Fprintf(&b, "%s %s\n", m.Name,
			p.muted.Render(fmt.Sprintf("(%d ingredients)", len(m.Ingredients))))
	}
	return b.String()
}

// Categories renders each ingredient category with its items. Empty
// categories are skipped.
func (p *Printer) Categories(cats []types.Category) string {
	var sections []string
	for _, c := range cats {
		if len(c.Items) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(p.heading.Render(c.Name + ":"))
		b.WriteString("\n")
		writeBullets(&b, c.Items)
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n")
}

// DailyCards renders breakfast, lunch and dinner side by side. Empty slots
// show NoRecipes.
func (p *Printer) DailyCards(plan types.DailyPlan) string {
	slots := plan.Slots()
	cards := make([]string, 0, len(slots))
	for _, s := range slots {
		name := NoRecipes
		if s.Recipe != nil {
			name = s.Recipe.DisplayName()
		}
		cards = append(cards, p.card.Render(p.heading.Render(s.Label)+"\n\n"+name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString(bullet)
		b.WriteString(item)
		b.WriteString("\n")
	}
}
