// Package editor implements a saved-meal editing session: the ingredient
// choices on offer, the current selection, and the create-or-edit
// reconciliation performed on submit.
package editor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// Mode tells whether a session creates a new meal or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// UserError carries the message shown to the user for a rejected action.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

// Session holds the state of one editor screen. The original name of an
// edited meal is fixed when the session opens.
type Session struct {
	Name        string
	Description string

	mode     Mode
	original string
	options  []string
	selected map[string]bool
}

// NewCreate opens a session for a new meal offering the given ingredients.
func NewCreate(known []string) *Session {
	return &Session{
		mode:     ModeCreate,
		options:  sortedOptions(known, nil),
		selected: make(map[string]bool),
	}
}

// NewEdit opens a session for meal. Its ingredients are offered even when
// they are not among known, and start selected.
func NewEdit(known []string, meal types.SavedMeal) *Session {
	s := &Session{
		Name:        meal.Name,
		Description: meal.Description,
		mode:        ModeEdit,
		original:    meal.Name,
		options:     sortedOptions(known, meal.Ingredients),
		selected:    make(map[string]bool, len(meal.Ingredients)),
	}
	for _, ing := range meal.Ingredients {
		s.selected[ing] = true
	}
	return s
}

// sortedOptions returns the union of both lists sorted case-insensitively.
func sortedOptions(known, extra []string) []string {
	seen := make(map[string]bool, len(known)+len(extra))
	var out []string
	for _, name := range slices.Concat(known, extra) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a), strings.ToLower(b)), cmp.Compare(a, b))
	})
	return out
}

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// Original returns the name the edited meal had when the session opened,
// or "" in create mode.
func (s *Session) Original() string { return s.original }

// Options returns the ingredients on offer.
func (s *Session) Options() []string { return slices.Clone(s.options) }

// IsSelected reports whether name is selected.
func (s *Session) IsSelected(name string) bool { return s.selected[name] }

// Selected returns the selected ingredients in option order.
func (s *Session) Selected() []string {
	out := []string{}
	for _, name := range s.options {
		if s.selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Toggle flips the selection of an offered ingredient and returns its new
// state.
func (s *Session) Toggle(name string) (bool, error) {
	if !slices.Contains(s.options, name) {
		return false, fmt.Errorf("ingredient %q: %w", name, types.ErrNotFound)
	}
	s.selected[name] = !s.selected[name]
	return s.selected[name], nil
}

// AddCustom offers a new ingredient for this meal only and selects it.
// Blank names are ignored.
func (s *Session) AddCustom(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if slices.Contains(s.options, name) {
		return &UserError{
			Message: fmt.Sprintf("'%s' is already listed.", name),
			Err:     types.ErrDuplicateIngredient,
		}
	}
	s.options = append(s.options, name)
	s.selected[name] = true
	return nil
}

// SetSelection replaces the selection with names, adding any that are not
// yet offered.
func (s *Session) SetSelection(names []string) {
	clear(s.selected)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !slices.Contains(s.options, name) {
			s.options = append(s.options, name)
		}
		s.selected[name] = true
	}
}

// Meal returns the meal the session would save.
func (s *Session) Meal() types.SavedMeal {
	return types.SavedMeal{
		Name:        strings.TrimSpace(s.Name),
		Ingredients: s.Selected(),
		Description: strings.TrimSpace(s.Description),
	}
}

// Validate checks the session before saving.
func (s *Session) Validate() error {
	meal := s.Meal()
	if meal.Name == "" {
		return &UserError{Message: "Please enter a meal name.", Err: types.ErrInvalidName}
	}
	if len(meal.Ingredients) < types.MinMealIngredients {
		return &UserError{
			Message: fmt.Sprintf("Select at least %d ingredients.", types.MinMealIngredients),
			Err:     types.ErrTooFewIngredients,
		}
	}
	return nil
}

// Submit saves the session to book and returns the saved meal. In create
// mode an existing meal of the same name is overwritten only when replace
// is set. In edit mode a changed name must not belong to another meal.
func (s *Session) Submit(book types.MealBook, replace bool) (types.SavedMeal, error) {
	if err := s.Validate(); err != nil {
		return types.SavedMeal{}, err
	}
	meal := s.Meal()

	err := book.Save(s.original, meal, replace && s.mode == ModeCreate)
	if errors.Is(err, types.ErrNameTaken) {
		return types.SavedMeal{}, &UserError{
			Message: fmt.Sprintf("A meal named '%s' already exists.", meal.Name),
			Err:     err,
		}
	}
	if err != nil {
		return types.SavedMeal{}, err
	}

	// Further submits edit the meal just saved.
	s.mode = ModeEdit
	s.original = meal.Name
	return meal, nil
}
