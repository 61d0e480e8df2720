// Package mealplan holds build metadata for the mealplan CLI.
package mealplan

// Version is the semantic version of the mealplan module.
const Version = "0.1.0"
