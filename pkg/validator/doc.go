// Package validator builds declarative validation from small Rule values.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Apply runs a list of rules and returns every failure at once
// as ValidationErrors, which implements error and matches
// ErrValidationFailed under errors.Is.
//
//	err := validator.Apply(
//		validator.Required("name", t.Name),
//		validator.MaxLen("name", t.Name, 120),
//		validator.ValidIdentifier("component_type", t.ComponentType),
//	)
//
// Style maps are checked with StyleRules, which validates each property name
// and rejects values that could escape a style attribute (expression(),
// javascript: URLs, angle brackets, braces outside {group.name} token
// references).
//
// ValidationError carries a TranslationKey and TranslationValues so HTTP
// clients can localise messages.
package validator
