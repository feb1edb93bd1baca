// Package validation validates API requests and configuration structs.
//
// Struct validation uses go-playground/validator tags and reports failures as
// an INVALID_INPUT AppError whose details list each offending field by its
// json name. The fluent Validator covers checks that do not fit tags.
package validation
