// Package validation checks `validate` struct tags with go-playground/validator.
//
//	type Config struct {
//	    Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
//	}
//	if err := validation.Struct(&cfg); err != nil { ... }
//
// Errors are *errors.AppError values with code INVALID_INPUT; Fields lists the
// individual failures by config key.
package validation
