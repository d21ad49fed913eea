package api

import "github.com/go-playground/validator/v10"

// validate checks request payload struct tags before any store call.
var validate = validator.New()
