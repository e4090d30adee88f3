// Package validator expone una instancia compartida de go-playground/validator.
package validator

import (
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
)

var (
	v    *gpvalidator.Validate
	once sync.Once
)

func instance() *gpvalidator.Validate {
	once.Do(func() { v = gpvalidator.New() })
	return v
}

// Struct valida un struct según sus etiquetas `validate`.
func Struct(s interface{}) error {
	return instance().Struct(s)
}
