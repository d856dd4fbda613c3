package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/etracking_app/internal/utils/datefmt"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the dto package.
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("docdate", validDocDate)
	})
	return err
}

// validDocDate accepts yyyy-mm-dd and dd/mm/yyyy.
func validDocDate(fl validator.FieldLevel) bool {
	_, err := datefmt.Parse(fl.Field().String())
	return err == nil
}
