package handlers

import (
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			slog.Error("Failed to register notblank validator", slog.String("error", err.Error()))
		}
	})
}
