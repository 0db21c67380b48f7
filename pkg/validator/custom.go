package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// maxRadiusKM is half of the equatorial circumference: any larger radius covers the globe.
const maxRadiusKM = 20037.5

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterValidation("radius_km", validateRadiusKM)
}

func validateRadiusKM(fl validator.FieldLevel) bool {
	radius := fl.Field().Float()
	return radius > 0 && radius <= maxRadiusKM
}
