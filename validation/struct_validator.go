package validation

import (
	stderrors "errors"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/speakeralign/errors"
)

// AudioExtensions are the upload extensions accepted by the audio_ext tag.
var AudioExtensions = []string{".wav", ".mp3", ".ogg", ".oga", ".opus", ".flac", ".m4a", ".webm"}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their wire name: json first, then form (query
		// params). An empty name falls back to the Go field name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				if name, _, _ := strings.Cut(fld.Tag.Get(tag), ","); name != "" && name != "-" {
					return name
				}
			}
			return ""
		})

		_ = validate.RegisterValidation("audio_ext", func(fl validator.FieldLevel) bool {
			return IsAudioFile(fl.Field().String())
		})
	})
	return validate
}

// IsAudioFile reports whether name carries one of AudioExtensions.
func IsAudioFile(name string) bool {
	return slices.Contains(AudioExtensions, strings.ToLower(filepath.Ext(name)))
}

// Validate validates a struct using `validate` tags and returns an
// INVALID_INPUT AppError listing every failing field.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var failed validator.ValidationErrors
	if !stderrors.As(err, &failed) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make(FieldErrors, len(failed))
	for i, e := range failed {
		fields[i] = FieldError{Field: e.Field(), Message: formatValidationError(e)}
	}
	return fields.AppError()
}

// formatValidationError renders a validator error. min and max read as
// lengths for strings and collections and as bounds for numbers.
func formatValidationError(e validator.FieldError) string {
	unit := ""
	switch e.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map, reflect.Array:
		unit = " items"
	}

	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if unit != "" {
			return "must contain at least " + e.Param() + unit
		}
		return "must be at least " + e.Param()
	case "max":
		if unit != "" {
			return "must contain at most " + e.Param() + unit
		}
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "audio_ext":
		return "must be an audio file (" + strings.Join(AudioExtensions, ", ") + ")"
	default:
		return "is invalid"
	}
}
