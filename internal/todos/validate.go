package todos

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"todo-ai-backend/internal/apperr"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("duetime", func(fl validator.FieldLevel) bool {
		return ValidDueTime(fl.Field().String())
	})
}

// Input is the writable part of a todo, shared by create and edit.
type Input struct {
	Title       string   `json:"title" validate:"required,max=50"`
	Description string   `json:"description" validate:"max=500"`
	DueDate     string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DueTime     string   `json:"due_time" validate:"omitempty,duetime"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=high medium low"`
	Category    []string `json:"category" validate:"dive,max=20"`
}

// Normalize trims text fields and dedupes/caps categories in place.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.DueTime = strings.TrimSpace(in.DueTime)
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	in.Category = NormalizeCategories(in.Category)
}

// Validate returns an apperr validation error naming the first violated rule.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation(err.Error())
	}
	return apperr.Validation(formatValidationError(verrs[0]))
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s은(는) 필수입니다.", fe.Field())
	case "max":
		return fmt.Sprintf("%s은(는) 최대 %s자까지 입력 가능합니다.", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s은(는) YYYY-MM-DD 형식이어야 합니다.", fe.Field())
	case "duetime":
		return fmt.Sprintf("%s은(는) HH:MM(00:00-23:59) 형식이어야 합니다.", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s은(는) %s 중 하나여야 합니다.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s 값이 올바르지 않습니다.", fe.Field())
	}
}
