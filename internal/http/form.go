package http

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"expensemate/internal/core"
)

// ExpenseCategories are the categories the entry form offers.
var ExpenseCategories = []string{"travel", "food", "office", "software", "marketing", "other"}

// ExpenseForm is the new-expense submission.
type ExpenseForm struct {
	Description string `validate:"required,max=200"`
	Amount      string `validate:"required,money"`
	Category    string `validate:"required,oneof=travel food office software marketing other"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Notes       string `validate:"max=1000"`
}

var formFields = []string{"description", "amount", "category", "date", "notes"}

func expenseFormFromValues(v url.Values) ExpenseForm {
	return ExpenseForm{
		Description: v.Get("description"),
		Amount:      v.Get("amount"),
		Category:    strings.ToLower(v.Get("category")),
		Date:        v.Get("date"),
		Notes:       v.Get("notes"),
	}
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// money accepts a decimal amount of at least one cent.
	err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := core.ParseDecimalToCents(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register money validation: %v", err))
	}
	return v
}

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

// validateForm returns nil when the form is valid.
func validateForm(v *validator.Validate, form ExpenseForm) (FieldErrors, error) {
	err := v.Struct(form)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate expense form: %w", err)
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; !seen {
			out[field] = fieldMessage(fe)
		}
	}
	return out, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "Description.required":
		return "Description is required."
	case "Description.max":
		return "Description must be at most 200 characters."
	case "Amount.required", "Amount.money":
		return "Enter an amount of at least $0.01."
	case "Category.required", "Category.oneof":
		return "Choose a category."
	case "Date.required":
		return "Date is required."
	case "Date.datetime":
		return "Date must be in YYYY-MM-DD format."
	case "Notes.max":
		return "Notes must be at most 1000 characters."
	}
	return fe.Field() + " is invalid."
}
