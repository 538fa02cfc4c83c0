// internal/app/system/inputval/validate.go
package inputval

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError is one validation failure with a caller-facing message.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures in field declaration order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when validation passed.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

/*
Validate checks the string fields of input against their `validate` tags.

Supported rules:

	required    field must be non-blank
	max=N       at most N characters (counted in runes)
	email       must be a well-formed address
	objectid    must be a 24-character hex ObjectID

The `label` tag names the field in messages; the Go field name is the
fallback. A failed "required" stops further rules for that field so the
caller never sees two messages about one blank field.
*/
func Validate(input any) *Result {
	result := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return result
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := v.Field(i).String()
		checkField(result, field.Name, label, value, strings.Split(tag, ","))
	}
	return result
}

func checkField(result *Result, name, label, value string, rules []string) {
	trimmed := strings.TrimSpace(value)

	for _, rule := range rules {
		switch {
		case rule == "required":
			if trimmed == "" {
				result.add(name, label+" is required.")
				return
			}
		case strings.HasPrefix(rule, "max="):
			if n, ok := ruleParam(rule, "max="); ok && utf8.RuneCountInString(value) > n {
				result.add(name, label+" must be at most "+strconv.Itoa(n)+" characters.")
				return
			}
		case rule == "email":
			if trimmed != "" && !IsValidEmail(trimmed) {
				result.add(name, "A valid email address is required.")
				return
			}
		case rule == "objectid":
			if trimmed != "" && !IsValidObjectID(trimmed) {
				result.add(name, label+" must be a valid id.")
				return
			}
		}
	}
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

func ruleParam(rule, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(rule, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}
