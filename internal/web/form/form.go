// Package form renders, binds and validates HTML forms. Admin panels define
// their fields as data, each carrying validator rules; the fixed-shape forms
// of the public site bind into tagged structs and use the same Form only to
// re-render values and errors.
//
// Field names may contain dots ("displayLocations.home"); Payload nests them
// into objects so the result can be posted to the API as is.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	Text     Kind = "text"
	Textarea Kind = "textarea"
	Email    Kind = "email"
	Password Kind = "password"
	Number   Kind = "number"
	Integer  Kind = "integer"
	Select   Kind = "select"
	Checkbox Kind = "checkbox"
	List     Kind = "list" // comma separated
	Date     Kind = "date"
	URL      Kind = "url"
	File     Kind = "file" // uploaded by the handler, then stored as a URL
	Hidden   Kind = "hidden"
)

type Option struct {
	Value string
	Label string
}

// Options builds options whose label equals the value.
func Options(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

// Field describes one input.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []Option
	// Rules are extra validator tags. Number and Integer fields apply them to
	// the parsed value ("gte=0,lte=100"); every other kind to the text
	// ("max=120").
	Rules string
	Help  string
	// Upload names the upload endpoint for File fields: image, brochure or
	// floor-plan.
	Upload string
}

// Form is the bound state of a set of fields.
type Form struct {
	Fields []Field
	Values map[string]string
	Errors map[string]string
}

func New(fields ...Field) *Form {
	return &Form{
		Fields: fields,
		Values: make(map[string]string),
		Errors: make(map[string]string),
	}
}

// Bind copies submitted values. Unchecked checkboxes are absent from a
// submission, so every checkbox is bound explicitly.
func (f *Form) Bind(v url.Values) *Form {
	for _, fd := range f.Fields {
		switch fd.Kind {
		case Checkbox:
			f.Values[fd.Name] = strconv.FormatBool(checked(v.Get(fd.Name)))
		case File:
			// Kept from the hidden current-value input unless the handler
			// replaces it with a fresh upload.
			f.Values[fd.Name] = strings.TrimSpace(v.Get(fd.Name))
		case Password, Textarea:
			f.Values[fd.Name] = v.Get(fd.Name)
		default:
			f.Values[fd.Name] = strings.TrimSpace(v.Get(fd.Name))
		}
	}
	return f
}

func checked(s string) bool {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Fill prefills the form from a record, e.g. the entity being edited.
func (f *Form) Fill(record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	for _, fd := range f.Fields {
		if fd.Kind == Password {
			continue
		}
		v, ok := lookup(m, fd.Name)
		if !ok || v == nil {
			continue
		}
		f.Values[fd.Name] = display(v, fd.Kind)
	}
	return nil
}

func lookup(m map[string]any, name string) (any, bool) {
	parts := strings.Split(name, ".")
	var cur any = m
	for _, p := range parts {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func display(v any, kind Kind) string {
	switch t := v.(type) {
	case string:
		if kind == Date && len(t) >= 10 {
			return t[:10]
		}
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

// Validate checks every field and reports whether the form is valid.
// Errors already added by the caller are kept.
func (f *Form) Validate() bool {
	for _, fd := range f.Fields {
		if _, done := f.Errors[fd.Name]; done {
			continue
		}
		if msg := check(fd, f.Values[fd.Name]); msg != "" {
			f.Errors[fd.Name] = msg
		}
	}
	return f.Valid()
}

// Valid reports whether no errors were recorded.
func (f *Form) Valid() bool { return len(f.Errors) == 0 }

func check(fd Field, v string) string {
	if fd.Kind == Checkbox {
		return ""
	}
	if err := validate.Var(v, textRules(fd)); err != nil {
		return firstMessage(fd.Label, err)
	}
	if v == "" || (fd.Kind != Number && fd.Kind != Integer) || fd.Rules == "" {
		return ""
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fd.Label + " must be a number"
	}
	if err := validate.Var(n, fd.Rules); err != nil {
		return firstMessage(fd.Label, err)
	}
	return ""
}

// textRules are the validator tags applied to the submitted text of fd.
func textRules(fd Field) string {
	rules := []string{"omitempty"}
	if fd.Required {
		rules[0] = "required"
	}
	switch fd.Kind {
	case Email:
		rules = append(rules, "email")
	case Number:
		rules = append(rules, "numeric")
	case Integer:
		rules = append(rules, "numeric", "whole")
	case URL, File:
		rules = append(rules, "weburl")
	case Date:
		rules = append(rules, "datetime=2006-01-02")
	case Select:
		if len(fd.Options) > 0 {
			rules = append(rules, "oneof="+oneOf(fd.Options))
		}
	}
	if fd.Rules != "" && fd.Kind != Number && fd.Kind != Integer {
		rules = append(rules, fd.Rules)
	}
	return strings.Join(rules, ",")
}

// oneOf quotes option values for the oneof tag, escaping the characters the
// tag syntax reserves.
func oneOf(opts []Option) string {
	vals := make([]string, len(opts))
	for i, o := range opts {
		v := strings.NewReplacer(",", "0x2C", "|", "0x7C", "'", "").Replace(o.Value)
		vals[i] = "'" + v + "'"
	}
	return strings.Join(vals, " ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidations(v); err != nil {
		panic(err)
	}
	return v
}

// registerValidations adds the custom tags field rules are built from.
func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return webURL(fl.Field().String())
	})
}

// webURL accepts absolute http(s) URLs and site-relative paths.
func webURL(s string) bool {
	if strings.HasPrefix(s, "/") {
		return !strings.HasPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func firstMessage(label string, err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return Message(label, verrs[0])
	}
	return label + " is invalid"
}

// Message phrases a validation failure for a person.
func Message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "numeric":
		return label + " must be a number"
	case "whole":
		return label + " must be a whole number"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Use at least %s characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", label, fe.Param())
	case "oneof":
		return "Choose a valid " + strings.ToLower(label)
	case "weburl":
		return "Enter a valid URL"
	case "datetime":
		return "Use the format YYYY-MM-DD"
	case "eqfield":
		return "Passwords do not match"
	}
	return label + " is invalid"
}

// AddBindErrors records the validation errors of a struct bound from this
// form. Struct fields are matched to form fields through their form tags.
// It reports whether err carried field errors; anything else is recorded as
// a form-level error.
func (f *Form) AddBindErrors(in any, err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.AddError("form", "The form could not be read.")
		return false
	}
	t := reflect.TypeOf(in)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range verrs {
		name := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if tag, _, _ := strings.Cut(sf.Tag.Get("form"), ","); tag != "" {
				name = tag
			}
		}
		if _, done := f.Errors[name]; done {
			continue
		}
		label := name
		if fd, ok := f.Field(name); ok {
			label = fd.Label
		}
		f.Errors[name] = Message(label, fe)
	}
	return true
}

// AddError records a field error, e.g. one returned by the API.
func (f *Form) AddError(name, msg string) {
	f.Errors[name] = msg
}

func (f *Form) Value(name string) string { return f.Values[name] }

func (f *Form) Error(name string) string { return f.Errors[name] }

func (f *Form) Checked(name string) bool { return f.Values[name] == "true" }

// Set overrides a bound value.
func (f *Form) Set(name, value string) { f.Values[name] = value }

// Field returns the field called name.
func (f *Form) Field(name string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Payload converts the bound values to typed JSON values. Empty optional
// values are omitted so the API keeps what it has.
func (f *Form) Payload() map[string]any {
	out := make(map[string]any)
	for _, fd := range f.Fields {
		v := f.Values[fd.Name]
		var val any
		switch fd.Kind {
		case Checkbox:
			val = v == "true"
		case Number:
			if v == "" {
				continue
			}
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			val = n
		case Integer:
			if v == "" {
				continue
			}
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			val = int64(n)
		case List:
			items := []string{}
			for _, part := range strings.Split(v, ",") {
				if p := strings.TrimSpace(part); p != "" {
					items = append(items, p)
				}
			}
			val = items
		default:
			if v == "" && !fd.Required {
				continue
			}
			val = v
		}
		put(out, fd.Name, val)
	}
	return out
}

func put(m map[string]any, name string, v any) {
	parts := strings.Split(name, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}
