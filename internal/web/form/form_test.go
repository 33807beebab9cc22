package form

import (
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statisticForm() *Form {
	return New(
		Field{Name: "label", Label: "Label", Kind: Text, Required: true},
		Field{Name: "value", Label: "Value", Kind: Number, Required: true},
		Field{Name: "progress", Label: "Progress", Kind: Integer, Rules: "gte=0,lte=100"},
		Field{Name: "category", Label: "Category", Kind: Select, Options: Options("projects", "company")},
		Field{Name: "email", Label: "Email", Kind: Email},
		Field{Name: "displayLocations.home", Label: "Home", Kind: Checkbox},
		Field{Name: "displayLocations.footer", Label: "Footer", Kind: Checkbox},
		Field{Name: "features", Label: "Features", Kind: List},
	)
}

func TestValidate_FieldErrors(t *testing.T) {
	f := statisticForm().Bind(url.Values{
		"label":    {"   "},
		"value":    {"abc"},
		"progress": {"150"},
		"category": {"other"},
		"email":    {"not-an-email"},
	})

	assert.False(t, f.Validate())
	assert.Equal(t, "Label is required", f.Error("label"))
	assert.Equal(t, "Value must be a number", f.Error("value"))
	assert.Equal(t, "Progress must be at most 100", f.Error("progress"))
	assert.Equal(t, "Choose a valid category", f.Error("category"))
	assert.Equal(t, "Enter a valid email address", f.Error("email"))
	assert.Empty(t, f.Error("features"))
}

func TestValidate_IntegerRejectsFraction(t *testing.T) {
	f := statisticForm().Bind(url.Values{"label": {"x"}, "value": {"1"}, "progress": {"2.5"}})
	assert.False(t, f.Validate())
	assert.Equal(t, "Progress must be a whole number", f.Error("progress"))
}

func TestPayload(t *testing.T) {
	f := statisticForm().Bind(url.Values{
		"label":                 {" Happy Families "},
		"value":                 {"2500"},
		"progress":              {"40"},
		"category":              {"projects"},
		"displayLocations.home": {"on"},
		"features":              {"Pool, Gym,, Park "},
	})
	require.True(t, f.Validate(), f.Errors)

	p := f.Payload()
	assert.Equal(t, "Happy Families", p["label"])
	assert.Equal(t, 2500.0, p["value"])
	assert.Equal(t, int64(40), p["progress"])
	assert.Equal(t, map[string]any{"home": true, "footer": false}, p["displayLocations"])
	assert.Equal(t, []string{"Pool", "Gym", "Park"}, p["features"])
	assert.NotContains(t, p, "email", "empty optional values are omitted")
}

func TestFill(t *testing.T) {
	type locations struct {
		Home   bool `json:"home"`
		Footer bool `json:"footer"`
	}
	record := struct {
		Label            string    `json:"label"`
		Value            float64   `json:"value"`
		Features         []string  `json:"features"`
		DisplayLocations locations `json:"displayLocations"`
	}{"Families", 12.5, []string{"a", "b"}, locations{Home: true}}

	f := statisticForm()
	require.NoError(t, f.Fill(record))

	assert.Equal(t, "Families", f.Value("label"))
	assert.Equal(t, "12.5", f.Value("value"))
	assert.Equal(t, "a, b", f.Value("features"))
	assert.True(t, f.Checked("displayLocations.home"))
	assert.False(t, f.Checked("displayLocations.footer"))
}

func TestAddErrorKeptByValidate(t *testing.T) {
	f := New(Field{Name: "email", Label: "Email", Kind: Email, Required: true}).
		Bind(url.Values{"email": {"a@example.com"}})
	f.AddError("email", "Email already registered")

	assert.False(t, f.Validate())
	assert.Equal(t, "Email already registered", f.Error("email"))
}

func TestURLAndDate(t *testing.T) {
	f := New(
		Field{Name: "image", Label: "Image", Kind: File},
		Field{Name: "mapUrl", Label: "Map", Kind: URL},
		Field{Name: "completionDate", Label: "Completion", Kind: Date},
	).Bind(url.Values{
		"image":          {"/uploads/a.png"},
		"mapUrl":         {"javascript:alert(1)"},
		"completionDate": {"2026"},
	})

	assert.False(t, f.Validate())
	assert.Empty(t, f.Error("image"))
	assert.Equal(t, "Enter a valid URL", f.Error("mapUrl"))
	assert.Equal(t, "Use the format YYYY-MM-DD", f.Error("completionDate"))
}

func TestValidate_TextRules(t *testing.T) {
	f := New(
		Field{Name: "name", Label: "Name", Kind: Text, Required: true, Rules: "max=5"},
		Field{Name: "units", Label: "Units", Kind: Integer, Rules: "gte=1"},
		Field{Name: "status", Label: "Status", Kind: Select, Options: Options("for sale", "sold,out")},
	).Bind(url.Values{"name": {"Harbour View"}, "units": {"0"}, "status": {"for sale"}})

	assert.False(t, f.Validate())
	assert.Equal(t, "Name must be at most 5 characters", f.Error("name"))
	assert.Equal(t, "Units must be at least 1", f.Error("units"))
	assert.Empty(t, f.Error("status"), "option values may contain spaces")

	f = New(Field{Name: "status", Label: "Status", Kind: Select, Options: Options("sold,out")}).
		Bind(url.Values{"status": {"sold,out"}})
	assert.True(t, f.Validate(), f.Errors)
}

func TestAddBindErrors(t *testing.T) {
	type signup struct {
		Email    string `form:"email" binding:"required,email"`
		Password string `form:"password" binding:"required,min=8"`
		Confirm  string `form:"confirm" binding:"required,eqfield=Password"`
	}
	v := validator.New()
	v.SetTagName("binding")

	in := signup{Email: "nope", Password: "short", Confirm: "other"}
	f := New(
		Field{Name: "email", Label: "Email", Kind: Email},
		Field{Name: "password", Label: "Password", Kind: Password},
		Field{Name: "confirm", Label: "Confirm password", Kind: Password},
	)
	assert.True(t, f.AddBindErrors(&in, v.Struct(in)))
	assert.Equal(t, "Enter a valid email address", f.Error("email"))
	assert.Equal(t, "Use at least 8 characters", f.Error("password"))
	assert.Equal(t, "Passwords do not match", f.Error("confirm"))

	f = New()
	assert.False(t, f.AddBindErrors(&in, assert.AnError))
	assert.Equal(t, "The form could not be read.", f.Error("form"))
}
