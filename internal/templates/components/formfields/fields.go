// Package formfields renders a sport's custom fields as form controls.
package formfields

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

// Fields renders one control per descriptor, in configuration order. values
// and errors are keyed by descriptor id.
func Fields(cfg formconfig.Config, values map[string][]string, errors map[string]string) templ.Component {
	return view.Func(func(v *view.Writer) {
		if len(cfg) == 0 {
			v.Raw(`<p class="form-hint">This sport has no additional fields.</p>`)
			return
		}
		for _, field := range cfg {
			v.Component(Field(field, values[field.ID], errors[field.ID]))
		}
	})
}

// Field renders a single descriptor with its label and error message.
func Field(field formconfig.FieldDescriptor, current []string, errMsg string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<div class="%s" data-field-id="%s" data-field-type="%s">`,
			view.Classes("form-field", errorClass(errMsg)), field.ID, string(field.Type))

		if field.Type == formconfig.TypeRadio || field.Type == formconfig.TypeCheckbox {
			v.Raw(`<fieldset>`)
			v.Raw(`<legend>`)
			label(v, field)
			v.Raw(`</legend>`)
			choices(v, field, current)
			v.Raw(`</fieldset>`)
		} else {
			v.Printf(`<label for="%s">`, controlID(field.ID))
			label(v, field)
			v.Raw(`</label>`)
			control(v, field, current)
		}

		if errMsg != "" {
			v.Printf(`<p class="field-error" id="%s-error">%s</p>`, controlID(field.ID), errMsg)
		}
		v.Raw(`</div>`)
	})
}

func label(v *view.Writer, field formconfig.FieldDescriptor) {
	v.Text(field.Label)
	if field.Required {
		v.Raw(`<span class="required" aria-hidden="true">*</span>`)
	}
}

func control(v *view.Writer, field formconfig.FieldDescriptor, current []string) {
	name := formconfig.InputName(field.ID)
	value := first(current)

	switch field.Type {
	case formconfig.TypeTextarea:
		v.Raw(`<textarea rows="3"`)
		commonAttrs(v, field, name)
		v.Raw(`>`)
		v.Text(value)
		v.Raw(`</textarea>`)
	case formconfig.TypeSelect:
		v.Raw(`<select`)
		commonAttrs(v, field, name)
		v.Raw(`>`)
		placeholder := field.Placeholder
		if placeholder == "" {
			placeholder = "Select an option"
		}
		v.Printf(`<option value="">%s</option>`, placeholder)
		for _, option := range field.Options {
			v.Raw(`<option`)
			v.Printf(` value="%s"`, option)
			v.BoolAttr("selected", option == value)
			v.Printf(`>%s</option>`, option)
		}
		v.Raw(`</select>`)
	default:
		v.Printf(`<input type="%s"`, inputType(field.Type))
		commonAttrs(v, field, name)
		if field.Type == formconfig.TypeNumber {
			v.Raw(` step="any"`)
		}
		v.Attr("value", value)
		v.Raw(`>`)
	}
}

func commonAttrs(v *view.Writer, field formconfig.FieldDescriptor, name string) {
	v.Attr("id", controlID(field.ID))
	v.Attr("name", name)
	if field.Type != formconfig.TypeSelect {
		v.Attr("placeholder", field.Placeholder)
	}
	v.BoolAttr("required", field.Required)
}

func choices(v *view.Writer, field formconfig.FieldDescriptor, current []string) {
	name := formconfig.InputName(field.ID)
	kind := "radio"
	if field.Type == formconfig.TypeCheckbox {
		kind = "checkbox"
	}
	for i, option := range field.Options {
		id := controlID(field.ID) + "-" + strconv.Itoa(i)
		v.Printf(`<label class="choice" for="%s"><input type="%s" id="%s"`, id, kind, id)
		v.Attr("name", name)
		v.Printf(` value="%s"`, option)
		v.BoolAttr("checked", contains(current, option))
		// Required checkbox groups are checked server side.
		if kind == "radio" {
			v.BoolAttr("required", field.Required)
		}
		v.Raw(`>`)
		v.Text(option)
		v.Raw(`</label>`)
	}
}

func inputType(t formconfig.FieldType) string {
	switch t {
	case formconfig.TypeNumber:
		return "number"
	case formconfig.TypeDate:
		return "date"
	default:
		return "text"
	}
}

func controlID(fieldID string) string {
	return "field-" + fieldID
}

func errorClass(errMsg string) string {
	if errMsg != "" {
		return "has-error"
	}
	return ""
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
