// Package formbuilder renders the sport form builder. Every action posts the
// whole sport form back to the builder endpoint, which re-renders this
// fragment in place.
package formbuilder

import (
	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

const (
	// ConfigInput carries the current field list as JSON between requests.
	ConfigInput = "formConfig"
	// ActionInput is the name of every builder button; its value is
	// "<action>" or "<action>:<fieldId>".
	ActionInput = "builderAction"

	DraftTypeInput        = "draftType"
	DraftLabelInput       = "draftLabel"
	DraftPlaceholderInput = "draftPlaceholder"
	DraftRequiredInput    = "draftRequired"
	DraftOptionsInput     = "draftOptions"

	// Per-field edit controls are suffixed with ".<fieldId>".
	EditLabelInput       = "editLabel"
	EditPlaceholderInput = "editPlaceholder"
	EditRequiredInput    = "editRequired"
	EditOptionsInput     = "editOptions"
)

// Data is the builder state rendered between actions.
type Data struct {
	Endpoint     string
	Fields       formconfig.Config
	Draft        formconfig.Draft
	DraftOptions string
	Error        string
	Notice       string
}

// Builder renders the fragment swapped by every builder action.
func Builder(data Data) templ.Component {
	return view.Func(func(v *view.Writer) {
		endpoint := data.Endpoint
		if endpoint == "" {
			endpoint = "/admin/sports/builder"
		}

		configJSON, err := data.Fields.Marshal()
		if err != nil {
			configJSON = "[]"
		}

		v.Raw(`<section id="form-builder" class="form-builder">`)
		v.Raw(`<h2>Player form fields</h2>`)
		v.Printf(`<input type="hidden" name="%s" value="%s">`, ConfigInput, configJSON)
		if data.Error != "" {
			v.Printf(`<p class="builder-error" role="alert">%s</p>`, data.Error)
		}
		if data.Notice != "" {
			v.Printf(`<p class="builder-notice">%s</p>`, data.Notice)
		}

		if len(data.Fields) == 0 {
			v.Raw(`<p class="form-hint">No custom fields yet. Players of this sport will only have the standard details.</p>`)
		} else {
			v.Raw(`<ol class="builder-fields">`)
			for i, field := range data.Fields {
				fieldRow(v, endpoint, field, i == 0, i == len(data.Fields)-1)
			}
			v.Raw(`</ol>`)
			actionButton(v, endpoint, "clear", "Remove all fields", "btn-danger", false)
		}

		draftForm(v, endpoint, data)
		v.Raw(`</section>`)
	})
}

func actionButton(v *view.Writer, endpoint, value, label, class string, disabled bool) {
	v.Printf(`<button type="button" class="%s" name="%s" value="%s" hx-post="%s" hx-target="#form-builder" hx-swap="outerHTML" hx-include="closest form"`,
		view.Classes("btn", class), ActionInput, value, endpoint)
	v.BoolAttr("disabled", disabled)
	v.Printf(`>%s</button>`, label)
}

func fieldRow(v *view.Writer, endpoint string, field formconfig.FieldDescriptor, isFirst, isLast bool) {
	id := field.ID
	v.Printf(`<li class="builder-field" data-field-id="%s">`, id)
	v.Printf(`<div class="builder-field-summary"><strong>%s</strong> <span class="badge">%s</span>`,
		field.Label, field.Type.DisplayName())
	if field.Required {
		v.Raw(` <span class="badge badge-required">Required</span>`)
	}
	v.Raw(`</div>`)

	v.Raw(`<div class="builder-field-edit">`)
	v.Printf(`<label>Label <input type="text" name="%s.%s" value="%s"></label>`, EditLabelInput, id, field.Label)
	v.Printf(`<label>Placeholder <input type="text" name="%s.%s" value="%s"></label>`, EditPlaceholderInput, id, field.Placeholder)
	if field.Type.HasOptions() {
		v.Printf(`<label>Options <input type="text" name="%s.%s" value="%s"></label>`,
			EditOptionsInput, id, formconfig.FormatOptions(field.Options))
	}
	v.Printf(`<label class="choice"><input type="checkbox" name="%s.%s" value="true"`, EditRequiredInput, id)
	v.BoolAttr("checked", field.Required)
	v.Raw(`> Required</label>`)
	v.Raw(`</div>`)

	v.Raw(`<div class="builder-field-actions">`)
	actionButton(v, endpoint, "up:"+id, "Move up", "", isFirst)
	actionButton(v, endpoint, "down:"+id, "Move down", "", isLast)
	actionButton(v, endpoint, "update:"+id, "Save", "btn-secondary", false)
	actionButton(v, endpoint, "remove:"+id, "Remove", "btn-danger", false)
	v.Raw(`</div></li>`)
}

func draftForm(v *view.Writer, endpoint string, data Data) {
	draftType := data.Draft.Type
	if draftType == "" {
		draftType = formconfig.TypeText
	}

	v.Raw(`<fieldset class="builder-draft"><legend>Add a field</legend>`)
	v.Printf(`<label>Type <select name="%s">`, DraftTypeInput)
	for _, t := range formconfig.FieldTypes {
		v.Printf(`<option value="%s"`, string(t))
		v.BoolAttr("selected", t == draftType)
		v.Printf(`>%s</option>`, t.DisplayName())
	}
	v.Raw(`</select></label>`)
	v.Printf(`<label>Label <input type="text" name="%s" value="%s"></label>`, DraftLabelInput, data.Draft.Label)
	v.Printf(`<label>Placeholder <input type="text" name="%s" value="%s"></label>`, DraftPlaceholderInput, data.Draft.Placeholder)
	v.Printf(`<label>Options <input type="text" name="%s" value="%s" placeholder="Comma separated, for dropdowns, radios and checkboxes"></label>`,
		DraftOptionsInput, data.DraftOptions)
	v.Printf(`<label class="choice"><input type="checkbox" name="%s" value="true"`, DraftRequiredInput)
	v.BoolAttr("checked", data.Draft.Required)
	v.Raw(`> Required</label>`)
	actionButton(v, endpoint, "add", "Add field", "btn-primary", false)
	v.Raw(`</fieldset>`)
}
