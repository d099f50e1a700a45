package sports

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/templates/components/formbuilder"
)

// builderAction is one button press from the builder fragment.
type builderAction struct {
	Name    string
	FieldID string
}

func parseBuilderAction(raw string) builderAction {
	name, id, _ := strings.Cut(strings.TrimSpace(raw), ":")
	return builderAction{Name: name, FieldID: id}
}

// builderStateFromForm restores the builder from the hidden config input and
// the draft controls of a posted sport form.
func builderStateFromForm(form url.Values) (formbuilder.Data, error) {
	data := formbuilder.Data{
		Draft: formconfig.Draft{
			Type:        formconfig.FieldType(strings.TrimSpace(form.Get(formbuilder.DraftTypeInput))),
			Label:       form.Get(formbuilder.DraftLabelInput),
			Placeholder: form.Get(formbuilder.DraftPlaceholderInput),
			Required:    apiutil.ParseBool(form.Get(formbuilder.DraftRequiredInput)),
		},
		DraftOptions: form.Get(formbuilder.DraftOptionsInput),
	}

	raw := strings.TrimSpace(form.Get(formbuilder.ConfigInput))
	cfg, err := formconfig.ParseConfig([]byte(raw))
	if err != nil {
		return data, fmt.Errorf("form configuration: %w", err)
	}
	data.Fields = cfg
	return data, nil
}

// applyBuilderAction runs action against data and returns the state to render
// next. Validation problems are reported on the returned data, not as errors.
func applyBuilderAction(c clockwork.Clock, data formbuilder.Data, form url.Values, action builderAction) formbuilder.Data {
	builder := formconfig.NewBuilder(c, data.Fields)
	data.Error = ""
	data.Notice = ""

	switch action.Name {
	case "add":
		field, err := builder.Add(data.Draft, data.DraftOptions)
		if err != nil {
			data.Error = builderErrorMessage(err)
			return data
		}
		data.Notice = fmt.Sprintf("Added %q.", field.Label)
		data.Draft = formconfig.Draft{Type: data.Draft.Type}
		data.DraftOptions = ""
	case "remove":
		if !builder.Remove(action.FieldID) {
			data.Error = "That field no longer exists."
			return data
		}
	case "up":
		builder.Move(action.FieldID, formconfig.Up)
	case "down":
		builder.Move(action.FieldID, formconfig.Down)
	case "update":
		if err := builder.Update(action.FieldID, patchFromForm(form, action.FieldID)); err != nil {
			data.Error = builderErrorMessage(err)
			return data
		}
		data.Notice = "Field updated."
	case "clear":
		builder.Clear()
	default:
		data.Error = "Unknown builder action."
		return data
	}

	data.Fields = builder.Fields()
	return data
}

func patchFromForm(form url.Values, fieldID string) formconfig.Patch {
	suffix := "." + fieldID
	var patch formconfig.Patch
	if values, ok := form[formbuilder.EditLabelInput+suffix]; ok && len(values) > 0 {
		patch.Label = &values[0]
	}
	if values, ok := form[formbuilder.EditPlaceholderInput+suffix]; ok && len(values) > 0 {
		patch.Placeholder = &values[0]
	}
	if values, ok := form[formbuilder.EditOptionsInput+suffix]; ok && len(values) > 0 {
		patch.Options = &values[0]
	}
	// Unchecked checkboxes are not submitted.
	required := apiutil.ParseBool(form.Get(formbuilder.EditRequiredInput + suffix))
	patch.Required = &required
	return patch
}

func builderErrorMessage(err error) string {
	switch {
	case errors.Is(err, formconfig.ErrLabelRequired):
		return "Label is required."
	case errors.Is(err, formconfig.ErrOptionsRequired):
		return "Options are required for this field type. Separate them with commas."
	case errors.Is(err, formconfig.ErrFieldNotFound):
		return "That field no longer exists."
	case errors.Is(err, formconfig.ErrDuplicateLabel):
		return "Another field already uses this label."
	default:
		return err.Error()
	}
}
