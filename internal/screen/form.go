package screen

// Form is the view model of the shared create/edit page.
type Form struct {
	Heading   string
	Action    string
	Back      string
	Submit    string
	Multipart bool
	Fields    []Field
	Errors    map[string]string
	// Picker, when set, renders the customer picker above the fields.
	Picker any
}

// Field is one form input.
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Options  []Option
	Required bool
	Accept   string
	Hint     string
}

// Error returns the message recorded for the field.
func (f Form) Error(name string) string {
	return f.Errors[name]
}

// WithValues copies submitted values back into the fields after a rejected submit.
func (f Form) WithValues(get func(string) string) Form {
	fields := make([]Field, len(f.Fields))
	for i, field := range f.Fields {
		if field.Type != "file" {
			field.Value = get(field.Name)
		}
		fields[i] = field
	}
	f.Fields = fields
	return f
}
