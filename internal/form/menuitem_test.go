package form

import "testing"

func TestMenuItem_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       MenuItem
		wantFields []string
	}{
		{
			name: "valid",
			form: MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "7.50"},
		},
		{
			name:       "missing fields",
			form:       MenuItem{},
			wantFields: []string{"name", "course", "description", "price"},
		},
		{
			name:       "name too short",
			form:       MenuItem{Name: "Pie", Course: "Dessert", Description: "Apple pie", Price: "4"},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			form:       MenuItem{Name: "An Extremely Long Dish Name", Course: "Entree", Description: "Too wordy", Price: "4"},
			wantFields: []string{"name"},
		},
		{
			name:       "invalid course",
			form:       MenuItem{Name: "Clam Chowder", Course: "Side", Description: "Creamy soup", Price: "7.50"},
			wantFields: []string{"course"},
		},
		{
			name:       "short description",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "ok", Price: "7.50"},
			wantFields: []string{"description"},
		},
		{
			name:       "negative price",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "-1"},
			wantFields: []string{"price"},
		},
		{
			name:       "unparseable price",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "seven"},
			wantFields: []string{"price"},
		},
		{
			name:       "NaN price rejected",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "NaN"},
			wantFields: []string{"price"},
		},
		{
			name:       "infinite price rejected",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "Inf"},
			wantFields: []string{"price"},
		},
		{
			name:       "hex float price rejected",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "0x1p10"},
			wantFields: []string{"price"},
		},
		{
			name:       "exponent price rejected",
			form:       MenuItem{Name: "Clam Chowder", Course: "Appetizer", Description: "Creamy soup", Price: "1e3"},
			wantFields: []string{"price"},
		},
		{
			name: "zero price allowed",
			form: MenuItem{Name: "Tap Water", Course: "Appetizer", Description: "Ice cold", Price: "0"},
		},
		{
			// 20 characters but 25 bytes; the limit is on characters.
			name: "multibyte name counts characters",
			form: MenuItem{Name: "Crème Brûlée Soufflé", Course: "Dessert", Description: "Torched custard", Price: "6.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, tt.form.Validate(), tt.wantFields)
		})
	}
}

func TestMenuItem_NormalizedPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7.5", "7.50"},
		{"7", "7.00"},
		{"0", "0.00"},
		{"12.345", "12.35"},
		{"", "0.00"},
	}

	for _, tt := range tests {
		f := MenuItem{Price: tt.in}
		if got := f.NormalizedPrice(); got != tt.want {
			t.Errorf("NormalizedPrice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilter_Validate(t *testing.T) {
	if errs := (&Filter{Name: "Pizza"}).Validate(); errs.Any() {
		t.Errorf("expected no errors, got %v", errs)
	}
	if errs := (&Filter{}).Validate(); !errs.Has("name") {
		t.Error("expected error on empty filter name")
	}
}
