package casing

import "testing"

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Windows", "windows"},
		{"ApplicationModel", "application_model"},
		{"appointmentId", "appointment_id"},
		{"CreateUInt8Array", "create_uint8_array"},
		{"CreateField_Default", "create_field_default"},
		{"UIProgramming", "ui_programming"},
		{"WinRT", "winrt"},
		{"a", "a"},
		{"A", "a"},
		{"IO", "io"},
		{"Foundation", "foundation"},
		{"IUriRuntimeClass", "iuri_runtime_class"},
	}
	for _, tt := range tests {
		if got := ToSnake(tt.in); got != tt.want {
			t.Errorf("ToSnake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToUpper(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Windows", "WINDOWS"},
		{"ApplicationModel", "APPLICATION_MODEL"},
		{"foo", "FOO"},
		{"UIProgramming", "UI_PROGRAMMING"},
		{"CreateUInt8Array", "CREATE_UINT8_ARRAY"},
		{"appointmentId", "APPOINTMENT_ID"},
		{"a", "A"},
		{"A", "A"},
		{"CreateField_Default", "CREATE_FIELD_DEFAULT"},
		{"WinRT", "WINRT"},
	}
	for _, tt := range tests {
		if got := ToUpper(tt.in); got != tt.want {
			t.Errorf("ToUpper(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMethodToSnake(t *testing.T) {
	tests := []struct {
		in   string
		kind MethodKind
		want string
	}{
		{"foo", MethodNormal, "foo"},
		{"UIProgramming", MethodNormal, "ui_programming"},
		{"UIProgramming", MethodSet, "set_ui_programming"},
		{"CreateUInt8Array", MethodNormal, "create_uint8_array"},
		{"Socks", MethodRemove, "remove_socks"},
		{"a", MethodNormal, "a"},
		{"CreateField_Default", MethodNormal, "create_field_default"},
	}
	for _, tt := range tests {
		if got := MethodToSnake(tt.in, tt.kind); got != tt.want {
			t.Errorf("MethodToSnake(%q, %s) = %q, want %q", tt.in, tt.kind, got, tt.want)
		}
	}
}

func TestToSnakeStableOnSnakeCase(t *testing.T) {
	for _, in := range []string{"windows", "application_model", "create_uint8_array", "a_b_c"} {
		if got := ToSnake(in); got != in {
			t.Errorf("ToSnake(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestEmptyIdentifierPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty identifier")
		}
	}()
	ToSnake("")
}
