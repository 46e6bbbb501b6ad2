package model

import (
	"reflect"
	"testing"
)

func TestStringToList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "a;b;c", []string{"a", "b", "c"}},
		{"trimmed", " a ; b ", []string{"a", "b"}},
		{"deduplicated", "a;b;a", []string{"a", "b"}},
		{"empty parts dropped", "a;;b;", []string{"a", "b"}},
		{"empty string", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringToList(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringToList(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestListToString(t *testing.T) {
	if got := ListToString([]string{"a", "b"}); got != "a;b" {
		t.Errorf("ListToString = %q, want %q", got, "a;b")
	}
	if got := ListToString(nil); got != "" {
		t.Errorf("ListToString(nil) = %q, want %q", got, "")
	}
}
