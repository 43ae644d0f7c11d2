package repository

import (
	"reflect"
	"testing"
)

func TestImageIDsToString(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want string
	}{
		{name: "empty", ids: nil, want: ""},
		{name: "single", ids: []int64{42}, want: "42"},
		{name: "multiple", ids: []int64{1, 2, 3}, want: "1,2,3"},
		{name: "large ids", ids: []int64{1000001, 1000002}, want: "1000001,1000002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := imageIDsToString(tt.ids); got != tt.want {
				t.Errorf("imageIDsToString(%v) = %q, want %q", tt.ids, got, tt.want)
			}
		})
	}
}

func TestParseImageIDs(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want []int64
	}{
		{name: "empty string", s: "", want: nil},
		{name: "single", s: "42", want: []int64{42}},
		{name: "multiple", s: "1,2,3", want: []int64{1, 2, 3}},
		{name: "spaces tolerated", s: "1, 2, 3", want: []int64{1, 2, 3}},
		{name: "garbage skipped", s: "1,x,3", want: []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseImageIDs(tt.s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseImageIDs(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestImageIDsRoundTrip(t *testing.T) {
	ids := []int64{7, 12, 12, 99}
	if got := parseImageIDs(imageIDsToString(ids)); !reflect.DeepEqual(got, ids) {
		t.Errorf("round trip = %v, want %v", got, ids)
	}
}
