package model

import (
	"reflect"
	"testing"
)

func TestJSONArray_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    JSONArray
		wantErr bool
	}{
		{"bytes", []byte(`["Pool","Chef"]`), JSONArray{"Pool", "Chef"}, false},
		{"string", `["Surf storage"]`, JSONArray{"Surf storage"}, false},
		{"null", nil, nil, false},
		{"unexpected type", int64(7), nil, true},
		{"invalid json", []byte(`{`), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got JSONArray
			err := got.Scan(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}
