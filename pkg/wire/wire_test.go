package wire

import (
	"encoding/json"
	"errors"
	"testing"
)

type counts struct {
	Total  Int   `json:"total"`
	Liked  Bool  `json:"liked"`
	Rating Float `json:"rating"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    counts
		wantErr bool
	}{
		{"all present", `{"total":42,"liked":true,"rating":4.5}`, counts{Total: 42, Liked: true, Rating: 4.5}, false},
		{"absent fields stay zero", `{}`, counts{}, false},
		{"integer rating", `{"rating":5}`, counts{Rating: 5}, false},
		{"null count", `{"total":null}`, counts{}, true},
		{"null flag", `{"liked":null}`, counts{}, true},
		{"null rating", `{"rating":null}`, counts{}, true},
		{"string count", `{"total":"42"}`, counts{}, true},
		{"string flag", `{"liked":"yes"}`, counts{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got counts
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNullIsErrNull(t *testing.T) {
	var n Int
	if err := n.UnmarshalJSON([]byte("null")); !errors.Is(err, ErrNull) {
		t.Errorf("UnmarshalJSON(null) = %v, want ErrNull", err)
	}
}

func TestMarshalKeepsNumbers(t *testing.T) {
	b, err := json.Marshal(counts{Total: 3, Liked: true, Rating: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"total":3,"liked":true,"rating":1.5}`; string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}
