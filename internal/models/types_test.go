package models

import (
	"encoding/json"
	"testing"
)

func TestYesNo(t *testing.T) {
	tests := []struct {
		body    string
		want    *bool
		wantErr bool
	}{
		{`{"home_service":"Yes"}`, ptr(true), false},
		{`{"home_service":"No"}`, ptr(false), false},
		{`{"home_service":true}`, ptr(true), false},
		{`{"home_service":"false"}`, ptr(false), false},
		{`{}`, nil, false},
		{`{"home_service":null}`, nil, false},
		{`{"home_service":"Maybe"}`, nil, true},
		{`{"home_service":3}`, nil, true},
	}
	for _, tt := range tests {
		var in struct {
			HomeService *YesNo `json:"home_service"`
		}
		err := json.Unmarshal([]byte(tt.body), &in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.body)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.body, err)
		}
		got := in.HomeService.Bool()
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("%s: got %v want %v", tt.body, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	var in struct {
		A *Number `json:"a"`
		B *Number `json:"b"`
		C *Number `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":12.5,"b":"250"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *in.A.Float() != 12.5 || *in.B.Float() != 250 {
		t.Errorf("unexpected values %v %v", *in.A, *in.B)
	}
	if in.C.Float() != nil {
		t.Error("expected missing number to stay nil")
	}
	if err := json.Unmarshal([]byte(`{"a":"twelve"}`), &in); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestText(t *testing.T) {
	var in struct {
		Age Text `json:"age"`
	}
	if err := json.Unmarshal([]byte(`{"age":34}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Age != "34" {
		t.Errorf("expected 34, got %q", in.Age)
	}
	if err := json.Unmarshal([]byte(`{"age":"5 months"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Age != "5 months" {
		t.Errorf("expected '5 months', got %q", in.Age)
	}
}

func TestRefID(t *testing.T) {
	valid := NewObjectID().Hex()
	tests := []struct {
		body   string
		wantOK bool
		raw    string
	}{
		{`{"id":"` + valid + `"}`, true, valid},
		{`{"id":"garbage"}`, false, "garbage"},
		{`{"id":12345}`, false, "12345"},
		{`{"id":true}`, false, "true"},
		{`{"id":{"$oid":"` + valid + `"}}`, false, `{"$oid":"` + valid + `"}`},
		{`{"id":null}`, false, ""},
		{`{}`, false, ""},
	}
	for _, tt := range tests {
		var in struct {
			ID RefID `json:"id"`
		}
		if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
			t.Fatalf("%s: unexpected error %v", tt.body, err)
		}
		id, ok := in.ID.ObjectID()
		if ok != tt.wantOK {
			t.Errorf("%s: ok = %v, want %v", tt.body, ok, tt.wantOK)
		}
		if ok && id.Hex() != valid {
			t.Errorf("%s: id = %s", tt.body, id)
		}
		if !ok && id != NilObjectID {
			t.Errorf("%s: invalid reference resolved to %s", tt.body, id)
		}
		if in.ID.String() != tt.raw {
			t.Errorf("%s: raw = %q, want %q", tt.body, in.ID.String(), tt.raw)
		}
	}
}

func ptr(b bool) *bool { return &b }
