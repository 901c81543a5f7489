package validate

import (
	"encoding/json"
	"testing"
)

type lambdaRequest struct {
	Lambda uint64 `validate:"required"`
}

func TestCheckPassesValidValue(t *testing.T) {
	if err := Check(lambdaRequest{Lambda: 5}); err != nil {
		t.Fatalf("Check = %v, want nil", err)
	}
}

func TestCheckReturnsFieldErrors(t *testing.T) {
	err := Check(lambdaRequest{})
	if err == nil {
		t.Fatal("Check = nil, want a validation error for a zero-value required field")
	}

	fe, ok := err.(FieldErrors)
	if !ok {
		t.Fatalf("err type = %T, want FieldErrors", err)
	}
	if len(fe) != 1 {
		t.Fatalf("len(FieldErrors) = %d, want 1", len(fe))
	}
	if fe[0].Field != "Lambda" {
		t.Fatalf("field name = %q, want %q", fe[0].Field, "Lambda")
	}
	if fe.Error() == "" {
		t.Fatal("Error() returned an empty string")
	}
}

func TestFieldErrorsMarshalJSON(t *testing.T) {
	fe := FieldErrors{{Field: "Lambda", Error: "is required"}}

	data, err := json.Marshal(fe)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	var got []FieldError
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}
	if len(got) != 1 || got[0].Field != "Lambda" {
		t.Fatalf("round trip = %+v, want one FieldError{Field: Lambda}", got)
	}
}
