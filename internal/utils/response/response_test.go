package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestWriteJSON_SetsHeaderStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusTeapot, map[string]string{"hello": "world"})
	if err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v, want hello=world", body)
	}
}

func TestGeneralError(t *testing.T) {
	resp := GeneralError(errors.New("something broke"))

	if resp.Status != StatusError {
		t.Errorf("Status = %q, want %q", resp.Status, StatusError)
	}
	if resp.Error != "something broke" {
		t.Errorf("Error = %q, want %q", resp.Error, "something broke")
	}
}

func TestValidationError_RequiredField(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}

	err := validator.New().Struct(payload{})
	if err == nil {
		t.Fatal("expected a validation error for the empty struct")
	}

	resp := ValidationError(err.(validator.ValidationErrors))
	if resp.Status != StatusError {
		t.Errorf("Status = %q, want %q", resp.Status, StatusError)
	}
	if resp.Error != "field Name is required" {
		t.Errorf("Error = %q, want %q", resp.Error, "field Name is required")
	}
}

func TestValidationError_OtherTagsFallBackToInvalid(t *testing.T) {
	type payload struct {
		Age int `validate:"min=1"`
	}

	err := validator.New().Struct(payload{Age: 0})
	if err == nil {
		t.Fatal("expected a validation error for age below minimum")
	}

	resp := ValidationError(err.(validator.ValidationErrors))
	if resp.Error != "field Age is invalid" {
		t.Errorf("Error = %q, want %q", resp.Error, "field Age is invalid")
	}
}
