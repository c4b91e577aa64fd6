package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["hello"] != "world" {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestWriteErrorTypedCode(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "Nasi Goreng is out of stock").
		WithDetails(map[string]any{"item_id": "abc", "available": 0})

	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if decodeErr := json.NewDecoder(rec.Body).Decode(&envelope); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	if envelope.Error.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "Nasi Goreng is out of stock" {
		t.Fatalf("unexpected message %s", envelope.Error.Message)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected details to be forwarded")
	}
}

func TestWriteErrorUnknownBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Message == "boom" {
		t.Fatal("internal error message should not leak")
	}
}
