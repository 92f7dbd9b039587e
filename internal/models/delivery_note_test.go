package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaborEntryExtension(t *testing.T) {
	entry := LaborEntry{
		Hours: 8,
		Rate:  Money{Amount: 35, Currency: "EUR"},
	}
	assert.Equal(t, 280.0, entry.Extension())

	// Absent rate values the entry at zero
	entry.Rate = Money{}
	assert.Equal(t, 0.0, entry.Extension())
}

func TestMaterialEntryExtension(t *testing.T) {
	entry := MaterialEntry{
		Quantity: 100,
		Price:    Money{Amount: 2.5, Currency: "EUR"},
	}
	assert.Equal(t, 250.0, entry.Extension())

	entry.Price = Money{}
	assert.Equal(t, 0.0, entry.Extension())
}

func TestComputeTotal(t *testing.T) {
	note := DeliveryNote{
		Labor: []LaborEntry{
			{Hours: 8, Rate: Money{Amount: 35, Currency: "EUR"}},
		},
		Materials: []MaterialEntry{
			{Quantity: 100, Price: Money{Amount: 2.5, Currency: "EUR"}},
		},
	}

	total := note.ComputeTotal()
	assert.Equal(t, 530.0, total.Amount)
	assert.Equal(t, "EUR", total.Currency)

	// Idempotent: recomputing on unchanged entries yields the same result
	again := note.ComputeTotal()
	assert.Equal(t, total, again)
}

func TestComputeTotalEmptyNote(t *testing.T) {
	note := DeliveryNote{}
	total := note.ComputeTotal()
	assert.Equal(t, 0.0, total.Amount)
	assert.Equal(t, "EUR", total.Currency)
}

func TestComputeTotalIgnoresEntryCurrencies(t *testing.T) {
	// Entries are summed as raw numbers under the default label, whatever
	// their own tags say
	note := DeliveryNote{
		Labor: []LaborEntry{
			{Hours: 1, Rate: Money{Amount: 100, Currency: "USD"}},
		},
		Materials: []MaterialEntry{
			{Quantity: 2, Price: Money{Amount: 50, Currency: "GBP"}},
		},
	}

	total := note.ComputeTotal()
	assert.Equal(t, 200.0, total.Amount)
	assert.Equal(t, "EUR", total.Currency)
}

func TestSequenceScopeFor(t *testing.T) {
	companyID := uint(7)
	assert.Equal(t, "company:7", SequenceScopeFor(3, &companyID))
	assert.Equal(t, "user:3", SequenceScopeFor(3, nil))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "DN-2025-0001", FormatNumber(2025, 1))
	assert.Equal(t, "DN-2025-0042", FormatNumber(2025, 42))
	// Sequences past 9999 widen instead of wrapping
	assert.Equal(t, "DN-2025-10000", FormatNumber(2025, 10000))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []DeliveryNoteStatus{StatusDraft, StatusSent, StatusSigned, StatusPaid, StatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, DeliveryNoteStatus("archived").Valid())
	assert.False(t, DeliveryNoteStatus("").Valid())
}

func TestIsSigned(t *testing.T) {
	note := DeliveryNote{Status: StatusDraft}
	assert.False(t, note.IsSigned())
	note.Status = StatusSigned
	assert.True(t, note.IsSigned())
}
