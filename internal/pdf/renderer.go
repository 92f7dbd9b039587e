// Package pdf renders delivery notes as PDF documents. Rendering is
// deterministic: the same note state always produces the same bytes, so a
// re-render after a failed upload replaces the lost document exactly.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"example.com/backstage/services/deliverynote/internal/models"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

// Renderer produces PDF documents for delivery notes
type Renderer struct{}

// NewRenderer creates a Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PDF document for a note. The note must carry its
// preloaded relations; absent optional fields render as blanks.
func (r *Renderer) Render(note *models.DeliveryNote) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	// Pin the embedded timestamp to the note's creation time so rendering
	// the same state twice yields identical bytes.
	doc.SetCreationDate(note.CreatedAt.UTC())
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "DELIVERY NOTE", "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, lineHeight, "Number: "+note.Number, "", 1, "L", false, 0, "")
	doc.CellFormat(0, lineHeight, "Date: "+note.Date.UTC().Format("2006-01-02"), "", 1, "L", false, 0, "")
	doc.Ln(4)

	r.writeBlock(doc, "FROM", providerLines(note))
	r.writeBlock(doc, "TO", clientLines(note.Client))
	r.writeBlock(doc, "PROJECT", projectLines(note.Project))

	if len(note.Labor) > 0 {
		r.writeLaborTable(doc, note.Labor)
	}
	if len(note.Materials) > 0 {
		r.writeMaterialTable(doc, note.Materials)
	}

	if note.Notes != "" {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, lineHeight, "Notes", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, note.Notes, "", "L", false)
		doc.Ln(4)
	}

	doc.SetFont("Helvetica", "B", 13)
	total := fmt.Sprintf("TOTAL: %s %s", formatNumber(note.TotalAmount.Amount), note.TotalAmount.Currency)
	doc.CellFormat(0, 8, total, "", 1, "R", false, 0, "")
	doc.Ln(6)

	r.writeSignatureBlock(doc, note)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeBlock(doc *gofpdf.Fpdf, title string, lines []string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, lineHeight, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		doc.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	doc.Ln(4)
}

func (r *Renderer) writeLaborTable(doc *gofpdf.Fpdf, entries []models.LaborEntry) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, lineHeight, "Labor", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(55, lineHeight, "Person", "1", 0, "L", false, 0, "")
	doc.CellFormat(15, lineHeight, "Hours", "1", 0, "R", false, 0, "")
	doc.CellFormat(25, lineHeight, "Rate", "1", 0, "R", false, 0, "")
	doc.CellFormat(25, lineHeight, "Date", "1", 0, "L", false, 0, "")
	doc.CellFormat(60, lineHeight, "Description", "1", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	var subtotal float64
	currency := models.DefaultCurrency
	if entries[0].Rate.Currency != "" {
		currency = entries[0].Rate.Currency
	}
	for _, e := range entries {
		person := e.Person.Name
		if e.Person.Role != "" {
			person = fmt.Sprintf("%s (%s)", e.Person.Name, e.Person.Role)
		}
		doc.CellFormat(55, lineHeight, person, "1", 0, "L", false, 0, "")
		doc.CellFormat(15, lineHeight, formatNumber(e.Hours), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, lineHeight, formatMoney(e.Rate), "1", 0, "R", false, 0, "")
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.UTC().Format("2006-01-02")
		}
		doc.CellFormat(25, lineHeight, date, "1", 0, "L", false, 0, "")
		doc.CellFormat(60, lineHeight, e.Description, "1", 1, "L", false, 0, "")
		subtotal += e.Extension()
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(0, lineHeight, fmt.Sprintf("Labor Total: %s %s", formatNumber(subtotal), currency), "", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) writeMaterialTable(doc *gofpdf.Fpdf, entries []models.MaterialEntry) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, lineHeight, "Materials", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(55, lineHeight, "Material", "1", 0, "L", false, 0, "")
	doc.CellFormat(20, lineHeight, "Quantity", "1", 0, "R", false, 0, "")
	doc.CellFormat(20, lineHeight, "Unit", "1", 0, "L", false, 0, "")
	doc.CellFormat(35, lineHeight, "Unit Price", "1", 0, "R", false, 0, "")
	doc.CellFormat(50, lineHeight, "Amount", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	var subtotal float64
	currency := models.DefaultCurrency
	if entries[0].Price.Currency != "" {
		currency = entries[0].Price.Currency
	}
	for _, e := range entries {
		doc.CellFormat(55, lineHeight, e.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, lineHeight, formatNumber(e.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(20, lineHeight, e.Unit, "1", 0, "L", false, 0, "")
		doc.CellFormat(35, lineHeight, formatMoney(e.Price), "1", 0, "R", false, 0, "")
		doc.CellFormat(50, lineHeight, formatMoney(models.Money{Amount: e.Extension(), Currency: e.Price.Currency}), "1", 1, "R", false, 0, "")
		subtotal += e.Extension()
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(0, lineHeight, fmt.Sprintf("Materials Total: %s %s", formatNumber(subtotal), currency), "", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) writeSignatureBlock(doc *gofpdf.Fpdf, note *models.DeliveryNote) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, lineHeight, "Signature", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)

	if note.SignatureImage != "" {
		doc.CellFormat(0, 5, "Signed digitally", "", 1, "L", false, 0, "")
		if note.SignedBy != "" {
			doc.CellFormat(0, 5, "Signed by: "+note.SignedBy, "", 1, "L", false, 0, "")
		}
		if note.SignedAt != nil {
			doc.CellFormat(0, 5, "Signed at: "+note.SignedAt.UTC().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
		}
		return
	}

	doc.Ln(10)
	doc.CellFormat(80, 5, "_________________________", "", 1, "L", false, 0, "")
	doc.CellFormat(80, 5, "Name and signature", "", 1, "L", false, 0, "")
}

// providerLines builds the FROM block. Company notes show the company's
// legal identity; personal notes fall back to the user's personal details.
func providerLines(note *models.DeliveryNote) []string {
	if note.Company != nil {
		c := note.Company
		name := c.LegalName
		if name == "" {
			name = c.Name
		}
		lines := []string{name}
		if c.TaxID != "" {
			lines = append(lines, "Tax ID: "+c.TaxID)
		}
		if addr := joinAddress(c.Address); addr != "" {
			lines = append(lines, addr)
		}
		if c.Email != "" {
			lines = append(lines, c.Email)
		}
		if c.Phone != "" {
			lines = append(lines, c.Phone)
		}
		return lines
	}

	if note.User == nil {
		return []string{""}
	}
	u := note.User
	name := u.PersonalInfo.FirstName + " " + u.PersonalInfo.LastName
	if u.PersonalInfo.FirstName == "" && u.PersonalInfo.LastName == "" {
		name = u.Name
	}
	lines := []string{name}
	if u.PersonalInfo.Address != "" {
		lines = append(lines, u.PersonalInfo.Address)
	}
	if loc := joinNonEmpty(", ", u.PersonalInfo.PostalCode, u.PersonalInfo.City, u.PersonalInfo.Country); loc != "" {
		lines = append(lines, loc)
	}
	if u.Email != "" {
		lines = append(lines, u.Email)
	}
	if u.PersonalInfo.Phone != "" {
		lines = append(lines, u.PersonalInfo.Phone)
	}
	return lines
}

func clientLines(client *models.Client) []string {
	if client == nil {
		return []string{""}
	}
	lines := []string{client.Name}
	if client.TaxID != "" {
		lines = append(lines, "Tax ID: "+client.TaxID)
	}
	if addr := joinAddress(client.Address); addr != "" {
		lines = append(lines, addr)
	}
	if client.Contact.Name != "" {
		lines = append(lines, "Attn: "+client.Contact.Name)
	}
	if client.Email != "" {
		lines = append(lines, client.Email)
	}
	if client.Phone != "" {
		lines = append(lines, client.Phone)
	}
	return lines
}

func projectLines(project *models.Project) []string {
	if project == nil {
		return []string{""}
	}
	lines := []string{project.Name}
	if project.Description != "" {
		lines = append(lines, project.Description)
	}
	return lines
}

func joinAddress(a models.Address) string {
	return joinNonEmpty(", ", a.Street, a.PostalCode, a.City, a.Country)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

// formatNumber renders a monetary or quantity value without a fixed
// precision: whole values print without decimals, fractional values keep
// their shortest exact representation.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMoney renders an amount with its currency label, falling back to
// the default currency when the entry carries none
func formatMoney(m models.Money) string {
	currency := m.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return formatNumber(m.Amount) + " " + currency
}
