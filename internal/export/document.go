package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mmynk/rentmate/internal/calculator"
	"github.com/mmynk/rentmate/internal/models"
)

// documentTmpl is the printable settlement document for one closed month.
// It is styled for print-to-PDF from a browser.
const documentTmpl = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Rent Calculation - {{.Record.Month}} {{.Record.Year}}</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f8fafc; color: #1e293b; }
    .container { max-width: 800px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden; }
    .header { background: linear-gradient(135deg, #3b82f6, #1d4ed8); color: white; padding: 30px; text-align: center; }
    .header h1 { margin: 0; font-size: 28px; }
    .content { padding: 30px; }
    .summary { background: #f1f5f9; border-radius: 8px; padding: 20px; margin-bottom: 30px; display: flex; justify-content: space-around; }
    .summary-item { text-align: center; }
    .summary-item .label { font-size: 14px; color: #64748b; }
    .summary-item .value { font-size: 24px; font-weight: 700; }
    .roommate-card { border: 1px solid #e2e8f0; border-radius: 8px; margin-bottom: 20px; overflow: hidden; }
    .roommate-header { background: #f8fafc; padding: 15px 20px; border-bottom: 1px solid #e2e8f0; font-weight: 600; }
    .roommate-details { padding: 20px; }
    .row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #f1f5f9; }
    .row:last-child { border-bottom: none; border-top: 2px solid #e2e8f0; font-weight: 600; margin-top: 10px; padding-top: 15px; }
    .deduction { color: #2563eb; }
    .positive { color: #059669; }
    .negative { color: #dc2626; }
    .footer { background: #f8fafc; padding: 20px; text-align: center; color: #64748b; font-size: 14px; }
    @media print { body { background-color: white; } }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>🏠 {{.Record.Room.Name}}</h1>
      <p>Monthly Rent Calculation - {{.Record.Month}} {{.Record.Year}}</p>
    </div>
    <div class="content">
      <div class="summary">
        <div class="summary-item">
          <div class="label">Total Monthly Rent</div>
          <div class="value">₹{{money .Record.Room.MonthlyRent}}</div>
        </div>
        <div class="summary-item">
          <div class="label">Total Roommates</div>
          <div class="value">{{len .Record.Room.Roommates}}</div>
        </div>
        <div class="summary-item">
          <div class="label">Rent Per Person</div>
          <div class="value">₹{{money .PerPerson}}</div>
        </div>
      </div>
      {{range .Record.Calculations}}
      <div class="roommate-card">
        <div class="roommate-header">{{.Name}}</div>
        <div class="roommate-details">
          <div class="row"><span>Base Rent</span><span>₹{{money .BaseRent}}</span></div>
          {{if gt .WaterBill 0.0}}<div class="row"><span>💧 Water Bill Paid</span><span class="deduction">-₹{{money .WaterBill}}</span></div>{{end}}
          {{if gt .EBBill 0.0}}<div class="row"><span>⚡ EB Bill Paid</span><span class="deduction">-₹{{money .EBBill}}</span></div>{{end}}
          {{if gt .OtherBill 0.0}}<div class="row"><span>🧾 Other Bill Paid</span><span class="deduction">-₹{{money .OtherBill}}</span></div>{{end}}
          <div class="row"><span>💳 Final Amount</span><span class="{{if ge .FinalAmount 0.0}}positive{{else}}negative{{end}}">₹{{money .FinalAmount}}</span></div>
        </div>
      </div>
      {{end}}
    </div>
    <div class="footer">
      <p>Generated on {{.GeneratedOn}}</p>
      <p>📱 Rentmate</p>
    </div>
  </div>
</body>
</html>
`

var document = template.Must(
	template.New("document").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).Parse(documentTmpl),
)

// HTMLDocument renders the printable settlement document for one record.
func HTMLDocument(rec models.MonthlyRecord) (string, error) {
	data := struct {
		Record      models.MonthlyRecord
		PerPerson   float64
		GeneratedOn string
	}{
		Record:      rec,
		PerPerson:   calculator.BaseRentPerPerson(&rec.Room),
		GeneratedOn: time.Now().Format("2 January 2006, 15:04"),
	}

	var b strings.Builder
	if err := document.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return b.String(), nil
}
