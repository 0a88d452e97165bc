package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
)

func dollars(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

func signedPercent(v decimal.Decimal) string {
	if v.IsNegative() {
		return v.StringFixed(2) + "%"
	}
	return "+" + v.StringFixed(2) + "%"
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"dollars":       dollars,
	"signedPercent": signedPercent,
	"isSell": func(t entities.TransactionType) bool {
		return t == entities.TransactionTypeSell
	},
	"plClass": func(v decimal.Decimal) string {
		if v.IsNegative() {
			return "negative"
		}
		return "positive"
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Portfolio Report - {{.Portfolio.Name}}</title>
	<style>
		body { font-family: Arial, sans-serif; padding: 40px; color: #333; }
		h1 { color: #3861fb; margin-bottom: 5px; }
		h2 { color: #58667e; border-bottom: 2px solid #3861fb; padding-bottom: 10px; margin-top: 30px; }
		.subtitle { color: #58667e; margin-bottom: 30px; }
		.summary-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 20px; margin: 20px 0; }
		.summary-card { background: #f8f8f8; padding: 20px; border-radius: 10px; }
		.summary-label { font-size: 12px; color: #58667e; text-transform: uppercase; }
		.summary-value { font-size: 24px; font-weight: bold; margin-top: 5px; }
		table { width: 100%; border-collapse: collapse; margin-top: 15px; }
		th { background: #f8f8f8; padding: 12px; text-align: left; font-size: 12px; color: #58667e; text-transform: uppercase; }
		td { padding: 12px; border-bottom: 1px solid #eee; }
		.text-right { text-align: right; }
		.positive { color: #16c784; }
		.negative { color: #ea3943; }
		.footer { margin-top: 40px; text-align: center; color: #aaa; font-size: 12px; }
	</style>
</head>
<body>
	<h1>Portfolio Report</h1>
	<p class="subtitle">{{.Portfolio.Name}} | Generated: {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>

	<div class="summary-grid">
		<div class="summary-card">
			<div class="summary-label">Total Invested</div>
			<div class="summary-value">{{dollars .Summary.TotalInvested}}</div>
		</div>
		<div class="summary-card">
			<div class="summary-label">Current Value</div>
			<div class="summary-value">{{dollars .Summary.CurrentValue}}</div>
		</div>
		<div class="summary-card">
			<div class="summary-label">Total P&amp;L</div>
			<div class="summary-value {{plClass .Summary.TotalPL}}">
				{{dollars .Summary.TotalPL}} ({{signedPercent .Summary.TotalPLPercent}})
			</div>
		</div>
	</div>

	<h2>Holdings ({{len .Holdings}})</h2>
	<table>
		<thead>
			<tr>
				<th>Asset</th>
				<th class="text-right">Quantity</th>
				<th class="text-right">Buy Price</th>
				<th class="text-right">Current Price</th>
				<th class="text-right">Value</th>
				<th class="text-right">P&amp;L</th>
			</tr>
		</thead>
		<tbody>
			{{range .Holdings}}
			<tr>
				<td><strong>{{.Name}}</strong> <span style="color:#aaa">{{.Symbol}}</span></td>
				<td class="text-right">{{.Quantity}}</td>
				<td class="text-right">{{dollars .BuyPrice}}</td>
				<td class="text-right">{{dollars .CurrentPrice}}</td>
				<td class="text-right">{{dollars .CurrentValue}}</td>
				<td class="text-right {{plClass .ProfitLoss}}">
					{{dollars .ProfitLoss}}<br>
					<small>{{signedPercent .ProfitLossPercentage}}</small>
				</td>
			</tr>
			{{end}}
		</tbody>
	</table>

	{{if .Transactions}}
	<h2>Recent Transactions ({{len .Transactions}})</h2>
	<table>
		<thead>
			<tr>
				<th>Date</th>
				<th>Type</th>
				<th>Asset</th>
				<th class="text-right">Quantity</th>
				<th class="text-right">Price</th>
				<th class="text-right">Value</th>
				<th class="text-right">Realized P&amp;L</th>
			</tr>
		</thead>
		<tbody>
			{{range .Transactions}}
			<tr>
				<td>{{.TransactionDate.Format "2006-01-02"}}</td>
				<td>{{.Type}}</td>
				<td>{{.Name}} <span style="color:#aaa">{{.Symbol}}</span></td>
				<td class="text-right">{{.Quantity}}</td>
				<td class="text-right">{{dollars .Price}}</td>
				<td class="text-right">{{dollars .TotalValue}}</td>
				<td class="text-right {{plClass .RealizedPL}}">{{if isSell .Type}}{{dollars .RealizedPL}}{{else}}-{{end}}</td>
			</tr>
			{{end}}
		</tbody>
	</table>
	{{end}}

	<div class="footer">
		<p>Coinfolio | Report ID: {{.Portfolio.ID}}</p>
	</div>
</body>
</html>`))

// RenderHTML renders a report as a standalone HTML document, suitable
// for client-side PDF conversion.
func (s *Service) RenderHTML(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
