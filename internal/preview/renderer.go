package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"comptoir/internal/domain"
)

const documentHTMLTemplate = `<!doctype html>
<html lang="fr">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}} N° {{.Doc.ID}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      color: #1a1f36;
      background: #f7f9fc;
    }
    .document-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header-left h1 { margin: 0; font-size: 24px; font-weight: 700; }
    .header-right { text-align: right; font-size: 13px; color: #697386; line-height: 1.5; }
    .header-right strong { color: #1a1f36; font-size: 15px; }
    .meta-grid { display: flex; justify-content: space-between; margin-bottom: 40px; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value { font-size: 14px; line-height: 1.5; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
    }
    td { padding: 14px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; }
    .td-right { text-align: right; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row { display: flex; justify-content: space-between; width: 280px; padding: 6px 0; font-size: 14px; }
    .total-label { color: #697386; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
    }
    .footer {
      margin-top: 60px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 20px;
      line-height: 1.6;
    }
  </style>
</head>
<body>
  <div class="document-card">
    <div class="header">
      <div class="header-left">
        <h1>{{.Title}}</h1>
        <div class="label" style="margin-top: 12px;">Numéro</div>
        <div class="value">{{.Doc.ID}}</div>
      </div>
      <div class="header-right">
        <strong>{{.Issuer.Name}}</strong><br>
        {{.Issuer.Address}}<br>
        {{.Issuer.Phone}} · {{.Issuer.Email}}<br>
        MF: {{.Issuer.FiscalNumber}}
      </div>
    </div>

    <div class="meta-grid">
      <div class="col">
        <div class="label">Client</div>
        <div class="value">
          <strong>{{.Customer.Name}}</strong><br>
          {{if .Customer.Address}}{{.Customer.Address}}<br>{{end}}
          {{if .Customer.FiscalNumber}}MF: {{.Customer.FiscalNumber}}{{end}}
        </div>
      </div>
      <div class="col" style="flex: 0 0 200px;">
        <div class="label">Date</div>
        <div class="value">{{formatDate .Doc.Date}}</div>
        {{if .PaymentLabel}}
        <div class="label" style="margin-top: 16px;">Mode de paiement</div>
        <div class="value">{{.PaymentLabel}}</div>
        {{end}}
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Désignation</th>
          <th class="td-right">Qté</th>
          <th class="td-right">P.U. HT</th>
          <th class="td-right">Montant HT</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Name}}</td>
          <td class="td-right">{{.Quantity}}</td>
          <td class="td-right">{{formatMoney .Price}}</td>
          <td class="td-right" style="font-weight: 500;">{{formatMoney .LineTotal}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Total HT</span>
        <span>{{formatMoney .Doc.Subtotal}}</span>
      </div>
      {{if .HasDiscount}}
      <div class="total-row">
        <span class="total-label">Remise ({{formatRate .Doc.DiscountPercent}}%)</span>
        <span>-{{formatMoney .Doc.DiscountAmount}}</span>
      </div>
      {{end}}
      {{if .Doc.UseVAT}}
      <div class="total-row">
        <span class="total-label">TVA ({{formatRate .Doc.VATRate}}%)</span>
        <span>{{formatMoney .Doc.VATAmount}}</span>
      </div>
      {{end}}
      {{if .HasStampDuty}}
      <div class="total-row">
        <span class="total-label">Timbre fiscal</span>
        <span>{{formatMoney .Doc.StampDuty}}</span>
      </div>
      {{end}}
      <div class="total-row total-final">
        <span>Total TTC</span>
        <span>{{formatMoney .Doc.Total}}</span>
      </div>
    </div>

    <div class="footer">
      {{if .ShowBankDetails}}
      Règlement par virement · {{.Issuer.BankName}} · RIB {{.Issuer.BankRIB}}<br>
      {{end}}
      {{.Issuer.Name}} · {{.Issuer.Address}} · MF: {{.Issuer.FiscalNumber}}
    </div>
  </div>
</body>
</html>
`

// Issuer holds the fixed company block printed on every document.
type Issuer struct {
	Name         string
	Address      string
	Phone        string
	Email        string
	FiscalNumber string
	BankName     string
	BankRIB      string
}

var titlesByType = map[domain.DocType]string{
	domain.DocTypeInvoice:      "Facture",
	domain.DocTypeQuote:        "Devis",
	domain.DocTypeCreditNote:   "Avoir",
	domain.DocTypeDeliveryNote: "Bon de livraison",
}

var paymentLabels = map[domain.PaymentType]string{
	domain.PaymentVirement: "Virement bancaire",
	domain.PaymentEspece:   "Espèces",
	domain.PaymentCheque:   "Chèque",
	domain.PaymentTraite:   "Traite",
}

type HTMLRenderer struct {
	issuer Issuer
	tpl    *template.Template
}

func NewHTMLRenderer(issuer Issuer) *HTMLRenderer {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
		"formatRate":  formatRate,
	}
	return &HTMLRenderer{
		issuer: issuer,
		tpl:    template.Must(template.New("document").Funcs(funcs).Parse(documentHTMLTemplate)),
	}
}

type itemView struct {
	Name      string
	Quantity  int
	Price     decimal.Decimal
	LineTotal decimal.Decimal
}

type renderInput struct {
	Title           string
	Doc             domain.Document
	Customer        domain.Customer
	Items           []itemView
	Issuer          Issuer
	PaymentLabel    string
	HasDiscount     bool
	HasStampDuty    bool
	ShowBankDetails bool
}

// Render produces the print layout for a persisted document. Amounts
// come straight from the stored header, which already carries the
// recomputed breakdown.
func (r *HTMLRenderer) Render(doc domain.Document, customer domain.Customer, items []domain.DocumentItem) ([]byte, error) {
	title, ok := titlesByType[doc.Type]
	if !ok {
		return nil, fmt.Errorf("no preview layout for document type %q", doc.Type)
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.LineTotal(),
		})
	}

	input := renderInput{
		Title:           title,
		Doc:             doc,
		Customer:        customer,
		Items:           views,
		Issuer:          r.issuer,
		PaymentLabel:    paymentLabels[doc.PaymentType],
		HasDiscount:     doc.DiscountAmount.IsPositive(),
		HasStampDuty:    doc.StampDuty.IsPositive(),
		ShowBankDetails: doc.PaymentType == domain.PaymentVirement && r.issuer.BankRIB != "",
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return nil, fmt.Errorf("rendering %s preview: %w", doc.Type, err)
	}
	return buf.Bytes(), nil
}

func formatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(3) + " TND"
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("02/01/2006")
}

func formatRate(rate decimal.Decimal) string {
	return rate.String()
}
