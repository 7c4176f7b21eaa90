// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.Store.CompanyName,
			Address: s.config.Store.CompanyAddress,
			Phone:   s.config.Store.CompanyPhone,
			Email:   s.config.Store.CompanyEmail,
			Website: s.config.Store.CompanyWebsite,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		// amounts are stored in poisha; render as taka
		"taka": func(amount int64) string {
			return fmt.Sprintf("Tk %.2f", float64(amount)/100)
		},
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	Order         *order.Order `json:"order"`
	Company       CompanyInfo  `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .invoice-info {
            text-align: right;
            flex: 1;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .invoice-details {
            margin-bottom: 30px;
        }
        .invoice-details table {
            width: 100%;
        }
        .invoice-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .invoice-details .label {
            font-weight: bold;
            width: 150px;
        }
        .customer-info {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 90px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 110px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
        }
        .status-paid {
            background-color: #dcfce7;
            color: #166534;
        }
        .status-pending {
            background-color: #fef3c7;
            color: #92400e;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Phone: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
            <p>{{.Company.Website}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
        </div>
    </div>

    <div class="invoice-details">
        <table>
            <tr>
                <td class="label">Order Date:</td>
                <td>{{.Order.CreatedAt.Format "January 2, 2006"}}</td>
                <td class="label" style="text-align: right;">Payment Status:</td>
                <td style="text-align: right;">
                    <span class="status-badge {{if eq .Order.PaymentStatus "PAID"}}status-paid{{else}}status-pending{{end}}">
                        {{.Order.PaymentStatus}}
                    </span>
                </td>
            </tr>
            <tr>
                <td class="label">Order Status:</td>
                <td>{{.Order.Status}}</td>
                <td class="label" style="text-align: right;">Delivery Zone:</td>
                <td style="text-align: right;">{{.Order.DeliveryZone}}</td>
            </tr>
        </table>
    </div>

    <div class="customer-info">
        <div class="section-title">Deliver To:</div>
        <p><strong>{{.Order.CustomerName}}</strong></p>
        <p>{{.Order.CustomerAddress}}</p>
        <p>Mobile: {{.Order.CustomerMobile}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>SKU</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>
                    <strong>{{.ProductName}}</strong>
                    {{if .VariantName}}<br><small>{{.VariantName}}</small>{{end}}
                </td>
                <td>{{.SKU}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{taka .UnitPrice}}</td>
                <td class="total-col">{{taka .TotalPrice}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{taka .Order.SubtotalAmount}}</td>
            </tr>
            <tr>
                <td class="label">Delivery:</td>
                <td class="amount">{{taka .Order.DeliveryAmount}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{taka .Order.TotalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with us!</p>
        <p>If you have any questions about this invoice, please contact us at {{.Company.Email}} or {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
