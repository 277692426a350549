package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/models"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
h1 { font-size: 22px; } table { border-collapse: collapse; width: 100%; }
td { padding: 6px 0; } td.amount { text-align: right; }
tr.total td { border-top: 2px solid #222; font-weight: bold; }
.muted { color: #888; font-size: 12px; }
</style></head>
<body>
<h1>Payment Receipt</h1>
<p class="muted">{{.Reference}} · {{.IssuedAt}}</p>
<p>{{.CustomerName}}<br>{{.CourtName}} · {{.SessionDate}} · {{.SessionTime}}</p>
<table>
<tr><td>Court subtotal</td><td class="amount">{{printf "%.0f" .Subtotal}}</td></tr>
<tr><td>Paid online ({{.PaymentMethod}})</td><td class="amount">{{printf "%.0f" .OnlinePaid}}</td></tr>
{{if .VenuePaid}}<tr><td>Paid at venue ({{.VenueMethod}})</td><td class="amount">{{printf "%.0f" .VenuePaid}}</td></tr>{{end}}
<tr class="total"><td>Balance due at venue</td><td class="amount">{{printf "%.0f" .RemainingBalance}}</td></tr>
</table>
</body>
</html>`

type receiptData struct {
	Reference        string
	IssuedAt         string
	CustomerName     string
	CourtName        string
	SessionDate      string
	SessionTime      string
	Subtotal         float64
	OnlinePaid       float64
	PaymentMethod    string
	VenuePaid        float64
	VenueMethod      string
	RemainingBalance float64
}

// GenerateAndSendReceipt renders the payment receipt to PDF, uploads it and
// emails the customer a download link. Runs fire-and-forget after a booking
// turns PAID; any failure here is logged and leaves the booking untouched.
func GenerateAndSendReceipt(b *models.Booking) {
	html, err := renderReceiptHTML(b)
	if err != nil {
		log.Printf("🔥 Failed to render receipt HTML for %s: %v", b.Reference, err)
		return
	}

	pdfBytes, err := renderPDF(html)
	if err != nil {
		log.Printf("🔥 Failed to render receipt PDF for %s: %v", b.Reference, err)
		return
	}

	receiptURL, err := uploadReceipt(pdfBytes, b.Reference)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for %s: %v", b.Reference, err)
		return
	}

	body := fmt.Sprintf("<h1>Your Receipt</h1><p>Thank you for your payment. Download your receipt here: <a href='%s'>Receipt %s</a></p>", receiptURL, b.Reference)
	SendEmail(b.CustomerName, b.CustomerEmail, "Payment Receipt - "+b.Reference, body)
	log.Printf("✅ Receipt generated and sent for booking %s", b.Reference)
}

func renderReceiptHTML(b *models.Booking) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", err
	}

	method := "online"
	if b.PaymentMethod != nil {
		method = *b.PaymentMethod
	}
	venueMethod := ""
	if b.VenuePaymentMethod != nil {
		venueMethod = *b.VenuePaymentMethod
	}

	data := receiptData{
		Reference:        b.Reference,
		IssuedAt:         time.Now().Format("2 January 2006 15:04"),
		CustomerName:     b.CustomerName,
		CourtName:        b.Court.Name,
		SessionDate:      b.Date.Format("Monday, 2 January 2006"),
		SessionTime:      b.StartTime.Format("15:04") + " – " + b.EndTime.Format("15:04"),
		Subtotal:         b.Subtotal,
		OnlinePaid:       b.OnlineCollected(),
		PaymentMethod:    method,
		VenuePaid:        b.VenueCollected(),
		VenueMethod:      venueMethod,
		RemainingBalance: b.RemainingBalance(),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func renderPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", reference, uuid.New().String()),
		Folder:       "padel_court_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
