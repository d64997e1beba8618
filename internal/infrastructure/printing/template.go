package printing

// invoiceTemplateHTML is the A4 invoice layout. Monetary values arrive
// pre-formatted; the template only handles structure and styling.
const invoiceTemplateHTML = `<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="UTF-8">
<title>Fatura {{.InvoiceNumber}}</title>
<style>
  body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 0; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #2c5282; padding-bottom: 12px; margin-bottom: 20px; }
  .clinic-name { font-size: 18px; font-weight: bold; color: #2c5282; }
  .clinic-meta { font-size: 10px; color: #555; margin-top: 4px; }
  .invoice-title { text-align: right; }
  .invoice-title h1 { font-size: 16px; margin: 0; }
  .invoice-title .number { font-size: 14px; font-weight: bold; }
  .meta-table { margin-bottom: 20px; }
  .meta-table td { padding: 2px 12px 2px 0; }
  .meta-label { color: #555; }
  table.lines { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
  table.lines th { background: #2c5282; color: #fff; text-align: left; padding: 6px 8px; font-size: 11px; }
  table.lines td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  table.lines td.num, table.lines th.num { text-align: right; }
  .totals { width: 45%; margin-left: auto; border-collapse: collapse; }
  .totals td { padding: 4px 8px; }
  .totals td.num { text-align: right; }
  .totals tr.grand td { border-top: 2px solid #2c5282; font-weight: bold; font-size: 13px; }
  .totals tr.sgk td { color: #276749; }
  .footer { margin-top: 32px; font-size: 10px; color: #777; border-top: 1px solid #ddd; padding-top: 8px; }
  .badge { display: inline-block; padding: 2px 8px; border-radius: 3px; font-size: 10px; background: #edf2f7; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="clinic-name">{{.ClinicName}}</div>
      <div class="clinic-meta">
        {{if .ClinicAddress}}{{.ClinicAddress}}<br>{{end}}
        {{if .ClinicPhone}}Tel: {{.ClinicPhone}}<br>{{end}}
        {{if .TaxNumber}}VKN: {{.TaxNumber}}{{if .TaxOffice}} / {{.TaxOffice}}{{end}}{{end}}
      </div>
    </div>
    <div class="invoice-title">
      <h1>FATURA</h1>
      <div class="number">{{.InvoiceNumber}}</div>
      {{if .EFaturaUUID}}<div class="badge">e-Fatura: {{.EFaturaUUID}}</div>{{end}}
    </div>
  </div>

  <table class="meta-table">
    <tr><td class="meta-label">Hasta</td><td>{{.PatientName}}</td></tr>
    <tr><td class="meta-label">T.C. Kimlik No</td><td>{{.PatientTCKN}}</td></tr>
    <tr><td class="meta-label">Fatura Tarihi</td><td>{{.IssuedAt}}</td></tr>
    <tr><td class="meta-label">Vade Tarihi</td><td>{{.DueAt}}</td></tr>
  </table>

  <table class="lines">
    <thead>
      <tr>
        <th>Açıklama</th>
        <th class="num">Adet</th>
        <th class="num">Birim Fiyat</th>
        <th class="num">Tutar</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{.UnitPrice}}</td>
        <td class="num">{{.NetTotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Ara Toplam</td><td class="num">{{.Subtotal}}</td></tr>
    <tr><td>İndirim</td><td class="num">-{{.DiscountTotal}}</td></tr>
    <tr><td>KDV</td><td class="num">{{.TaxAmount}}</td></tr>
    <tr class="grand"><td>Genel Toplam</td><td class="num">{{.GrandTotal}}</td></tr>
    {{if .HasSGKPayment}}
    <tr class="sgk"><td>SGK Katkısı</td><td class="num">-{{.InsurerPayment}}</td></tr>
    {{end}}
    <tr><td>Hasta Ödemesi</td><td class="num">{{.PatientPayment}}</td></tr>
    <tr><td>Ödenen</td><td class="num">{{.PaidAmount}}</td></tr>
  </table>

  <div class="footer">
    Bu belge elektronik ortamda oluşturulmuştur.
  </div>
</body>
</html>`
