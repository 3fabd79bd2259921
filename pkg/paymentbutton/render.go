package paymentbutton

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"
	"io"
	"strconv"
)

const buttonTemplate = `<button type="button" class="payment-button payment-button--{{.Size}}" data-funding="{{.Funding}}" data-radius="{{.Radius}}" style="{{.Style}}">
{{- if .PrefixVisible}}<span class="payment-button__prefix">{{.PrefixText}}</span>{{end -}}
{{- if .LogoSrc}}<img class="payment-button__logo payment-button__logo--{{.LogoVariant}}" src="{{.LogoSrc}}" height="{{.ImageHeight}}" alt="{{.Wordmark}}">
{{- else}}<span class="payment-button__logo payment-button__logo--{{.LogoVariant}}" style="{{.WordmarkStyle}}">{{.Wordmark}}</span>{{end -}}
{{- if .SuffixVisible}}<span class="payment-button__suffix">{{.SuffixText}}</span>{{end -}}
</button>`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<ul class="payment-buttons">
{{- range .Items}}
<li id="{{.ID}}">{{.HTML}}</li>
{{- end}}
</ul>
</body>
</html>
`

var (
	buttonTmpl = template.Must(template.New("button").Parse(buttonTemplate))
	pageTmpl   = template.Must(template.New("page").Parse(pageTemplate))
)

type buttonView struct {
	Size          Size
	Funding       FundingSource
	Radius        string
	Style         template.CSS
	PrefixVisible bool
	PrefixText    string
	SuffixVisible bool
	SuffixText    string
	LogoSrc       template.URL
	LogoVariant   LogoVariant
	ImageHeight   int
	Wordmark      string
	WordmarkStyle template.CSS
}

// RenderHTML renders the button laid out in bounds as an HTML fragment.
func (b *Button) RenderHTML(bounds Bounds) (template.HTML, error) {
	layout := b.Layout(bounds)
	p := b.pres

	view := buttonView{
		Size:          b.cfg.Size,
		Funding:       b.cfg.FundingSource,
		Radius:        formatPx(layout.CornerRadius),
		PrefixVisible: p.PrefixVisible,
		PrefixText:    p.PrefixText,
		SuffixVisible: p.SuffixVisible,
		SuffixText:    p.SuffixText,
		LogoVariant:   p.LogoVariant,
		ImageHeight:   p.ImageHeight,
		Wordmark:      wordmark(b.cfg.FundingSource),
		Style: template.CSS(fmt.Sprintf(
			"width:%dpx;height:%dpx;padding:%dpx %dpx %dpx %dpx;border:0;border-radius:%spx;background:%s;color:%s;font-size:%dpx",
			bounds.Width, bounds.Height,
			p.Insets.Top, p.Insets.Right, p.Insets.Bottom, p.Insets.Left,
			formatPx(layout.CornerRadius), p.Background, p.TextColor, p.FontSize,
		)),
		WordmarkStyle: template.CSS(fmt.Sprintf("font-size:%dpx;font-weight:bold", p.ImageHeight)),
	}

	if b.logo != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, b.logo); err != nil {
			return "", fmt.Errorf("encode logo: %w", err)
		}
		view.LogoSrc = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
	}

	var out bytes.Buffer
	if err := buttonTmpl.Execute(&out, view); err != nil {
		return "", fmt.Errorf("render button: %w", err)
	}
	return template.HTML(out.String()), nil
}

// Preview is one button on a preview page.
type Preview struct {
	ID     string
	Button *Button
	Bounds Bounds
}

type pageItem struct {
	ID   string
	HTML template.HTML
}

// WritePreviewPage renders every preview into a standalone HTML document.
func WritePreviewPage(w io.Writer, title string, previews []Preview) error {
	items := make([]pageItem, 0, len(previews))
	for _, p := range previews {
		if p.Button == nil {
			continue
		}
		html, err := p.Button.RenderHTML(p.Bounds)
		if err != nil {
			return fmt.Errorf("button %q: %w", p.ID, err)
		}
		items = append(items, pageItem{ID: p.ID, HTML: html})
	}
	return pageTmpl.Execute(w, struct {
		Title string
		Items []pageItem
	}{Title: title, Items: items})
}

func wordmark(f FundingSource) string {
	if f == FundingCredit {
		return "PayPal Credit"
	}
	return "PayPal"
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
