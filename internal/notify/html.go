package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/Glx28/billigst-mat/internal/model"
	"github.com/Glx28/billigst-mat/internal/pipeline"
)

// Color palette shared by every section of the HTML digest.
const (
	colorBG          = "#f4f6f8"
	colorCard        = "#ffffff"
	colorAccent      = "#2d7d46"
	colorAccentLight = "#e8f5e9"
	colorText        = "#333333"
	colorMuted       = "#888888"
	colorBorder      = "#e0e0e0"
	colorLink        = "#1a73e8"
	colorWarnBG      = "#fff8e1"
	colorWarnBorder  = "#ffca28"
)

type heroCard struct {
	GroupDisplay string
	Emoji        string
	Name         string
	URL          string
	Image        string
	UnitPrice    string
	Price        string
	Store        string
}

type tableRow struct {
	Rank       int
	Background string
	SourceTag  string
	Name       string
	URL        string
	Image      string
	AltURLs    []string
	ValidUntil string
	PromoBadge string
	UnitPrice  string
	PriceColor string
	Bold       bool
	Price      string
	Store      string
}

type groupSection struct {
	DisplayName string
	UnitLabel   string
	Rows        []tableRow
}

type promoRow struct {
	Background string
	Labels     string
	Name       string
	URL        string
	UnitPrice  string
	Price      string
	Store      string
}

type triggerRow struct {
	Type    string
	Message string
	Badge   string
}

type digestData struct {
	HeroRows [][]heroCard
	Groups   []groupSection
	Promos   []promoRow
	Triggers []triggerRow

	BG          string
	Card        string
	Accent      string
	AccentLight string
	Text        string
	Muted       string
	Border      string
	Link        string
	WarnBG      string
	WarnBorder  string
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"></head><body style="margin:0;padding:0">
<div style="font-family:'Segoe UI',Roboto,Helvetica,Arial,sans-serif;width:100%;max-width:900px;margin:0 auto;padding:0;background:{{.BG}};color:{{.Text}}">
{{if .HeroRows}}<div style="background:{{.Accent}};padding:24px 2px 8px;border-radius:0 0 12px 12px">
<h1 style="color:#fff;margin:0 0 4px;font-size:22px;text-align:center">🛒 Matpris-oppdatering</h1>
<p style="color:rgba(255,255,255,0.8);margin:0 0 16px;font-size:13px;text-align:center">Beste pris per kategori</p>
<table cellpadding="0" cellspacing="0" border="0" style="width:100%;margin:0 auto;padding-bottom:8px">
{{range .HeroRows}}<tr>{{range .}}<td style="width:50%;padding:3px;vertical-align:top">
<div style="background:{{$.Card}};border-radius:6px;padding:4px;box-shadow:0 1px 2px rgba(0,0,0,0.08)">
<table cellpadding="0" cellspacing="0" border="0" style="width:100%"><tr>
<td style="width:90px;vertical-align:middle;padding-right:6px">{{if .Image}}<img src="{{.Image}}" alt="" style="width:90px;height:90px;object-fit:contain;border-radius:5px;display:block">{{else}}<div style="font-size:48px;line-height:90px;width:90px;height:90px;text-align:center">{{.Emoji}}</div>{{end}}</td>
<td style="vertical-align:middle;padding:2px">
<div style="font-size:11px;font-weight:600;line-height:1.3;margin-bottom:3px;word-wrap:break-word">{{if .URL}}<a href="{{.URL}}" style="color:{{$.Link}};text-decoration:none">{{.Name}}</a>{{else}}{{.Name}}{{end}}</div>
<div style="font-size:8px;color:{{$.Muted}};line-height:1.3"><span style="font-weight:700;color:{{$.Accent}}">{{.UnitPrice}}</span> · {{.Price}} kr @ {{.Store}}</div>
</td></tr></table></div></td>{{end}}</tr>
{{end}}</table></div>{{end}}
<div style="margin:16px 8px 8px"><h2 style="font-size:17px;margin:0;color:{{.Text}}">📊 Full oversikt per kategori</h2></div>
{{range .Groups}}{{if .Rows}}<div style="margin:0 8px 12px;overflow-x:auto">
<h3 style="margin:0 0 6px;font-size:15px">{{.DisplayName}}<span style="font-weight:400;color:{{$.Muted}};font-size:12px"> — sortert etter {{.UnitLabel}}</span></h3>
<table style="width:100%;min-width:500px;border-collapse:collapse;font-size:12px;border:1px solid {{$.Border}};border-radius:6px;overflow:hidden">
<tr style="background:{{$.AccentLight}}">
<th style="padding:4px;text-align:left;border-bottom:1px solid {{$.Border}};font-size:11px">#</th>
<th style="padding:4px;text-align:left;border-bottom:1px solid {{$.Border}}"></th>
<th style="padding:4px;text-align:left;border-bottom:1px solid {{$.Border}};font-size:11px">Produkt</th>
<th style="padding:4px;text-align:right;border-bottom:1px solid {{$.Border}};font-size:11px">Enhetspris</th>
<th style="padding:4px;text-align:right;border-bottom:1px solid {{$.Border}};font-size:11px">Pris</th>
<th style="padding:4px;text-align:left;border-bottom:1px solid {{$.Border}};font-size:11px">Butikk</th>
</tr>
{{range .Rows}}<tr style="background:{{.Background}};border-bottom:1px solid {{$.Border}}">
<td style="padding:3px 4px;text-align:center;color:{{$.Muted}};font-size:11px">{{.Rank}}</td>
<td style="padding:3px 4px">{{if .Image}}<img src="{{.Image}}" alt="" style="width:32px;height:32px;object-fit:contain;border-radius:3px">{{end}}</td>
<td style="padding:3px 4px;font-size:11px">{{.SourceTag}} {{if .URL}}<a href="{{.URL}}" style="color:{{$.Link}};text-decoration:none">{{.Name}}</a>{{else}}{{.Name}}{{end}}{{range .AltURLs}} · <a href="{{.}}" style="color:{{$.Muted}};text-decoration:none;font-size:11px">🔗</a>{{end}}{{if .ValidUntil}}<br><span style="color:{{$.Muted}};font-size:11px">Til {{.ValidUntil}}</span>{{end}}{{if .PromoBadge}}<br><span style="background:#ffecb3;border-radius:3px;padding:1px 4px;font-size:10px;font-weight:600">🏷️ {{.PromoBadge}}</span>{{end}}</td>
<td style="padding:3px 4px;text-align:right;font-weight:{{if .Bold}}700{{else}}600{{end}};color:{{.PriceColor}};font-size:11px">{{.UnitPrice}}</td>
<td style="padding:3px 4px;text-align:right;font-size:11px">{{.Price}} kr</td>
<td style="padding:3px 4px;font-size:11px">{{.Store}}</td>
</tr>{{end}}
</table></div>{{else}}<div style="margin:0 8px 12px"><h3 style="margin:0 0 6px;font-size:15px">{{.DisplayName}}</h3><p style="color:{{$.Muted}};font-size:13px">Ingen resultater</p></div>{{end}}{{end}}
{{if .Promos}}<div style="margin:16px"><h2 style="font-size:17px;margin:0 0 8px">🏷️ Spesialtilbud</h2>
<table style="width:100%;border-collapse:collapse;font-size:13px;border:1px solid {{.Border}};border-radius:6px;overflow:hidden">
<tr style="background:{{.AccentLight}}">
<th style="padding:6px;text-align:left;border-bottom:1px solid {{.Border}}">Tilbud</th>
<th style="padding:6px;text-align:left;border-bottom:1px solid {{.Border}}">Produkt</th>
<th style="padding:6px;text-align:right;border-bottom:1px solid {{.Border}}">Enhetspris</th>
<th style="padding:6px;text-align:right;border-bottom:1px solid {{.Border}}">Pris</th>
<th style="padding:6px;text-align:left;border-bottom:1px solid {{.Border}}">Butikk</th>
</tr>
{{range .Promos}}<tr style="background:{{.Background}};border-bottom:1px solid {{$.Border}}">
<td style="padding:6px"><span style="background:#ffecb3;border-radius:3px;padding:2px 6px;font-size:11px;font-weight:600">{{.Labels}}</span></td>
<td style="padding:6px">{{if .URL}}<a href="{{.URL}}" style="color:{{$.Link}};text-decoration:none">{{.Name}}</a>{{else}}{{.Name}}{{end}}</td>
<td style="padding:6px;text-align:right;font-weight:600">{{.UnitPrice}}</td>
<td style="padding:6px;text-align:right">{{.Price}} kr</td>
<td style="padding:6px">{{.Store}}</td>
</tr>{{end}}
</table></div>{{end}}
{{if .Triggers}}<div style="background:{{.WarnBG}};border:1px solid {{.WarnBorder}};border-radius:8px;padding:14px 16px;margin:16px">
<h3 style="margin:0 0 8px;font-size:15px">🔔 Varsler ({{len .Triggers}})</h3>
<table style="width:100%;border-collapse:collapse;font-size:13px">
{{range .Triggers}}<tr>
<td style="padding:3px 6px 3px 0;vertical-align:top;white-space:nowrap"><span style="background:{{.Badge}};border-radius:4px;padding:1px 6px;font-size:11px;font-weight:600">{{.Type}}</span></td>
<td style="padding:3px 0">{{.Message}}</td>
</tr>{{end}}
</table></div>{{end}}
<div style="text-align:center;padding:16px;color:{{.Muted}};font-size:11px;border-top:1px solid {{.Border}};margin-top:8px">Generert av billigst-mat 🛒</div>
</div></body></html>
`))

func triggerBadge(t model.TriggerType) string {
	switch t {
	case model.TriggerNewBest:
		return "#c8e6c9"
	case model.TriggerBelowThreshold:
		return "#bbdefb"
	case model.TriggerEntersTopN:
		return "#fff9c4"
	case model.TriggerPriceDrop:
		return "#ffccbc"
	}
	return "#e0e0e0"
}

func sourceTag(s model.Source) string {
	if s == model.SourceEtilbudsavis {
		return "📰"
	}
	return "🛒"
}

// leading unicode token of the display name, used when no product image
// is available.
func heroEmoji(display string) string {
	fields := strings.Fields(display)
	if len(fields) == 0 {
		return "🛒"
	}
	return fields[0]
}

func rowBackground(rank int, best bool) string {
	if best {
		return colorAccentLight
	}
	if rank%2 == 1 {
		return colorCard
	}
	return "#f9fafb"
}

func buildHeroRows(results []*pipeline.GroupResult) [][]heroCard {
	var cards []heroCard
	for _, r := range results {
		if len(r.TopItems) == 0 {
			continue
		}
		top := r.TopItems[0]
		display := r.Group.DisplayName
		if display == "" {
			display = r.Group.Name
		}
		cards = append(cards, heroCard{
			GroupDisplay: display,
			Emoji:        heroEmoji(display),
			Name:         top.Name,
			URL:          top.URL,
			Image:        top.Image,
			UnitPrice:    fmt.Sprintf("%.2f %s", top.NormalizedUnitPrice, top.TargetUnit.Label()),
			Price:        fmt.Sprintf("%.2f", top.Price),
			Store:        storeOrUnknown(top.Store),
		})
	}

	const cols = 2
	var rows [][]heroCard
	for i := 0; i < len(cards); i += cols {
		end := min(i+cols, len(cards))
		rows = append(rows, cards[i:end])
	}
	return rows
}

func buildGroupSections(results []*pipeline.GroupResult) []groupSection {
	sections := make([]groupSection, 0, len(results))
	for _, r := range results {
		display := r.Group.DisplayName
		if display == "" {
			display = r.Group.Name
		}
		sec := groupSection{DisplayName: display}
		if len(r.TopItems) > 0 {
			sec.UnitLabel = r.TopItems[0].TargetUnit.Label()
		}
		for i, item := range r.TopItems {
			rank := i + 1
			row := tableRow{
				Rank:       rank,
				Background: rowBackground(rank, rank == 1),
				SourceTag:  sourceTag(item.Source),
				Name:       item.Name,
				URL:        item.URL,
				Image:      item.Image,
				AltURLs:    item.AltURLs,
				UnitPrice:  fmt.Sprintf("%.2f %s", item.NormalizedUnitPrice, item.TargetUnit.Label()),
				Price:      fmt.Sprintf("%.2f", item.Price),
				Store:      storeOrUnknown(item.Store),
				Bold:       rank == 1,
			}
			if rank == 1 {
				row.PriceColor = colorAccent
			} else {
				row.PriceColor = colorText
			}
			if !item.ValidUntil.IsZero() {
				row.ValidUntil = item.ValidUntil.Format("2006-01-02")
			}
			if len(item.Promos) > 0 {
				row.PromoBadge = item.Promos[0]
			}
			sec.Rows = append(sec.Rows, row)
		}
		sections = append(sections, sec)
	}
	return sections
}

func buildPromoRows(promos []*model.Offer) []promoRow {
	rows := make([]promoRow, 0, len(promos))
	for i, o := range promos {
		up := "?"
		if o.NormalizedUnitPrice > 0 && !math.IsInf(o.NormalizedUnitPrice, 1) {
			up = fmt.Sprintf("%.2f kr/%s", o.NormalizedUnitPrice, o.TargetUnit.Short())
		}
		rows = append(rows, promoRow{
			Background: rowBackground(i+1, false),
			Labels:     strings.Join(o.Promos, " | "),
			Name:       o.Name,
			URL:        o.URL,
			UnitPrice:  up,
			Price:      fmt.Sprintf("%.2f", o.Price),
			Store:      storeOrUnknown(o.Store),
		})
	}
	return rows
}

func storeOrUnknown(store string) string {
	if store == "" {
		return "?"
	}
	return store
}

// BuildHTML renders the rich HTML digest body. Promos must already be
// deduplicated against the leaderboards (see pipeline.CollectPromos).
func BuildHTML(results []*pipeline.GroupResult, triggers []model.Trigger, promos []*model.Offer) (string, error) {
	data := digestData{
		HeroRows: buildHeroRows(results),
		Groups:   buildGroupSections(results),
		Promos:   buildPromoRows(promos),

		BG:          colorBG,
		Card:        colorCard,
		Accent:      colorAccent,
		AccentLight: colorAccentLight,
		Text:        colorText,
		Muted:       colorMuted,
		Border:      colorBorder,
		Link:        colorLink,
		WarnBG:      colorWarnBG,
		WarnBorder:  colorWarnBorder,
	}
	for _, t := range triggers {
		data.Triggers = append(data.Triggers, triggerRow{
			Type:    string(t.Type),
			Message: t.Message,
			Badge:   triggerBadge(t.Type),
		})
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, &data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
