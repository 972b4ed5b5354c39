package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rintaro796/cs2-discord-alerts/internal/model"
)

// Timestamp renders the report time the way the channel expects it.
func Timestamp(t time.Time) string {
	return t.Local().Format("Jan 02, 2006 03:04 PM MST")
}

// FormatMoney renders a USD amount with thousands separators.
func FormatMoney(x float64) string {
	return "$" + humanize.FormatFloat("#,###.##", x)
}

// FormatSummaryEmbed renders the portfolio summary as a rich embed.
func FormatSummaryEmbed(sum model.Summary, now string) Embed {
	return Embed{
		Title:       fmt.Sprintf("💼 CS2 Portfolio Summary — %s", now),
		Description: "Daily summary from your Google Sheet",
		Fields: []EmbedField{
			{Name: "Total Current Value", Value: FormatMoney(sum.TotalCurrentValue), Inline: true},
			{Name: "Total Cost Basis", Value: FormatMoney(sum.TotalCostBasis), Inline: true},
			{Name: "Unrealized P&L", Value: FormatMoney(sum.Unrealized), Inline: true},
			{Name: "ROI %", Value: fmt.Sprintf("%.2f%%", sum.ROIPct), Inline: true},
			{Name: "Top 5 Gainers (ROI %)", Value: rankedBlock(sum.Gainers), Inline: false},
			{Name: "Top 5 Losers (ROI %)", Value: rankedBlock(sum.Losers), Inline: false},
		},
		Footer: &EmbedFooter{Text: "Source: Published CSV portfolio"},
	}
}

func rankedBlock(items []model.RankedItem) string {
	if len(items) == 0 {
		return "_None_"
	}
	lines := make([]string, 0, len(items))
	for _, x := range items {
		lines = append(lines, fmt.Sprintf("- **%s** (%s): %.2f%%", x.Item, x.Condition, x.ROIPercent))
	}
	return strings.Join(lines, "\n")
}

// FormatAlertMessage renders threshold crossings as plain-text lines.
func FormatAlertMessage(alerts []model.Alert) string {
	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		arrow := "▲"
		if a.PercentChange <= 0 {
			arrow = "▼"
		}
		lines = append(lines, fmt.Sprintf("%s **%s** %.1f%%  (%s → %s)",
			arrow, a.Identity, a.PercentChange, FormatMoney(a.PreviousValue), FormatMoney(a.CurrentValue)))
	}
	return "🚨 **Intraday Price Alerts** (since last run)\n" + strings.Join(lines, "\n")
}

// NoAlertsMessage is posted when a run produced zero crossings.
// "Nothing happened" is still a reportable outcome.
func NoAlertsMessage() string {
	return "✅ No intraday price alerts this run."
}

// FormatPumpEmbed renders flagged pump-like moves.
func FormatPumpEmbed(flagged []model.PumpItem, now string) Embed {
	lines := make([]string, 0, len(flagged))
	for _, x := range flagged {
		st := ""
		if x.StatTrak {
			st = " ST"
		}
		vol := ""
		if x.VolumeNote != "" {
			vol = "· " + x.VolumeNote
		}
		lines = append(lines, fmt.Sprintf("• **%s** (%s%s) — 24h: +%g%%, 72h: +%g%% %s %s",
			x.Item, x.Wear, st, x.Pct24, x.Pct72, vol, firstLink(x.Links)))
	}
	desc := strings.Join(lines, "\n")
	if desc == "" {
		desc = "_None_"
	}
	return Embed{
		Title:       fmt.Sprintf("🚨 Pump-like Moves — %s", now),
		Description: desc,
		Footer:      &EmbedFooter{Text: "Sources: Steam · CSFloat · BUFF163 (+ CN buzz if available)"},
	}
}

// NoPumpMessage is posted when no item crossed the pump thresholds.
func NoPumpMessage(now string) string {
	return fmt.Sprintf("✅ No pump-like moves this run (%s).", now)
}

// FormatStickersEmbed renders the up/down mover buckets.
func FormatStickersEmbed(up, down []model.StickerItem, now string) Embed {
	return Embed{
		Title: fmt.Sprintf("🎟️ Stickers & Patches — %s", now),
		Fields: []EmbedField{
			{Name: "UPWARD Movers (24h/72h/7d)", Value: stickerBlock(up), Inline: false},
			{Name: "DOWNWARD Movers (24h/72h/7d)", Value: stickerBlock(down), Inline: false},
		},
		Footer: &EmbedFooter{Text: "Cross-ref cases/souvenirs when applicable"},
	}
}

func stickerBlock(items []model.StickerItem) string {
	if len(items) == 0 {
		return "_None_"
	}
	lines := make([]string, 0, len(items))
	for _, x := range items {
		lines = append(lines, fmt.Sprintf("• **%s** — 24h: %s / 72h: %s / 7d: %s  %s %s",
			x.Name, x.Chg24, x.Chg72, x.Chg7d, x.Notes, firstLink(x.Links)))
	}
	return strings.Join(lines, "\n")
}

// FormatCandidatesEmbed renders investment-grade candidates.
func FormatCandidatesEmbed(items []model.CandidateItem, now string) Embed {
	lines := make([]string, 0, len(items))
	for _, x := range items {
		lines = append(lines, fmt.Sprintf("• **%s** — 7d: %s, 30d: %s  · %s  · %s  %s",
			x.Item, x.Trend7, x.Trend30, x.ListingsChange, x.SupplyNote, firstLink(x.Links)))
	}
	desc := strings.Join(lines, "\n")
	if desc == "" {
		desc = "_No candidates_"
	}
	return Embed{
		Title:       fmt.Sprintf("🔎 Early Investment-Grade Candidates — %s", now),
		Description: desc,
		Footer:      &EmbedFooter{Text: "Signals: Trend + Volume + Listings + Supply + Buzz"},
	}
}

func firstLink(links []string) string {
	if len(links) == 0 {
		return ""
	}
	return links[0]
}
