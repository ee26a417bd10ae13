package chat

import (
	"fmt"
	"strings"

	"github.com/cryptodash/market-dashboard/format"
	"github.com/cryptodash/market-dashboard/provider"
)

// currencyAliases maps a currency code to the words users type for it.
// Used by the deterministic conversion guard: relying on prompt wording
// alone leaves policy enforcement to the hosted model's compliance.
var currencyAliases = map[string][]string{
	"usd": {"usd", "dollar", "dollars", "$"},
	"eur": {"eur", "euro", "euros", "€"},
	"gbp": {"gbp", "pound", "pounds", "sterling", "£"},
	"jpy": {"jpy", "yen", "¥"},
	"chf": {"chf", "franc", "francs"},
	"cad": {"cad"},
	"aud": {"aud"},
	"cny": {"cny", "yuan", "renminbi"},
	"inr": {"inr", "rupee", "rupees"},
	"btc": {"btc"},
	"eth": {"eth"},
}

// DetectForeignCurrency reports whether the question mentions a currency
// other than the active one, and which
func DetectForeignCurrency(question, activeCurrency string) (string, bool) {
	activeCurrency = strings.ToLower(activeCurrency)
	words := tokenize(question)

	for code, aliases := range currencyAliases {
		if code == activeCurrency {
			continue
		}
		for _, alias := range aliases {
			if _, ok := words[alias]; ok {
				return code, true
			}
		}
	}

	return "", false
}

func tokenize(question string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '?', '!', '.', ',', ';', ':', '(', ')', '"', '\'':
			return ' '
		}
		return r
	}, strings.ToLower(question))

	words := make(map[string]struct{})
	for _, w := range strings.Fields(cleaned) {
		words[w] = struct{}{}
	}
	return words
}

// RefusalMessage is the canned reply for conversion requests caught by
// the deterministic guard
func RefusalMessage(activeCurrency, requestedCurrency string) string {
	return fmt.Sprintf(
		"The dashboard only displays prices in %s, so I can't convert them to %s. "+
			"Please switch the currency in the sidebar settings to see prices in a different currency.",
		strings.ToUpper(activeCurrency), strings.ToUpper(requestedCurrency))
}

// BuildMarketContext renders the latest snapshot collection into the
// textual context blob sent to the model alongside the user question
func BuildMarketContext(snapshots []provider.MarketSnapshot, currency string) string {
	if len(snapshots) == 0 {
		return "No market data available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CURRENT MARKET DATA (top %d by market cap) - All prices are in %s.\n\n",
		len(snapshots), strings.ToUpper(currency))

	for _, snapshot := range snapshots {
		price := format.PriceOrPlaceholder(snapshot.CurrentPrice, currency)
		marketCap := format.Symbol(currency) + compactOrPlaceholder(snapshot.MarketCap)
		volume := format.Symbol(currency) + compactOrPlaceholder(snapshot.TotalVolume)
		change := format.PercentOrPlaceholder(snapshot.PriceChangePercentage24h)

		fmt.Fprintf(&b, "%s (%s): price %s, market cap %s, 24h volume %s, 24h change %s\n",
			snapshot.Name, strings.ToUpper(snapshot.Symbol), price, marketCap, volume, change)
	}

	return b.String()
}

func compactOrPlaceholder(value float64) string {
	s, err := format.Compact(value)
	if err != nil {
		return format.Placeholder
	}
	return s
}

// buildPrompt assembles the full user prompt: context, question and the
// answering instructions including the no-conversion policy
func buildPrompt(question string, snapshots []provider.MarketSnapshot, currency string) string {
	context := BuildMarketContext(snapshots, currency)
	upper := strings.ToUpper(currency)

	return fmt.Sprintf(
		"%s\n\nUser question: %s\n\n"+
			"Instructions:\n"+
			"- Answer based on the provided data and your general knowledge about cryptocurrencies.\n"+
			"- The data above is in %s. If the user asks for prices in another currency, DO NOT perform any conversion. "+
			"Instead, politely explain that the dashboard only displays prices in the selected currency and advise them "+
			"to change the currency in the sidebar settings.\n"+
			"- If the question is unclear, ask for clarification.\n"+
			"- Use the data to support your answers, and indicate when you are using general knowledge.",
		context, question, upper)
}
