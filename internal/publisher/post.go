package publisher

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cratepress/internal/catalog"
)

// maxPostLength is the Instagram caption limit.
const maxPostLength = 2000

const callToAction = "📩 Interessado? Chama no direct!"

var pricePrinter = message.NewPrinter(language.BrazilianPortuguese)

// BuildPost assembles the final post text for an item: the generated caption,
// a price line, and the call to action, clamped to the caption limit.
func BuildPost(item *catalog.Item) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(item.Caption))

	if item.Price != nil {
		b.WriteString("\n\n")
		b.WriteString(pricePrinter.Sprintf("💰 R$ %.2f", *item.Price))
	}

	b.WriteString("\n\n")
	b.WriteString(callToAction)

	post := b.String()
	if len(post) > maxPostLength {
		cut := maxPostLength - 3
		for cut > 0 && !utf8.RuneStart(post[cut]) {
			cut--
		}
		post = post[:cut] + "..."
	}
	return post
}
