package publisher

import (
	"strings"
	"testing"
	"unicode/utf8"

	"cratepress/internal/catalog"
)

func TestBuildPostIncludesPriceAndCallToAction(t *testing.T) {
	price := 49.9
	item := &catalog.Item{Caption: "🎵 Clube da Esquina, prensagem de 1972", Price: &price}

	post := BuildPost(item)
	if !strings.HasPrefix(post, "🎵 Clube da Esquina") {
		t.Fatalf("post = %q", post)
	}
	if !strings.Contains(post, "💰 R$ 49,90") {
		t.Fatalf("expected localized price line, got %q", post)
	}
	if !strings.HasSuffix(post, callToAction) {
		t.Fatalf("expected call to action suffix, got %q", post)
	}
}

func TestBuildPostWithoutPrice(t *testing.T) {
	item := &catalog.Item{Caption: "caption"}

	post := BuildPost(item)
	if strings.Contains(post, "R$") {
		t.Fatalf("unexpected price line: %q", post)
	}
	if !strings.Contains(post, callToAction) {
		t.Fatalf("missing call to action: %q", post)
	}
}

func TestBuildPostClampsLongCaptions(t *testing.T) {
	price := 10.0
	item := &catalog.Item{Caption: strings.Repeat("é", 3000), Price: &price}

	post := BuildPost(item)
	if len(post) > maxPostLength {
		t.Fatalf("post length = %d", len(post))
	}
	if !strings.HasSuffix(post, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", post[len(post)-10:])
	}
	if !utf8.ValidString(post) {
		t.Fatal("clamp produced invalid utf-8")
	}
}

func TestBuildPostThousandsSeparator(t *testing.T) {
	price := 1250.0
	item := &catalog.Item{Caption: "raridade", Price: &price}

	post := BuildPost(item)
	if !strings.Contains(post, "💰 R$ 1.250,00") {
		t.Fatalf("price formatting = %q", post)
	}
}
